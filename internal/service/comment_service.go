package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"comment-sync-api/internal/client"
	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/repository"
	"comment-sync-api/internal/response"
)

// CommentService exposes moderation operations on stored comments
type CommentService interface {
	List(ctx context.Context, filters *repository.CommentFilters) ([]*domain.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Hide(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Unhide(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Reply(ctx context.Context, id uuid.UUID, message string) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActivityLogs(ctx context.Context, id uuid.UUID) ([]*domain.ActivityLog, error)
	GenerateSuggestion(ctx context.Context, id uuid.UUID) (*domain.ReplySuggestion, error)
	Suggestions(ctx context.Context, id uuid.UUID) ([]*domain.ReplySuggestion, error)
}

type commentServiceImpl struct {
	commentRepo    repository.CommentRepository
	activityLog    repository.ActivityLogRepository
	suggestionRepo repository.ReplySuggestionRepository
	scheduler      AutoReplyScheduler
	generator      ReplyGenerator
	automation     AutomationConfigService
	graph          client.GraphClient
	logger         *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	activityLog repository.ActivityLogRepository,
	suggestionRepo repository.ReplySuggestionRepository,
	scheduler AutoReplyScheduler,
	generator ReplyGenerator,
	automation AutomationConfigService,
	graph client.GraphClient,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo:    commentRepo,
		activityLog:    activityLog,
		suggestionRepo: suggestionRepo,
		scheduler:      scheduler,
		generator:      generator,
		automation:     automation,
		graph:          graph,
		logger:         logger,
	}
}

// List returns comments matching the filters
func (s *commentServiceImpl) List(ctx context.Context, filters *repository.CommentFilters) ([]*domain.Comment, error) {
	return s.commentRepo.List(ctx, filters)
}

// Get returns a single comment by id
func (s *commentServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "comment not found", "")
		}
		return nil, err
	}
	return comment, nil
}

// Hide marks the comment hidden. This is the same transition the webhook
// hide event takes: status flips to hidden, pending auto-replies are
// canceled, and the action is logged.
func (s *commentServiceImpl) Hide(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.Status == domain.CommentStatusHidden {
		return comment, nil
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, domain.CommentStatusHidden); err != nil {
		return nil, err
	}
	comment.Status = domain.CommentStatusHidden

	if s.scheduler != nil {
		if err := s.scheduler.CancelForComment(ctx, id); err != nil {
			s.logger.Error("Failed to cancel scheduled reply for hidden comment",
				zap.String("comment_id", id.String()),
				zap.Error(err),
			)
		}
	}

	s.logAction(ctx, id, "comment_hidden", map[string]interface{}{"source": "manual"})
	return comment, nil
}

// Unhide returns a hidden comment to the pending state
func (s *commentServiceImpl) Unhide(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.Status != domain.CommentStatusHidden {
		return comment, nil
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, domain.CommentStatusPending); err != nil {
		return nil, err
	}
	comment.Status = domain.CommentStatusPending

	s.logAction(ctx, id, "comment_unhidden", nil)
	return comment, nil
}

// Reply posts a manual reply to the platform, marks the comment replied
// and cancels any scheduled auto-reply so the customer is not answered twice
func (s *commentServiceImpl) Reply(ctx context.Context, id uuid.UUID, message string) (*domain.Comment, error) {
	if message == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "reply message is required", "")
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	replyID, err := s.graph.ReplyToComment(ctx, comment.ExternalCommentID, message)
	if err != nil {
		return nil, err
	}

	if s.scheduler != nil {
		if err := s.scheduler.CancelForComment(ctx, id); err != nil {
			s.logger.Error("Failed to cancel scheduled reply after manual reply",
				zap.String("comment_id", id.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, domain.CommentStatusReplied); err != nil {
		return nil, err
	}
	comment.Status = domain.CommentStatusReplied

	s.logAction(ctx, id, "manual_reply_sent", map[string]interface{}{
		"reply_id": replyID,
		"message":  message,
	})
	return comment, nil
}

// Delete removes the comment and all dependent rows
func (s *commentServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.HardDelete(ctx, id)
}

// ActivityLogs returns the audit trail for a comment
func (s *commentServiceImpl) ActivityLogs(ctx context.Context, id uuid.UUID) ([]*domain.ActivityLog, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.activityLog.FindByCommentID(ctx, id)
}

// GenerateSuggestion produces and stores a reply candidate without
// sending it anywhere
func (s *commentServiceImpl) GenerateSuggestion(ctx context.Context, id uuid.UUID) (*domain.ReplySuggestion, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := s.automation.Get(ctx, comment.Platform)
	if err != nil {
		return nil, err
	}

	text, source, err := s.generator.Generate(ctx, comment, cfg)
	if err != nil {
		return nil, err
	}

	suggestion := &domain.ReplySuggestion{
		CommentID:     id,
		SuggestedText: text,
		Source:        source,
	}
	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// Suggestions returns stored reply candidates for a comment
func (s *commentServiceImpl) Suggestions(ctx context.Context, id uuid.UUID) ([]*domain.ReplySuggestion, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.suggestionRepo.FindByCommentID(ctx, id)
}

func (s *commentServiceImpl) logAction(ctx context.Context, commentID uuid.UUID, action string, data map[string]interface{}) {
	entry := &domain.ActivityLog{
		CommentID:  commentID,
		ActionType: action,
	}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			entry.ActionData = datatypes.JSON(raw)
		}
	}
	if err := s.activityLog.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write activity log",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
