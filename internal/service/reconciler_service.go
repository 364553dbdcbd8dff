package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/metrics"
	"comment-sync-api/internal/repository"
)

// ReconcileOutcome describes what the reconciler did with an event
type ReconcileOutcome string

const (
	OutcomeInserted  ReconcileOutcome = "inserted"
	OutcomeDuplicate ReconcileOutcome = "duplicate"
	OutcomeEdited    ReconcileOutcome = "edited"
	OutcomeDeleted   ReconcileOutcome = "deleted"
	OutcomeHidden    ReconcileOutcome = "hidden"
	OutcomeNotFound  ReconcileOutcome = "not_found"
)

// ReconcileResult is the per-event outcome returned by the reconciler
type ReconcileResult struct {
	Outcome ReconcileOutcome
	Comment *domain.Comment
}

var errUnsupportedAction = errors.New("unsupported event action")

// ReconcilerService applies normalized webhook events to the comment
// store. Every operation is idempotent: the platform redelivers events
// and the same event must converge to the same stored state.
type ReconcilerService interface {
	Reconcile(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error)
}

type reconcilerServiceImpl struct {
	commentRepo repository.CommentRepository
	activityLog repository.ActivityLogRepository
	scheduler   AutoReplyScheduler
	metrics     *metrics.Metrics
	logger      *zap.Logger
	pageID      string
}

// NewReconcilerService creates a new reconciler service
func NewReconcilerService(
	commentRepo repository.CommentRepository,
	activityLog repository.ActivityLogRepository,
	scheduler AutoReplyScheduler,
	m *metrics.Metrics,
	logger *zap.Logger,
	pageID string,
) ReconcilerService {
	return &reconcilerServiceImpl{
		commentRepo: commentRepo,
		activityLog: activityLog,
		scheduler:   scheduler,
		metrics:     m,
		logger:      logger,
		pageID:      pageID,
	}
}

func (s *reconcilerServiceImpl) Reconcile(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error) {
	if s.metrics != nil {
		s.metrics.RecordWebhookEvent(string(event.Platform), string(event.Action))
	}

	var (
		result *ReconcileResult
		err    error
	)
	switch event.Action {
	case domain.ActionAdd:
		result, err = s.reconcileAdd(ctx, event)
	case domain.ActionEdit:
		result, err = s.reconcileEdit(ctx, event)
	case domain.ActionRemove:
		result, err = s.reconcileRemove(ctx, event)
	case domain.ActionHide:
		result, err = s.reconcileHide(ctx, event)
	default:
		return nil, errUnsupportedAction
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordReconcileOutcome(string(event.Platform), string(result.Outcome))
	}
	return result, nil
}

// reconcileAdd inserts the comment if it is not already stored. Lookup
// runs before insert so redeliveries short-circuit; when two deliveries
// race, the unique index decides the winner and the loser re-reads the
// winner's row.
func (s *reconcilerServiceImpl) reconcileAdd(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error) {
	externalID := CanonicalCommentID(event.PostID, event.RawCommentID)

	existing, err := s.commentRepo.FindByExternalID(ctx, event.Platform, externalID)
	if err == nil {
		return &ReconcileResult{Outcome: OutcomeDuplicate, Comment: existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	comment := s.commentFromEvent(event, externalID)
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		winner, lookupErr := s.commentRepo.FindByExternalID(ctx, event.Platform, externalID)
		if lookupErr == nil {
			return &ReconcileResult{Outcome: OutcomeDuplicate, Comment: winner}, nil
		}
		return nil, err
	}

	s.logActivity(ctx, comment.ID, "comment_received", map[string]interface{}{
		"platform":            string(event.Platform),
		"external_comment_id": externalID,
	})

	if s.scheduler != nil && !s.isPageAuthored(event) {
		if err := s.scheduler.ScheduleForComment(ctx, comment); err != nil {
			s.logger.Error("Failed to schedule auto-reply",
				zap.String("comment_id", comment.ID.String()),
				zap.Error(err),
			)
		}
	}

	return &ReconcileResult{Outcome: OutcomeInserted, Comment: comment}, nil
}

// reconcileEdit updates the text of a stored comment. The original text
// is captured exactly once, on the first edit; later edits only move the
// current text. An edit for a comment never stored is a no-op.
func (s *reconcilerServiceImpl) reconcileEdit(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error) {
	externalID := CanonicalCommentID(event.PostID, event.RawCommentID)

	comment, err := s.commentRepo.FindByExternalID(ctx, event.Platform, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("Edit for unknown comment ignored",
				zap.String("external_comment_id", externalID),
			)
			return &ReconcileResult{Outcome: OutcomeNotFound}, nil
		}
		return nil, err
	}

	if comment.EditCount == 0 {
		original := comment.CommentText
		comment.OriginalText = &original
	}
	comment.CommentText = event.Text
	comment.IsEdited = true
	comment.EditCount++
	editedAt := event.CreatedTime
	if editedAt.IsZero() {
		editedAt = time.Now().UTC()
	}
	comment.LastEditedAt = &editedAt

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logActivity(ctx, comment.ID, "comment_edited", map[string]interface{}{
		"edit_count": comment.EditCount,
	})

	return &ReconcileResult{Outcome: OutcomeEdited, Comment: comment}, nil
}

// reconcileRemove hard-deletes the comment and its dependents. Removal
// of a comment never stored is a no-op.
func (s *reconcilerServiceImpl) reconcileRemove(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error) {
	externalID := CanonicalCommentID(event.PostID, event.RawCommentID)

	comment, err := s.commentRepo.FindByExternalID(ctx, event.Platform, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReconcileResult{Outcome: OutcomeNotFound}, nil
		}
		return nil, err
	}

	if err := s.commentRepo.HardDelete(ctx, comment.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Comment removed by platform",
		zap.String("comment_id", comment.ID.String()),
		zap.String("external_comment_id", externalID),
	)
	return &ReconcileResult{Outcome: OutcomeDeleted, Comment: comment}, nil
}

// reconcileHide marks the comment hidden through the same transition the
// moderation endpoint uses, and cancels any undispatched auto-reply.
func (s *reconcilerServiceImpl) reconcileHide(ctx context.Context, event domain.CommentEvent) (*ReconcileResult, error) {
	externalID := CanonicalCommentID(event.PostID, event.RawCommentID)

	comment, err := s.commentRepo.FindByExternalID(ctx, event.Platform, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReconcileResult{Outcome: OutcomeNotFound}, nil
		}
		return nil, err
	}

	if err := s.commentRepo.UpdateStatus(ctx, comment.ID, domain.CommentStatusHidden); err != nil {
		return nil, err
	}
	comment.Status = domain.CommentStatusHidden

	if s.scheduler != nil {
		if err := s.scheduler.CancelForComment(ctx, comment.ID); err != nil {
			s.logger.Error("Failed to cancel scheduled reply for hidden comment",
				zap.String("comment_id", comment.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logActivity(ctx, comment.ID, "comment_hidden", map[string]interface{}{
		"source": "webhook",
	})

	return &ReconcileResult{Outcome: OutcomeHidden, Comment: comment}, nil
}

func (s *reconcilerServiceImpl) commentFromEvent(event domain.CommentEvent, externalID string) *domain.Comment {
	authorName := event.AuthorName
	if authorName == "" {
		authorName = domain.AuthorPlaceholder
	}
	commentedAt := event.CreatedTime
	if commentedAt.IsZero() {
		commentedAt = time.Now().UTC()
	}
	return &domain.Comment{
		Platform:          event.Platform,
		ExternalCommentID: externalID,
		ExternalPostID:    event.PostID,
		CommentText:       event.Text,
		AuthorID:          event.AuthorID,
		AuthorName:        authorName,
		AuthorHandle:      event.AuthorHandle,
		Status:            domain.CommentStatusPending,
		CommentedAt:       commentedAt,
	}
}

// isPageAuthored reports whether the event came from the page's own
// account. The page's replies are stored for thread completeness but
// must never trigger an auto-reply back at ourselves.
func (s *reconcilerServiceImpl) isPageAuthored(event domain.CommentEvent) bool {
	return s.pageID != "" && event.AuthorID == s.pageID
}

// logActivity appends an audit entry; audit failures are logged and
// swallowed so they never fail the reconciliation itself.
func (s *reconcilerServiceImpl) logActivity(ctx context.Context, commentID uuid.UUID, action string, data map[string]interface{}) {
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
