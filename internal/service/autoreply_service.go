package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"comment-sync-api/internal/client"
	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/metrics"
	"comment-sync-api/internal/repository"
)

const maxDispatchAttempts = 3

// AutoReplyScheduler queues delayed auto-replies for newly stored
// comments. The reconciler and the rescanner both depend on it.
type AutoReplyScheduler interface {
	ScheduleForComment(ctx context.Context, comment *domain.Comment) error
	CancelForComment(ctx context.Context, commentID uuid.UUID) error
}

// AutoReplyService schedules and dispatches automated replies. A reply
// is a durable row with a due time rather than an in-process timer, so
// queued replies survive restarts and land after the configured delay.
type AutoReplyService interface {
	AutoReplyScheduler
	DispatchDue(ctx context.Context) (int, error)
}

type autoReplyServiceImpl struct {
	commentRepo    repository.CommentRepository
	scheduledRepo  repository.ScheduledReplyRepository
	suggestionRepo repository.ReplySuggestionRepository
	activityLog    repository.ActivityLogRepository
	automation     AutomationConfigService
	generator      ReplyGenerator
	graph          client.GraphClient
	metrics        *metrics.Metrics
	logger         *zap.Logger
	batchSize      int
}

// NewAutoReplyService creates a new auto-reply service
func NewAutoReplyService(
	commentRepo repository.CommentRepository,
	scheduledRepo repository.ScheduledReplyRepository,
	suggestionRepo repository.ReplySuggestionRepository,
	activityLog repository.ActivityLogRepository,
	automation AutomationConfigService,
	generator ReplyGenerator,
	graph client.GraphClient,
	m *metrics.Metrics,
	logger *zap.Logger,
	batchSize int,
) AutoReplyService {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &autoReplyServiceImpl{
		commentRepo:    commentRepo,
		scheduledRepo:  scheduledRepo,
		suggestionRepo: suggestionRepo,
		activityLog:    activityLog,
		automation:     automation,
		generator:      generator,
		graph:          graph,
		metrics:        m,
		logger:         logger,
		batchSize:      batchSize,
	}
}

// ScheduleForComment queues a delayed reply when automation is enabled
// for the comment's platform. Scheduling is skipped, not failed, when
// automation is off, the comment was already answered or moderated, or
// a reply is already pending.
func (s *autoReplyServiceImpl) ScheduleForComment(ctx context.Context, comment *domain.Comment) error {
	switch comment.Status {
	case domain.CommentStatusResponded, domain.CommentStatusReplied,
		domain.CommentStatusHandled, domain.CommentStatusHidden:
		return nil
	}

	cfg, err := s.automation.Get(ctx, comment.Platform)
	if err != nil {
		return err
	}
	if !cfg.Enabled || !cfg.AutoReply {
		return nil
	}

	pending, err := s.scheduledRepo.HasPendingForComment(ctx, comment.ID)
	if err != nil {
		return err
	}
	if pending {
		return nil
	}

	delay := time.Duration(cfg.ResponseDelaySeconds) * time.Second
	reply := &domain.ScheduledReply{
		CommentID: comment.ID,
		DueAt:     time.Now().UTC().Add(delay),
		Status:    domain.ScheduledReplyPending,
	}
	if err := s.scheduledRepo.Create(ctx, reply); err != nil {
		return err
	}

	s.logger.Info("Auto-reply scheduled",
		zap.String("comment_id", comment.ID.String()),
		zap.Duration("delay", delay),
	)
	return nil
}

// CancelForComment cancels any undispatched replies for a comment
func (s *autoReplyServiceImpl) CancelForComment(ctx context.Context, commentID uuid.UUID) error {
	return s.scheduledRepo.CancelPendingForComment(ctx, commentID)
}

// DispatchDue sends every scheduled reply whose due time has passed and
// returns how many were dispatched. One bad reply does not stop the
// batch; failures are recorded on the row and retried until the attempt
// budget runs out.
func (s *autoReplyServiceImpl) DispatchDue(ctx context.Context) (int, error) {
	due, err := s.scheduledRepo.FindDue(ctx, time.Now().UTC(), s.batchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, reply := range due {
		if err := s.dispatch(ctx, reply); err != nil {
			s.logger.Error("Failed to dispatch scheduled reply",
				zap.String("scheduled_reply_id", reply.ID.String()),
				zap.Error(err),
			)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *autoReplyServiceImpl) dispatch(ctx context.Context, reply *domain.ScheduledReply) error {
	comment, err := s.commentRepo.FindByID(ctx, reply.CommentID)
	if err != nil {
		// Comment was deleted after scheduling; drop the task
		reply.Status = domain.ScheduledReplyCanceled
		return s.scheduledRepo.Update(ctx, reply)
	}

	// Comments hidden or handled after scheduling no longer want a reply
	if comment.Status != domain.CommentStatusPending {
		reply.Status = domain.ScheduledReplyCanceled
		return s.scheduledRepo.Update(ctx, reply)
	}

	cfg, err := s.automation.Get(ctx, comment.Platform)
	if err != nil {
		return err
	}
	if !cfg.Enabled || !cfg.AutoReply {
		reply.Status = domain.ScheduledReplyCanceled
		return s.scheduledRepo.Update(ctx, reply)
	}

	text, source, err := s.generator.Generate(ctx, comment, cfg)
	if err != nil {
		return s.recordFailure(ctx, reply, comment.Platform, err)
	}

	if _, err := s.graph.ReplyToComment(ctx, comment.ExternalCommentID, text); err != nil {
		return s.recordFailure(ctx, reply, comment.Platform, err)
	}

	reply.Status = domain.ScheduledReplySent
	reply.Attempts++
	reply.LastError = ""
	if err := s.scheduledRepo.Update(ctx, reply); err != nil {
		return err
	}

	suggestion := &domain.ReplySuggestion{
		CommentID:     comment.ID,
		SuggestedText: text,
		Source:        source,
		Used:          true,
	}
	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		s.logger.Warn("Failed to record reply suggestion", zap.Error(err))
	}

	if err := s.commentRepo.UpdateStatus(ctx, comment.ID, domain.CommentStatusReplied); err != nil {
		s.logger.Warn("Failed to mark comment replied",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
	}

	s.logActivity(ctx, comment.ID, "auto_reply_sent", map[string]interface{}{
		"source":  source,
		"message": text,
	})

	if s.metrics != nil {
		s.metrics.RecordAutoReply(string(comment.Platform), "sent")
	}
	s.logger.Info("Auto-reply sent",
		zap.String("comment_id", comment.ID.String()),
		zap.String("source", source),
	)
	return nil
}

func (s *autoReplyServiceImpl) logActivity(ctx context.Context, commentID uuid.UUID, action string, data map[string]interface{}) {
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

// recordFailure bumps the attempt counter and keeps the row pending
// until the attempt budget is spent, then marks it failed
func (s *autoReplyServiceImpl) recordFailure(ctx context.Context, reply *domain.ScheduledReply, platform domain.Platform, cause error) error {
	reply.Attempts++
	reply.LastError = cause.Error()
	if reply.Attempts >= maxDispatchAttempts {
		reply.Status = domain.ScheduledReplyFailed
		if s.metrics != nil {
			s.metrics.RecordAutoReply(string(platform), "failed")
		}
	}
	if err := s.scheduledRepo.Update(ctx, reply); err != nil {
		return err
	}
	return cause
}
