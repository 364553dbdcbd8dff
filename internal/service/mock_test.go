package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"comment-sync-api/internal/client"
	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc           func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByExternalIDFunc func(ctx context.Context, platform domain.Platform, externalCommentID string) (*domain.Comment, error)
	FindByPostIDFunc     func(ctx context.Context, platform domain.Platform, externalPostID string) ([]*domain.Comment, error)
	ListFunc             func(ctx context.Context, filters *repository.CommentFilters) ([]*domain.Comment, error)
	RecentPostIDsFunc    func(ctx context.Context, platform domain.Platform, since time.Time) ([]string, error)
	UpdateFunc           func(ctx context.Context, comment *domain.Comment) error
	UpdateStatusFunc     func(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error
	HardDeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByExternalID(ctx context.Context, platform domain.Platform, externalCommentID string) (*domain.Comment, error) {
	if m.FindByExternalIDFunc != nil {
		return m.FindByExternalIDFunc(ctx, platform, externalCommentID)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, platform domain.Platform, externalPostID string) ([]*domain.Comment, error) {
	if m.FindByPostIDFunc != nil {
		return m.FindByPostIDFunc(ctx, platform, externalPostID)
	}
	return nil, nil
}

func (m *MockCommentRepository) List(ctx context.Context, filters *repository.CommentFilters) ([]*domain.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, nil
}

func (m *MockCommentRepository) RecentPostIDs(ctx context.Context, platform domain.Platform, since time.Time) ([]string, error) {
	if m.RecentPostIDsFunc != nil {
		return m.RecentPostIDsFunc(ctx, platform, since)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockCommentRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	if m.HardDeleteFunc != nil {
		return m.HardDeleteFunc(ctx, id)
	}
	return nil
}

// MockActivityLogRepository is a mock implementation of ActivityLogRepository
type MockActivityLogRepository struct {
	CreateFunc           func(ctx context.Context, entry *domain.ActivityLog) error
	FindByCommentIDFunc  func(ctx context.Context, commentID uuid.UUID) ([]*domain.ActivityLog, error)
	CountByCommentIDFunc func(ctx context.Context, commentID uuid.UUID) (int64, error)
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return nil
}

func (m *MockActivityLogRepository) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ActivityLog, error) {
	if m.FindByCommentIDFunc != nil {
		return m.FindByCommentIDFunc(ctx, commentID)
	}
	return nil, nil
}

func (m *MockActivityLogRepository) CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error) {
	if m.CountByCommentIDFunc != nil {
		return m.CountByCommentIDFunc(ctx, commentID)
	}
	return 0, nil
}

// MockScheduledReplyRepository is a mock implementation of ScheduledReplyRepository
type MockScheduledReplyRepository struct {
	CreateFunc                  func(ctx context.Context, reply *domain.ScheduledReply) error
	HasPendingForCommentFunc    func(ctx context.Context, commentID uuid.UUID) (bool, error)
	FindDueFunc                 func(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error)
	UpdateFunc                  func(ctx context.Context, reply *domain.ScheduledReply) error
	CancelPendingForCommentFunc func(ctx context.Context, commentID uuid.UUID) error
}

func (m *MockScheduledReplyRepository) Create(ctx context.Context, reply *domain.ScheduledReply) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reply)
	}
	return nil
}

func (m *MockScheduledReplyRepository) HasPendingForComment(ctx context.Context, commentID uuid.UUID) (bool, error) {
	if m.HasPendingForCommentFunc != nil {
		return m.HasPendingForCommentFunc(ctx, commentID)
	}
	return false, nil
}

func (m *MockScheduledReplyRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error) {
	if m.FindDueFunc != nil {
		return m.FindDueFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *MockScheduledReplyRepository) Update(ctx context.Context, reply *domain.ScheduledReply) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, reply)
	}
	return nil
}

func (m *MockScheduledReplyRepository) CancelPendingForComment(ctx context.Context, commentID uuid.UUID) error {
	if m.CancelPendingForCommentFunc != nil {
		return m.CancelPendingForCommentFunc(ctx, commentID)
	}
	return nil
}

// MockReplySuggestionRepository is a mock implementation of ReplySuggestionRepository
type MockReplySuggestionRepository struct {
	CreateFunc          func(ctx context.Context, suggestion *domain.ReplySuggestion) error
	FindByCommentIDFunc func(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplySuggestion, error)
	MarkUsedFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *MockReplySuggestionRepository) Create(ctx context.Context, suggestion *domain.ReplySuggestion) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, suggestion)
	}
	return nil
}

func (m *MockReplySuggestionRepository) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplySuggestion, error) {
	if m.FindByCommentIDFunc != nil {
		return m.FindByCommentIDFunc(ctx, commentID)
	}
	return nil, nil
}

func (m *MockReplySuggestionRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return nil
}

// MockAutomationConfigRepository is a mock implementation of AutomationConfigRepository
type MockAutomationConfigRepository struct {
	FindByPlatformFunc func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error)
	UpsertFunc         func(ctx context.Context, cfg *domain.AutomationConfig) error
}

func (m *MockAutomationConfigRepository) FindByPlatform(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
	if m.FindByPlatformFunc != nil {
		return m.FindByPlatformFunc(ctx, platform)
	}
	return nil, nil
}

func (m *MockAutomationConfigRepository) Upsert(ctx context.Context, cfg *domain.AutomationConfig) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, cfg)
	}
	return nil
}

// MockGraphClient is a mock implementation of GraphClient
type MockGraphClient struct {
	ReplyToCommentFunc func(ctx context.Context, commentID, message string) (string, error)
	ListCommentsFunc   func(ctx context.Context, postID string) ([]client.RemoteComment, error)
}

func (m *MockGraphClient) ReplyToComment(ctx context.Context, commentID, message string) (string, error) {
	if m.ReplyToCommentFunc != nil {
		return m.ReplyToCommentFunc(ctx, commentID, message)
	}
	return "", nil
}

func (m *MockGraphClient) ListComments(ctx context.Context, postID string) ([]client.RemoteComment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, postID)
	}
	return nil, nil
}

// MockAutoReplyScheduler is a mock implementation of AutoReplyScheduler
type MockAutoReplyScheduler struct {
	ScheduleForCommentFunc func(ctx context.Context, comment *domain.Comment) error
	CancelForCommentFunc   func(ctx context.Context, commentID uuid.UUID) error
}

func (m *MockAutoReplyScheduler) ScheduleForComment(ctx context.Context, comment *domain.Comment) error {
	if m.ScheduleForCommentFunc != nil {
		return m.ScheduleForCommentFunc(ctx, comment)
	}
	return nil
}

func (m *MockAutoReplyScheduler) CancelForComment(ctx context.Context, commentID uuid.UUID) error {
	if m.CancelForCommentFunc != nil {
		return m.CancelForCommentFunc(ctx, commentID)
	}
	return nil
}

// MockReplyGenerator is a mock implementation of ReplyGenerator
type MockReplyGenerator struct {
	GenerateFunc func(ctx context.Context, comment *domain.Comment, cfg *domain.AutomationConfig) (string, string, error)
}

func (m *MockReplyGenerator) Generate(ctx context.Context, comment *domain.Comment, cfg *domain.AutomationConfig) (string, string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, comment, cfg)
	}
	return "mock reply", SourceKeyword, nil
}
