package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
)

// ScheduledReplyRepository defines the interface for scheduled reply data access
type ScheduledReplyRepository interface {
	Create(ctx context.Context, reply *domain.ScheduledReply) error
	HasPendingForComment(ctx context.Context, commentID uuid.UUID) (bool, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error)
	Update(ctx context.Context, reply *domain.ScheduledReply) error
	CancelPendingForComment(ctx context.Context, commentID uuid.UUID) error
}

// scheduledReplyRepositoryImpl is the GORM implementation of ScheduledReplyRepository
type scheduledReplyRepositoryImpl struct {
	db *gorm.DB
}

// NewScheduledReplyRepository creates a new instance of ScheduledReplyRepository
func NewScheduledReplyRepository(db *gorm.DB) ScheduledReplyRepository {
	return &scheduledReplyRepositoryImpl{db: db}
}

// Create stores a scheduled reply task
func (r *scheduledReplyRepositoryImpl) Create(ctx context.Context, reply *domain.ScheduledReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return err
	}
	return nil
}

// HasPendingForComment reports whether an undispatched reply already
// exists for the comment, guarding against double scheduling
func (r *scheduledReplyRepositoryImpl) HasPendingForComment(ctx context.Context, commentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ScheduledReply{}).
		Where("comment_id = ? AND status = ?", commentID, domain.ScheduledReplyPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindDue returns pending replies whose due time has passed, oldest first
func (r *scheduledReplyRepositoryImpl) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error) {
	var replies []*domain.ScheduledReply
	query := r.db.WithContext(ctx).
		Where("status = ? AND due_at <= ?", domain.ScheduledReplyPending, now).
		Order("due_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// Update persists the dispatch state of a scheduled reply
func (r *scheduledReplyRepositoryImpl) Update(ctx context.Context, reply *domain.ScheduledReply) error {
	if err := r.db.WithContext(ctx).Save(reply).Error; err != nil {
		return err
	}
	return nil
}

// CancelPendingForComment cancels any undispatched replies for a comment
func (r *scheduledReplyRepositoryImpl) CancelPendingForComment(ctx context.Context, commentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScheduledReply{}).
		Where("comment_id = ? AND status = ?", commentID, domain.ScheduledReplyPending).
		Update("status", domain.ScheduledReplyCanceled).Error
}
