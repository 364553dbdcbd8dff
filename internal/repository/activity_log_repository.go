package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
)

// ActivityLogRepository defines the interface for activity log data access
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ActivityLog, error)
	CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error)
}

// activityLogRepositoryImpl is the GORM implementation of ActivityLogRepository
type activityLogRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new instance of ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepositoryImpl{db: db}
}

// Create appends an activity log entry
func (r *activityLogRepositoryImpl) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	return nil
}

// FindByCommentID returns the audit trail for a comment, newest first
func (r *activityLogRepositoryImpl) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ActivityLog, error) {
	var entries []*domain.ActivityLog
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByCommentID counts audit entries for a comment
func (r *activityLogRepositoryImpl) CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ActivityLog{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
