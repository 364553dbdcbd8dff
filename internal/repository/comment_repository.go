package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
)

// CommentFilters narrows comment listing queries
type CommentFilters struct {
	Platform       domain.Platform
	ExternalPostID string
	Status         domain.CommentStatus
	IncludeHidden  bool
	Limit          int
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByExternalID(ctx context.Context, platform domain.Platform, externalCommentID string) (*domain.Comment, error)
	FindByPostID(ctx context.Context, platform domain.Platform, externalPostID string) ([]*domain.Comment, error)
	List(ctx context.Context, filters *CommentFilters) ([]*domain.Comment, error)
	RecentPostIDs(ctx context.Context, platform domain.Platform, since time.Time) ([]string, error)
	Update(ctx context.Context, comment *domain.Comment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create inserts a new comment row. The composite unique index on
// (platform, external_comment_id) rejects concurrent duplicates.
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a comment by its surrogate ID
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByExternalID finds a comment by its canonical external id within a platform
func (r *commentRepositoryImpl) FindByExternalID(ctx context.Context, platform domain.Platform, externalCommentID string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND external_comment_id = ?", platform, externalCommentID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByPostID finds all comments stored for a post, hidden included
func (r *commentRepositoryImpl) FindByPostID(ctx context.Context, platform domain.Platform, externalPostID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND external_post_id = ?", platform, externalPostID).
		Order("commented_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// List returns comments matching the filters. Hidden comments are
// excluded unless IncludeHidden is set.
func (r *commentRepositoryImpl) List(ctx context.Context, filters *CommentFilters) ([]*domain.Comment, error) {
	query := r.db.WithContext(ctx).Model(&domain.Comment{})

	if filters != nil {
		if filters.Platform != "" {
			query = query.Where("platform = ?", filters.Platform)
		}
		if filters.ExternalPostID != "" {
			query = query.Where("external_post_id = ?", filters.ExternalPostID)
		}
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		} else if !filters.IncludeHidden {
			query = query.Where("status <> ?", domain.CommentStatusHidden)
		}
		if filters.Limit > 0 {
			query = query.Limit(filters.Limit)
		}
	} else {
		query = query.Where("status <> ?", domain.CommentStatusHidden)
	}

	var comments []*domain.Comment
	if err := query.Order("commented_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// RecentPostIDs returns distinct post ids with comment activity after
// the given time, used by the periodic rescanner
func (r *commentRepositoryImpl) RecentPostIDs(ctx context.Context, platform domain.Platform, since time.Time) ([]string, error) {
	var postIDs []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Distinct("external_post_id").
		Where("platform = ? AND commented_at > ?", platform, since).
		Pluck("external_post_id", &postIDs).Error; err != nil {
		return nil, err
	}
	return postIDs, nil
}

// Update persists all fields of the comment
func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	return nil
}

// UpdateStatus updates only the lifecycle status
func (r *commentRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// HardDelete removes the comment and all dependent rows in one
// transaction. Dependents are deleted explicitly rather than relying on
// FK cascade so the behavior holds on every backend the tests run against.
func (r *commentRepositoryImpl) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&domain.ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&domain.ReplySuggestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&domain.ScheduledReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Comment{}, "id = ?", id).Error
	})
}
