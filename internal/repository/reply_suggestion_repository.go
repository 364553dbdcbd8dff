package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
)

// ReplySuggestionRepository defines the interface for reply suggestion data access
type ReplySuggestionRepository interface {
	Create(ctx context.Context, suggestion *domain.ReplySuggestion) error
	FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplySuggestion, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// replySuggestionRepositoryImpl is the GORM implementation of ReplySuggestionRepository
type replySuggestionRepositoryImpl struct {
	db *gorm.DB
}

// NewReplySuggestionRepository creates a new instance of ReplySuggestionRepository
func NewReplySuggestionRepository(db *gorm.DB) ReplySuggestionRepository {
	return &replySuggestionRepositoryImpl{db: db}
}

// Create stores a generated reply suggestion
func (r *replySuggestionRepositoryImpl) Create(ctx context.Context, suggestion *domain.ReplySuggestion) error {
	if err := r.db.WithContext(ctx).Create(suggestion).Error; err != nil {
		return err
	}
	return nil
}

// FindByCommentID returns suggestions for a comment, newest first
func (r *replySuggestionRepositoryImpl) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplySuggestion, error) {
	var suggestions []*domain.ReplySuggestion
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at DESC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

// MarkUsed flags a suggestion as posted
func (r *replySuggestionRepositoryImpl) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.ReplySuggestion{}).
		Where("id = ?", id).
		Update("used", true).Error
}
