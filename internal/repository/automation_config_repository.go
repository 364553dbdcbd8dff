package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"comment-sync-api/internal/domain"
)

// AutomationConfigRepository defines the interface for automation config data access
type AutomationConfigRepository interface {
	FindByPlatform(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error)
	Upsert(ctx context.Context, cfg *domain.AutomationConfig) error
}

// automationConfigRepositoryImpl is the GORM implementation of AutomationConfigRepository
type automationConfigRepositoryImpl struct {
	db *gorm.DB
}

// NewAutomationConfigRepository creates a new instance of AutomationConfigRepository
func NewAutomationConfigRepository(db *gorm.DB) AutomationConfigRepository {
	return &automationConfigRepositoryImpl{db: db}
}

// FindByPlatform returns the automation config for a platform
func (r *automationConfigRepositoryImpl) FindByPlatform(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
	var cfg domain.AutomationConfig
	if err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert creates or updates the per-platform config row
func (r *automationConfigRepositoryImpl) Upsert(ctx context.Context, cfg *domain.AutomationConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "auto_reply", "response_delay_seconds", "model", "personality_prompt", "updated_at",
			}),
		}).
		Create(cfg).Error
}
