package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/repository"
)

const (
	automationCachePrefix = "automation_config:"
	automationCacheTTL    = 30 * time.Second
)

// AutomationConfigService exposes the per-platform automation settings.
// Reads are cached briefly in Redis because the config is consulted on
// every incoming comment; the cache degrades to direct reads when Redis
// is unavailable.
type AutomationConfigService interface {
	Get(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error)
	Update(ctx context.Context, cfg *domain.AutomationConfig) (*domain.AutomationConfig, error)
}

type automationConfigServiceImpl struct {
	repo   repository.AutomationConfigRepository
	redis  *redis.Client
	logger *zap.Logger
}

// NewAutomationConfigService creates a new automation config service
func NewAutomationConfigService(repo repository.AutomationConfigRepository, redisClient *redis.Client, logger *zap.Logger) AutomationConfigService {
	return &automationConfigServiceImpl{
		repo:   repo,
		redis:  redisClient,
		logger: logger,
	}
}

// Get returns the stored config for the platform, or a disabled default
// when none has been saved yet
func (s *automationConfigServiceImpl) Get(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
	cacheKey := automationCachePrefix + string(platform)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached domain.AutomationConfig
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	cfg, err := s.repo.FindByPlatform(ctx, platform)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = &domain.AutomationConfig{
				Platform:             platform,
				Enabled:              false,
				AutoReply:            false,
				ResponseDelaySeconds: 30,
			}
		} else {
			return nil, err
		}
	}

	s.cache(ctx, cacheKey, cfg)
	return cfg, nil
}

// Update upserts the config and invalidates the cache
func (s *automationConfigServiceImpl) Update(ctx context.Context, cfg *domain.AutomationConfig) (*domain.AutomationConfig, error) {
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, automationCachePrefix+string(cfg.Platform)).Err(); err != nil {
			s.logger.Warn("Failed to invalidate automation config cache",
				zap.String("platform", string(cfg.Platform)),
				zap.Error(err),
			)
		}
	}
	return cfg, nil
}

func (s *automationConfigServiceImpl) cache(ctx context.Context, key string, cfg *domain.AutomationConfig) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, automationCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache automation config", zap.Error(err))
	}
}
