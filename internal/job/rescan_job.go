package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/service"
)

// RescanJob runs the periodic post rescans on a cron schedule
type RescanJob struct {
	rescan service.RescanService
	window time.Duration
	logger *zap.Logger
	cron   *cron.Cron
}

// NewRescanJob creates a new rescan job
func NewRescanJob(rescan service.RescanService, window time.Duration, logger *zap.Logger) *RescanJob {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RescanJob{
		rescan: rescan,
		window: window,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start registers the schedule and starts the cron runner
func (j *RescanJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Rescan job scheduled", zap.String("spec", spec))
	return nil
}

// Stop stops the cron runner and waits for a running scan to finish
func (j *RescanJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("Rescan job stopped")
}

func (j *RescanJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, platform := range []domain.Platform{domain.PlatformFacebook, domain.PlatformInstagram} {
		if err := j.rescan.RescanRecent(ctx, platform, j.window); err != nil {
			j.logger.Error("Periodic rescan failed",
				zap.String("platform", string(platform)),
				zap.Error(err),
			)
		}
	}
}
