package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"comment-sync-api/internal/service"
)

// ReplyDispatcher drives the scheduled reply queue. It polls for due
// rows on a fixed interval; on startup the first poll also picks up
// replies that came due while the process was down.
type ReplyDispatcher struct {
	autoReply service.AutoReplyService
	interval  time.Duration
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReplyDispatcher creates a new reply dispatcher
func NewReplyDispatcher(autoReply service.AutoReplyService, interval time.Duration, logger *zap.Logger) *ReplyDispatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ReplyDispatcher{
		autoReply: autoReply,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the dispatch loop
func (d *ReplyDispatcher) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.loop()

	d.logger.Info("Reply dispatcher started", zap.Duration("interval", d.interval))
}

// Stop cancels the loop and waits for the in-flight batch to finish
func (d *ReplyDispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	d.logger.Info("Reply dispatcher stopped")
}

func (d *ReplyDispatcher) loop() {
	defer d.wg.Done()

	// Dispatch once immediately to drain replies that came due during
	// downtime
	d.dispatch()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.dispatch()
		}
	}
}

func (d *ReplyDispatcher) dispatch() {
	ctx, cancel := context.WithTimeout(d.ctx, d.interval*3)
	defer cancel()

	sent, err := d.autoReply.DispatchDue(ctx)
	if err != nil {
		d.logger.Error("Reply dispatch batch failed", zap.Error(err))
		return
	}
	if sent > 0 {
		d.logger.Info("Dispatched scheduled replies", zap.Int("count", sent))
	}
}
