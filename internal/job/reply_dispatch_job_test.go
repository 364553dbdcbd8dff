package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
)

// MockAutoReplyService counts dispatch batches
type MockAutoReplyService struct {
	dispatched int64
}

func (m *MockAutoReplyService) ScheduleForComment(ctx context.Context, comment *domain.Comment) error {
	return nil
}

func (m *MockAutoReplyService) CancelForComment(ctx context.Context, commentID uuid.UUID) error {
	return nil
}

func (m *MockAutoReplyService) DispatchDue(ctx context.Context) (int, error) {
	atomic.AddInt64(&m.dispatched, 1)
	return 0, nil
}

func (m *MockAutoReplyService) batches() int64 {
	return atomic.LoadInt64(&m.dispatched)
}

func TestReplyDispatcher_DispatchesImmediatelyOnStart(t *testing.T) {
	svc := &MockAutoReplyService{}
	// Long interval so only the startup dispatch can run
	dispatcher := NewReplyDispatcher(svc, time.Hour, zap.NewNop())

	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for svc.batches() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if svc.batches() != 1 {
		t.Errorf("dispatch batches = %d, want 1 on startup", svc.batches())
	}
}

func TestReplyDispatcher_StopWaitsForLoop(t *testing.T) {
	svc := &MockAutoReplyService{}
	dispatcher := NewReplyDispatcher(svc, 20*time.Millisecond, zap.NewNop())

	dispatcher.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	dispatcher.Stop()

	after := svc.batches()
	if after < 2 {
		t.Errorf("dispatch batches = %d, want ticker-driven batches after startup", after)
	}

	// No more batches once stopped
	time.Sleep(60 * time.Millisecond)
	if svc.batches() != after {
		t.Errorf("dispatch ran after Stop: %d -> %d", after, svc.batches())
	}
}

func TestReplyDispatcher_DefaultInterval(t *testing.T) {
	dispatcher := NewReplyDispatcher(&MockAutoReplyService{}, 0, zap.NewNop())
	if dispatcher.interval != 10*time.Second {
		t.Errorf("interval = %v, want 10s default", dispatcher.interval)
	}
}
