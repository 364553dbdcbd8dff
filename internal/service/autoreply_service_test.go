package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
)

type autoReplyMocks struct {
	commentRepo   *MockCommentRepository
	scheduledRepo *MockScheduledReplyRepository
	suggestions   *MockReplySuggestionRepository
	activityLog   *MockActivityLogRepository
	automation    *MockAutomationConfigRepository
	generator     *MockReplyGenerator
	graph         *MockGraphClient
}

func newTestAutoReplyService(m *autoReplyMocks) AutoReplyService {
	if m.commentRepo == nil {
		m.commentRepo = &MockCommentRepository{}
	}
	if m.scheduledRepo == nil {
		m.scheduledRepo = &MockScheduledReplyRepository{}
	}
	if m.suggestions == nil {
		m.suggestions = &MockReplySuggestionRepository{}
	}
	if m.activityLog == nil {
		m.activityLog = &MockActivityLogRepository{}
	}
	if m.automation == nil {
		m.automation = &MockAutomationConfigRepository{}
	}
	if m.generator == nil {
		m.generator = &MockReplyGenerator{}
	}
	if m.graph == nil {
		m.graph = &MockGraphClient{}
	}
	automationSvc := NewAutomationConfigService(m.automation, nil, zap.NewNop())
	return NewAutoReplyService(
		m.commentRepo, m.scheduledRepo, m.suggestions, m.activityLog,
		automationSvc, m.generator, m.graph,
		nil, zap.NewNop(), 10,
	)
}

func enabledConfig(delay int) *domain.AutomationConfig {
	return &domain.AutomationConfig{
		Platform:             domain.PlatformFacebook,
		Enabled:              true,
		AutoReply:            true,
		ResponseDelaySeconds: delay,
	}
}

func TestScheduleForComment_CreatesDurableRow(t *testing.T) {
	var created *domain.ScheduledReply
	mocks := &autoReplyMocks{
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				return enabledConfig(60), nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			CreateFunc: func(ctx context.Context, reply *domain.ScheduledReply) error {
				created = reply
				return nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	comment := &domain.Comment{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Platform:  domain.PlatformFacebook,
	}
	before := time.Now().UTC()
	if err := svc.ScheduleForComment(context.Background(), comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("no scheduled reply created")
	}
	if created.Status != domain.ScheduledReplyPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	wantDue := before.Add(60 * time.Second)
	if created.DueAt.Before(wantDue.Add(-2*time.Second)) || created.DueAt.After(wantDue.Add(2*time.Second)) {
		t.Errorf("due at = %v, want ~%v", created.DueAt, wantDue)
	}
}

func TestScheduleForComment_SkipsWhenAutomationDisabled(t *testing.T) {
	mocks := &autoReplyMocks{
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				cfg := enabledConfig(30)
				cfg.AutoReply = false
				return cfg, nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			CreateFunc: func(ctx context.Context, reply *domain.ScheduledReply) error {
				t.Error("must not schedule when auto-reply is off")
				return nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, Platform: domain.PlatformFacebook}
	if err := svc.ScheduleForComment(context.Background(), comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScheduleForComment_SkipsAnsweredComments(t *testing.T) {
	mocks := &autoReplyMocks{
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				return enabledConfig(30), nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			CreateFunc: func(ctx context.Context, reply *domain.ScheduledReply) error {
				t.Error("must not schedule for an answered comment")
				return nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	for _, status := range []domain.CommentStatus{
		domain.CommentStatusResponded,
		domain.CommentStatusReplied,
		domain.CommentStatusHandled,
		domain.CommentStatusHidden,
	} {
		comment := &domain.Comment{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Platform:  domain.PlatformFacebook,
			Status:    status,
		}
		if err := svc.ScheduleForComment(context.Background(), comment); err != nil {
			t.Fatalf("status %s: unexpected error: %v", status, err)
		}
	}
}

func TestScheduleForComment_SkipsWhenAlreadyPending(t *testing.T) {
	mocks := &autoReplyMocks{
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				return enabledConfig(30), nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			HasPendingForCommentFunc: func(ctx context.Context, commentID uuid.UUID) (bool, error) {
				return true, nil
			},
			CreateFunc: func(ctx context.Context, reply *domain.ScheduledReply) error {
				t.Error("must not double schedule")
				return nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, Platform: domain.PlatformFacebook}
	if err := svc.ScheduleForComment(context.Background(), comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatchDue_SendsReplyAndMarksComment(t *testing.T) {
	commentID := uuid.New()
	comment := &domain.Comment{
		BaseModel:         domain.BaseModel{ID: commentID},
		Platform:          domain.PlatformFacebook,
		ExternalCommentID: "111_222",
		CommentText:       "how much is shipping?",
		Status:            domain.CommentStatusPending,
	}
	reply := &domain.ScheduledReply{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		CommentID: commentID,
		Status:    domain.ScheduledReplyPending,
	}

	var sentMessage string
	var savedReply *domain.ScheduledReply
	var statusSet domain.CommentStatus
	var suggestion *domain.ReplySuggestion
	var logged *domain.ActivityLog

	mocks := &autoReplyMocks{
		activityLog: &MockActivityLogRepository{
			CreateFunc: func(ctx context.Context, entry *domain.ActivityLog) error {
				logged = entry
				return nil
			},
		},
		commentRepo: &MockCommentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
				return comment, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error {
				statusSet = status
				return nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			FindDueFunc: func(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error) {
				return []*domain.ScheduledReply{reply}, nil
			},
			UpdateFunc: func(ctx context.Context, r *domain.ScheduledReply) error {
				savedReply = r
				return nil
			},
		},
		suggestions: &MockReplySuggestionRepository{
			CreateFunc: func(ctx context.Context, s *domain.ReplySuggestion) error {
				suggestion = s
				return nil
			},
		},
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				return enabledConfig(30), nil
			},
		},
		generator: &MockReplyGenerator{
			GenerateFunc: func(ctx context.Context, c *domain.Comment, cfg *domain.AutomationConfig) (string, string, error) {
				return "We ship worldwide!", SourceKeyword, nil
			},
		},
		graph: &MockGraphClient{
			ReplyToCommentFunc: func(ctx context.Context, commentID, message string) (string, error) {
				sentMessage = message
				return "reply_1", nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	sent, err := svc.DispatchDue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if sentMessage != "We ship worldwide!" {
		t.Errorf("sent message = %q", sentMessage)
	}
	if savedReply.Status != domain.ScheduledReplySent {
		t.Errorf("reply status = %s, want sent", savedReply.Status)
	}
	if statusSet != domain.CommentStatusReplied {
		t.Errorf("comment status = %s, want replied", statusSet)
	}
	if suggestion == nil || !suggestion.Used {
		t.Error("sent reply should be recorded as a used suggestion")
	}
	if logged == nil || logged.ActionType != "auto_reply_sent" {
		t.Errorf("activity log = %+v, want auto_reply_sent entry", logged)
	}
}

func TestDispatchDue_CancelsWhenCommentNoLongerPending(t *testing.T) {
	commentID := uuid.New()
	reply := &domain.ScheduledReply{BaseModel: domain.BaseModel{ID: uuid.New()}, CommentID: commentID, Status: domain.ScheduledReplyPending}

	var savedReply *domain.ScheduledReply
	mocks := &autoReplyMocks{
		commentRepo: &MockCommentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
				return &domain.Comment{
					BaseModel: domain.BaseModel{ID: commentID},
					Platform:  domain.PlatformFacebook,
					Status:    domain.CommentStatusHidden,
				}, nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			FindDueFunc: func(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error) {
				return []*domain.ScheduledReply{reply}, nil
			},
			UpdateFunc: func(ctx context.Context, r *domain.ScheduledReply) error {
				savedReply = r
				return nil
			},
		},
		graph: &MockGraphClient{
			ReplyToCommentFunc: func(ctx context.Context, commentID, message string) (string, error) {
				t.Error("must not reply to a hidden comment")
				return "", nil
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	if _, err := svc.DispatchDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if savedReply.Status != domain.ScheduledReplyCanceled {
		t.Errorf("reply status = %s, want canceled", savedReply.Status)
	}
}

func TestDispatchDue_FailureExhaustsAttemptBudget(t *testing.T) {
	commentID := uuid.New()
	comment := &domain.Comment{
		BaseModel: domain.BaseModel{ID: commentID},
		Platform:  domain.PlatformFacebook,
		Status:    domain.CommentStatusPending,
	}
	reply := &domain.ScheduledReply{BaseModel: domain.BaseModel{ID: uuid.New()}, CommentID: commentID, Status: domain.ScheduledReplyPending}

	mocks := &autoReplyMocks{
		commentRepo: &MockCommentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
				return comment, nil
			},
		},
		scheduledRepo: &MockScheduledReplyRepository{
			FindDueFunc: func(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledReply, error) {
				if reply.Status != domain.ScheduledReplyPending {
					return nil, nil
				}
				return []*domain.ScheduledReply{reply}, nil
			},
			UpdateFunc: func(ctx context.Context, r *domain.ScheduledReply) error {
				reply = r
				return nil
			},
		},
		automation: &MockAutomationConfigRepository{
			FindByPlatformFunc: func(ctx context.Context, platform domain.Platform) (*domain.AutomationConfig, error) {
				return enabledConfig(30), nil
			},
		},
		graph: &MockGraphClient{
			ReplyToCommentFunc: func(ctx context.Context, commentID, message string) (string, error) {
				return "", errors.New("graph API returned status 500")
			},
		},
	}
	svc := newTestAutoReplyService(mocks)

	for i := 0; i < maxDispatchAttempts; i++ {
		sent, err := svc.DispatchDue(context.Background())
		if err != nil {
			t.Fatalf("unexpected batch error: %v", err)
		}
		if sent != 0 {
			t.Errorf("sent = %d on attempt %d, want 0", sent, i+1)
		}
	}

	if reply.Status != domain.ScheduledReplyFailed {
		t.Errorf("reply status = %s after %d attempts, want failed", reply.Status, maxDispatchAttempts)
	}
	if reply.Attempts != maxDispatchAttempts {
		t.Errorf("attempts = %d, want %d", reply.Attempts, maxDispatchAttempts)
	}
	if reply.LastError == "" {
		t.Error("last error not recorded")
	}
}
