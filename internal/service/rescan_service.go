package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comment-sync-api/internal/client"
	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/metrics"
	"comment-sync-api/internal/repository"
	"comment-sync-api/internal/response"
)

// RescanRegistry tracks posts with a rescan in flight so the cron job
// and the manual endpoint never scan the same post concurrently
type RescanRegistry struct {
	mu       sync.Mutex
	inflight map[string]bool
}

// NewRescanRegistry creates an empty registry
func NewRescanRegistry() *RescanRegistry {
	return &RescanRegistry{inflight: make(map[string]bool)}
}

// TryAcquire marks the post as being scanned; false when already held
func (r *RescanRegistry) TryAcquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[key] {
		return false
	}
	r.inflight[key] = true
	return true
}

// Release frees the post for future scans
func (r *RescanRegistry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, key)
}

// RescanSummary reports what a single post rescan changed
type RescanSummary struct {
	PostID     string `json:"post_id"`
	Discovered int    `json:"discovered"`
	Backfilled int    `json:"backfilled"`
	Deleted    int    `json:"deleted"`
}

// RescanService re-reads a post's live comment list from the Graph API
// and converges the local store: missed comments are inserted, withheld
// author names are backfilled, and comments gone from the platform are
// deleted locally.
type RescanService interface {
	RescanPost(ctx context.Context, platform domain.Platform, postID string) (*RescanSummary, error)
	RescanRecent(ctx context.Context, platform domain.Platform, window time.Duration) error
}

type rescanServiceImpl struct {
	commentRepo repository.CommentRepository
	graph       client.GraphClient
	reconciler  ReconcilerService
	registry    *RescanRegistry
	metrics     *metrics.Metrics
	logger      *zap.Logger
	pageID      string
}

// NewRescanService creates a new rescan service
func NewRescanService(
	commentRepo repository.CommentRepository,
	graph client.GraphClient,
	reconciler ReconcilerService,
	registry *RescanRegistry,
	m *metrics.Metrics,
	logger *zap.Logger,
	pageID string,
) RescanService {
	return &rescanServiceImpl{
		commentRepo: commentRepo,
		graph:       graph,
		reconciler:  reconciler,
		registry:    registry,
		metrics:     m,
		logger:      logger,
		pageID:      pageID,
	}
}

// RescanPost converges one post. A 409 conflict is returned when the
// same post is already being scanned.
func (s *rescanServiceImpl) RescanPost(ctx context.Context, platform domain.Platform, postID string) (*RescanSummary, error) {
	key := string(platform) + ":" + postID
	if !s.registry.TryAcquire(key) {
		return nil, response.NewAppError(response.ErrCodeConflict, "rescan already in progress for this post", "")
	}
	defer s.registry.Release(key)

	summary, err := s.rescan(ctx, platform, postID)
	if s.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		s.metrics.RecordRescan(string(platform), result)
	}
	return summary, err
}

func (s *rescanServiceImpl) rescan(ctx context.Context, platform domain.Platform, postID string) (*RescanSummary, error) {
	remote, err := s.graph.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	local, err := s.commentRepo.FindByPostID(ctx, platform, postID)
	if err != nil {
		return nil, err
	}
	localByExternalID := make(map[string]*domain.Comment, len(local))
	for _, c := range local {
		localByExternalID[c.ExternalCommentID] = c
	}

	summary := &RescanSummary{PostID: postID}
	seen := make(map[string]bool, len(remote))

	for _, rc := range remote {
		// The page's own replies are part of the thread remotely but are
		// never mirrored by the rescanner
		if s.pageID != "" && rc.From.ID == s.pageID {
			continue
		}

		externalID := CanonicalCommentID(postID, rc.ID)
		seen[externalID] = true

		existing, ok := localByExternalID[externalID]
		if !ok {
			result, err := s.reconciler.Reconcile(ctx, domain.CommentEvent{
				Platform:     platform,
				Action:       domain.ActionAdd,
				RawCommentID: rc.ID,
				PostID:       postID,
				Text:         rc.Message,
				AuthorID:     rc.From.ID,
				AuthorName:   rc.From.Name,
				AuthorHandle: rc.From.Username,
				CreatedTime:  rc.CreatedAt(),
			})
			if err != nil {
				s.logger.Error("Failed to store rescanned comment",
					zap.String("external_comment_id", externalID),
					zap.Error(err),
				)
				continue
			}
			if result.Outcome == OutcomeInserted {
				summary.Discovered++
			}
			continue
		}

		changed := false

		// Edits missed by webhooks converge here: the remote text wins
		// whenever the platform still serves a body
		if rc.Message != "" && rc.Message != existing.CommentText {
			existing.CommentText = rc.Message
			changed = true
		}

		// Author backfill is directional: a real author name may replace
		// the placeholder, never the other way around
		if existing.HasPlaceholderAuthor() && rc.From.Name != "" && rc.From.Name != domain.AuthorPlaceholder {
			existing.AuthorName = rc.From.Name
			if existing.AuthorID == "" {
				existing.AuthorID = rc.From.ID
			}
			if existing.AuthorHandle == "" {
				existing.AuthorHandle = rc.From.Username
			}
			changed = true
		}

		if changed {
			if err := s.commentRepo.Update(ctx, existing); err != nil {
				s.logger.Error("Failed to backfill comment",
					zap.String("comment_id", existing.ID.String()),
					zap.Error(err),
				)
				continue
			}
			summary.Backfilled++
		}
	}

	// Locally present but remotely absent means the comment was deleted
	// on the platform. Hidden comments are exempt: hiding removes them
	// from the public edge without deleting them.
	for _, c := range local {
		if seen[c.ExternalCommentID] {
			continue
		}
		if c.Status == domain.CommentStatusHidden {
			continue
		}
		if err := s.commentRepo.HardDelete(ctx, c.ID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("Failed to delete comment absent upstream",
					zap.String("comment_id", c.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		summary.Deleted++
	}

	s.logger.Info("Post rescan complete",
		zap.String("platform", string(platform)),
		zap.String("post_id", postID),
		zap.Int("discovered", summary.Discovered),
		zap.Int("backfilled", summary.Backfilled),
		zap.Int("deleted", summary.Deleted),
	)
	return summary, nil
}

// RescanRecent scans every post with comment activity inside the window.
// Posts locked by a concurrent scan are skipped, not retried.
func (s *rescanServiceImpl) RescanRecent(ctx context.Context, platform domain.Platform, window time.Duration) error {
	since := time.Now().UTC().Add(-window)
	postIDs, err := s.commentRepo.RecentPostIDs(ctx, platform, since)
	if err != nil {
		return err
	}

	for _, postID := range postIDs {
		if _, err := s.RescanPost(ctx, platform, postID); err != nil {
			var appErr *response.AppError
			if errors.As(err, &appErr) && appErr.Code == response.ErrCodeConflict {
				continue
			}
			s.logger.Error("Scheduled rescan failed",
				zap.String("post_id", postID),
				zap.Error(err),
			)
		}
	}
	return nil
}
