package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/dto"
)

func TestNormalize_FacebookFeedChanges(t *testing.T) {
	normalizer := NewEventNormalizer(zap.NewNop())

	tests := []struct {
		name           string
		verb           string
		item           string
		expectedAction domain.EventAction
		expectEvent    bool
	}{
		{name: "comment add", verb: "add", item: "comment", expectedAction: domain.ActionAdd, expectEvent: true},
		{name: "missing verb defaults to add", verb: "", item: "comment", expectedAction: domain.ActionAdd, expectEvent: true},
		{name: "comment edit", verb: "edited", item: "comment", expectedAction: domain.ActionEdit, expectEvent: true},
		{name: "comment edit short verb", verb: "edit", item: "comment", expectedAction: domain.ActionEdit, expectEvent: true},
		{name: "comment remove", verb: "remove", item: "comment", expectedAction: domain.ActionRemove, expectEvent: true},
		{name: "comment hide", verb: "hide", item: "comment", expectedAction: domain.ActionHide, expectEvent: true},
		{name: "post change ignored", verb: "add", item: "post", expectEvent: false},
		{name: "reaction ignored", verb: "add", item: "reaction", expectEvent: false},
		{name: "unknown verb ignored", verb: "block", item: "comment", expectEvent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &dto.WebhookPayload{
				Object: "page",
				Entry: []dto.WebhookEntry{
					{
						ID:   "page123",
						Time: 1700000000,
						Changes: []dto.WebhookChange{
							{
								Field: "feed",
								Value: dto.WebhookValue{
									Item:        tt.item,
									Verb:        tt.verb,
									CommentID:   "111_222",
									PostID:      "111",
									Message:     "hello there",
									From:        dto.WebhookFrom{ID: "u1", Name: "Jane Doe"},
									CreatedTime: 1700000100,
								},
							},
						},
					},
				},
			}

			events := normalizer.Normalize(payload)
			if !tt.expectEvent {
				if len(events) != 0 {
					t.Fatalf("expected no events, got %d", len(events))
				}
				return
			}

			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			ev := events[0]
			if ev.Platform != domain.PlatformFacebook {
				t.Errorf("platform = %s, want facebook", ev.Platform)
			}
			if ev.Action != tt.expectedAction {
				t.Errorf("action = %s, want %s", ev.Action, tt.expectedAction)
			}
			if ev.RawCommentID != "111_222" {
				t.Errorf("raw comment id = %s", ev.RawCommentID)
			}
			if ev.PostID != "111" {
				t.Errorf("post id = %s", ev.PostID)
			}
			if !ev.CreatedTime.Equal(time.Unix(1700000100, 0).UTC()) {
				t.Errorf("created time = %v", ev.CreatedTime)
			}
		})
	}
}

func TestNormalize_Instagram(t *testing.T) {
	normalizer := NewEventNormalizer(zap.NewNop())

	payload := &dto.WebhookPayload{
		Object: "instagram",
		Entry: []dto.WebhookEntry{
			{
				ID:   "ig_account",
				Time: 1700000000,
				Changes: []dto.WebhookChange{
					{
						Field: "comments",
						Value: dto.WebhookValue{
							ID:    "17900000001",
							Text:  "nice post",
							Media: dto.WebhookMedia{ID: "17800000001"},
							From:  dto.WebhookFrom{ID: "ig_user", Username: "jane.doe"},
						},
					},
					{
						Field: "mentions",
						Value: dto.WebhookValue{CommentID: "17900000002", MediaID: "17800000002"},
					},
					{
						Field: "story_insights",
						Value: dto.WebhookValue{ID: "17900000003"},
					},
				},
			},
		},
	}

	events := normalizer.Normalize(payload)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	ev := events[0]
	if ev.Platform != domain.PlatformInstagram {
		t.Errorf("platform = %s, want instagram", ev.Platform)
	}
	if ev.Action != domain.ActionAdd {
		t.Errorf("action = %s, want add", ev.Action)
	}
	if ev.PostID != "17800000001" {
		t.Errorf("post id = %s, want media id", ev.PostID)
	}
	if ev.AuthorName != "jane.doe" {
		t.Errorf("author name = %s, want username fallback", ev.AuthorName)
	}
	// Falls back to the entry batch timestamp when the change has none
	if !ev.CreatedTime.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Errorf("created time = %v", ev.CreatedTime)
	}

	// Mentions carry the flat comment_id/media_id pair
	mention := events[1]
	if mention.RawCommentID != "17900000002" || mention.PostID != "17800000002" {
		t.Errorf("mention event = %+v", mention)
	}
	if mention.Action != domain.ActionAdd {
		t.Errorf("mention action = %s, want add", mention.Action)
	}
}

func TestNormalize_MissingMessageGetsSentinel(t *testing.T) {
	normalizer := NewEventNormalizer(zap.NewNop())

	payload := &dto.WebhookPayload{
		Object: "page",
		Entry: []dto.WebhookEntry{
			{
				Changes: []dto.WebhookChange{
					{
						Field: "feed",
						Value: dto.WebhookValue{Item: "comment", Verb: "add", CommentID: "111_222", PostID: "111"},
					},
					{
						Field: "feed",
						Value: dto.WebhookValue{Item: "comment", Verb: "remove", CommentID: "111_333", PostID: "111"},
					},
				},
			},
		},
	}

	events := normalizer.Normalize(payload)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Text != domain.TextUnavailable {
		t.Errorf("add without message: text = %q, want sentinel", events[0].Text)
	}
	// Removals legitimately have no body
	if events[1].Text != "" {
		t.Errorf("remove text = %q, want empty", events[1].Text)
	}
}

func TestNormalize_UnsupportedObject(t *testing.T) {
	normalizer := NewEventNormalizer(zap.NewNop())

	payload := &dto.WebhookPayload{
		Object: "user",
		Entry: []dto.WebhookEntry{
			{Changes: []dto.WebhookChange{{Field: "feed", Value: dto.WebhookValue{Item: "comment", Verb: "add", CommentID: "1_2"}}}},
		},
	}

	if events := normalizer.Normalize(payload); len(events) != 0 {
		t.Fatalf("expected no events for unsupported object, got %d", len(events))
	}
	if events := normalizer.Normalize(nil); events != nil {
		t.Fatal("expected nil for nil payload")
	}
}
