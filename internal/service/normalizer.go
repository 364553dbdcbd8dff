package service

import (
	"time"

	"go.uber.org/zap"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/dto"
)

// EventNormalizer flattens webhook payloads into lifecycle events the
// reconciler understands. Entries and changes it cannot interpret are
// skipped, never rejected: the webhook endpoint must stay green.
type EventNormalizer interface {
	Normalize(payload *dto.WebhookPayload) []domain.CommentEvent
}

type eventNormalizerImpl struct {
	logger *zap.Logger
}

// NewEventNormalizer creates a new event normalizer
func NewEventNormalizer(logger *zap.Logger) EventNormalizer {
	return &eventNormalizerImpl{logger: logger}
}

func (n *eventNormalizerImpl) Normalize(payload *dto.WebhookPayload) []domain.CommentEvent {
	if payload == nil {
		return nil
	}

	var platform domain.Platform
	switch payload.Object {
	case "page":
		platform = domain.PlatformFacebook
	case "instagram":
		platform = domain.PlatformInstagram
	default:
		n.logger.Debug("Ignoring webhook for unsupported object",
			zap.String("object", payload.Object),
		)
		return nil
	}

	var events []domain.CommentEvent
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			var ev *domain.CommentEvent
			if platform == domain.PlatformFacebook {
				ev = n.normalizeFacebook(entry, change)
			} else {
				ev = n.normalizeInstagram(entry, change)
			}
			if ev != nil {
				events = append(events, *ev)
			}
		}
	}
	return events
}

// normalizeFacebook handles feed changes. Only comment items carry a
// lifecycle we track; posts, reactions and shares are ignored.
func (n *eventNormalizerImpl) normalizeFacebook(entry dto.WebhookEntry, change dto.WebhookChange) *domain.CommentEvent {
	if change.Field != "feed" {
		return nil
	}
	v := change.Value
	if v.Item != "comment" || v.CommentID == "" {
		return nil
	}

	action := verbToAction(v.Verb)
	if action == "" {
		n.logger.Debug("Ignoring feed change with unsupported verb",
			zap.String("verb", v.Verb),
		)
		return nil
	}

	// Facebook omits the message on some deliveries; a new comment still
	// needs a body
	text := v.Message
	if text == "" && action == domain.ActionAdd {
		text = domain.TextUnavailable
	}

	return &domain.CommentEvent{
		Platform:     domain.PlatformFacebook,
		Action:       action,
		RawCommentID: v.CommentID,
		PostID:       v.PostID,
		AuthorID:     v.From.ID,
		AuthorName:   v.From.Name,
		Text:         text,
		CreatedTime:  eventTime(v.CreatedTime, entry.Time),
	}
}

// normalizeInstagram handles comments and mentions changes. Instagram
// deliveries do not carry a verb; every notification is treated as an
// add, and the reconciler's idempotent insert absorbs repeats.
func (n *eventNormalizerImpl) normalizeInstagram(entry dto.WebhookEntry, change dto.WebhookChange) *domain.CommentEvent {
	if change.Field != "comments" && change.Field != "mentions" {
		return nil
	}
	v := change.Value

	// Comment changes carry id/media.id; mention changes carry the flat
	// comment_id/media_id pair
	commentID := v.ID
	if commentID == "" {
		commentID = v.CommentID
	}
	if commentID == "" {
		return nil
	}
	postID := v.Media.ID
	if postID == "" {
		postID = v.MediaID
	}

	name := v.From.Name
	if name == "" {
		name = v.From.Username
	}

	return &domain.CommentEvent{
		Platform:     domain.PlatformInstagram,
		Action:       domain.ActionAdd,
		RawCommentID: commentID,
		PostID:       postID,
		AuthorID:     v.From.ID,
		AuthorName:   name,
		AuthorHandle: v.From.Username,
		Text:         v.Text,
		CreatedTime:  eventTime(v.CreatedTime, entry.Time),
	}
}

// verbToAction maps the feed verb to a lifecycle action. Some deliveries
// omit the verb entirely; those are new comments.
func verbToAction(verb string) domain.EventAction {
	switch verb {
	case "add", "":
		return domain.ActionAdd
	case "edit", "edited":
		return domain.ActionEdit
	case "remove":
		return domain.ActionRemove
	case "hide":
		return domain.ActionHide
	default:
		return ""
	}
}

// eventTime prefers the change's own timestamp over the entry batch
// timestamp, and falls back to now when neither is present.
func eventTime(changeTime, entryTime int64) time.Time {
	if changeTime > 0 {
		return time.Unix(changeTime, 0).UTC()
	}
	if entryTime > 0 {
		return time.Unix(entryTime, 0).UTC()
	}
	return time.Now().UTC()
}
