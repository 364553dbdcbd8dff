package domain

import (
	"time"
)

// EventAction is the lifecycle verb carried by a webhook change
type EventAction string

const (
	ActionAdd    EventAction = "add"
	ActionEdit   EventAction = "edit"
	ActionRemove EventAction = "remove"
	ActionHide   EventAction = "hide"
)

// CommentEvent is a normalized platform webhook change. It is ephemeral:
// constructed per webhook delivery and consumed by the reconciler.
type CommentEvent struct {
	Platform     Platform
	RawCommentID string
	PostID       string
	Action       EventAction
	Text         string
	AuthorID     string
	AuthorName   string
	AuthorHandle string
	CreatedTime  time.Time
}
