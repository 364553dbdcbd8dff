package domain

import (
	"time"
)

// Platform identifies the social platform a comment came from
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// CommentStatus is the moderation lifecycle state of a comment
type CommentStatus string

const (
	CommentStatusPending   CommentStatus = "pending"
	CommentStatusResponded CommentStatus = "responded"
	CommentStatusReplied   CommentStatus = "replied"
	CommentStatusHandled   CommentStatus = "handled"
	CommentStatusHidden    CommentStatus = "hidden"
)

// AuthorPlaceholder is stored when the platform withholds the author name.
// The rescanner may backfill over it, but never over a real name.
const AuthorPlaceholder = "Social Media User"

// TextUnavailable is stored when the platform delivers a comment event
// without its message body
const TextUnavailable = "[Comment content unavailable]"

// Comment is a customer comment mirrored from a social platform post.
// ExternalCommentID is the canonical "{postId}_{commentId}" key and is
// unique within a platform; the reconciler relies on that constraint to
// stay idempotent under webhook retries.
type Comment struct {
	BaseModel
	Platform          Platform      `gorm:"type:varchar(32);not null;uniqueIndex:ux_comments_platform_external,priority:1" json:"platform"`
	ExternalCommentID string        `gorm:"type:varchar(255);not null;uniqueIndex:ux_comments_platform_external,priority:2" json:"external_comment_id"`
	ExternalPostID    string        `gorm:"type:varchar(255);not null;index:idx_comments_external_post_id" json:"external_post_id"`
	CommentText       string        `gorm:"type:text;not null" json:"comment_text"`
	OriginalText      *string       `gorm:"type:text" json:"original_text,omitempty"`
	AuthorID          string        `gorm:"type:varchar(255)" json:"author_id"`
	AuthorName        string        `gorm:"type:varchar(255)" json:"author_name"`
	AuthorHandle      string        `gorm:"type:varchar(255)" json:"author_handle"`
	PostTitle         string        `gorm:"type:varchar(512)" json:"post_title"`
	PostURL           string        `gorm:"type:varchar(512)" json:"post_url"`
	Status            CommentStatus `gorm:"type:varchar(32);not null;default:pending;index:idx_comments_status" json:"status"`
	IsEdited          bool          `gorm:"not null;default:false" json:"is_edited"`
	EditCount         int           `gorm:"not null;default:0" json:"edit_count"`
	LastEditedAt      *time.Time    `json:"last_edited_at,omitempty"`
	CommentedAt       time.Time     `gorm:"not null" json:"commented_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// HasPlaceholderAuthor reports whether the stored author name is the
// generic placeholder (or empty) and may be backfilled by a rescan
func (c *Comment) HasPlaceholderAuthor() bool {
	return c.AuthorName == "" || c.AuthorName == AuthorPlaceholder
}
