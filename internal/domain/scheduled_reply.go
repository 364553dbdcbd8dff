package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledReplyStatus is the dispatch state of a scheduled reply
type ScheduledReplyStatus string

const (
	ScheduledReplyPending  ScheduledReplyStatus = "pending"
	ScheduledReplySent     ScheduledReplyStatus = "sent"
	ScheduledReplyFailed   ScheduledReplyStatus = "failed"
	ScheduledReplyCanceled ScheduledReplyStatus = "canceled"
)

// ScheduledReply is a durable delayed auto-reply task. Pending rows are
// picked up by the dispatch loop, including after a process restart.
type ScheduledReply struct {
	BaseModel
	CommentID uuid.UUID            `gorm:"type:uuid;not null;index:idx_scheduled_replies_comment_id" json:"comment_id"`
	DueAt     time.Time            `gorm:"not null;index:idx_scheduled_replies_due_at" json:"due_at"`
	Status    ScheduledReplyStatus `gorm:"type:varchar(32);not null;default:pending;index:idx_scheduled_replies_status" json:"status"`
	Attempts  int                  `gorm:"not null;default:0" json:"attempts"`
	LastError string               `gorm:"type:text" json:"last_error,omitempty"`
	Comment   Comment              `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ScheduledReply
func (ScheduledReply) TableName() string {
	return "scheduled_replies"
}
