package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLog is a write-only audit entry for actions taken on a comment
type ActivityLog struct {
	BaseModel
	CommentID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_logs_comment_id" json:"comment_id"`
	ActionType string         `gorm:"type:varchar(64);not null" json:"action_type"`
	ActionData datatypes.JSON `gorm:"type:jsonb" json:"action_data,omitempty"`
	Comment    Comment        `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
