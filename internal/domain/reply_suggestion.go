package domain

import (
	"github.com/google/uuid"
)

// ReplySuggestion is a generated reply candidate stored alongside a comment
type ReplySuggestion struct {
	BaseModel
	CommentID     uuid.UUID `gorm:"type:uuid;not null;index:idx_reply_suggestions_comment_id" json:"comment_id"`
	SuggestedText string    `gorm:"type:text;not null" json:"suggested_text"`
	Source        string    `gorm:"type:varchar(64);not null" json:"source"`
	Used          bool      `gorm:"not null;default:false" json:"used"`
	Comment       Comment   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ReplySuggestion
func (ReplySuggestion) TableName() string {
	return "reply_suggestions"
}
