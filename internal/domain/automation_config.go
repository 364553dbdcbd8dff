package domain

// AutomationConfig controls auto-reply behavior per platform.
// The database row is the source of truth; reads go through a short-lived
// Redis cache since the config is consulted for every incoming comment.
type AutomationConfig struct {
	BaseModel
	Platform             Platform `gorm:"type:varchar(32);not null;uniqueIndex:ux_automation_configs_platform" json:"platform"`
	Enabled              bool     `gorm:"not null;default:false" json:"enabled"`
	AutoReply            bool     `gorm:"not null;default:false" json:"auto_reply"`
	ResponseDelaySeconds int      `gorm:"not null;default:30" json:"response_delay_seconds"`
	Model                string   `gorm:"type:varchar(64)" json:"model"`
	PersonalityPrompt    string   `gorm:"type:text" json:"personality_prompt"`
}

// TableName specifies the table name for AutomationConfig
func (AutomationConfig) TableName() string {
	return "automation_configs"
}
