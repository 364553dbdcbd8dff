package dto

// UpdateAutomationConfigRequest is the body for saving per-platform
// automation settings
type UpdateAutomationConfigRequest struct {
	Enabled              bool   `json:"enabled"`
	AutoReply            bool   `json:"auto_reply"`
	ResponseDelaySeconds int    `json:"response_delay_seconds" binding:"omitempty,min=0,max=86400"`
	Model                string `json:"model"`
	PersonalityPrompt    string `json:"personality_prompt"`
}
