package dto

// ReplyRequest is the body for posting a manual reply to a comment
type ReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// RescanRequest is the body for triggering a manual post rescan
type RescanRequest struct {
	Platform string `json:"platform" binding:"required,oneof=facebook instagram"`
	PostID   string `json:"post_id" binding:"required"`
}
