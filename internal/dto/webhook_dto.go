package dto

// WebhookPayload is the Graph API webhook delivery envelope
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one subscribed object's batch of changes
type WebhookEntry struct {
	ID      string          `json:"id"`
	Time    int64           `json:"time"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is a single field change notification
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookFrom is the author block of a change value
type WebhookFrom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// WebhookMedia is the Instagram media block of a change value
type WebhookMedia struct {
	ID string `json:"id"`
}

// WebhookValue carries the platform-specific change payload. Facebook
// feed changes use item/verb/comment_id/post_id/message; Instagram
// comment changes use id/text/media.
type WebhookValue struct {
	Item        string       `json:"item"`
	Verb        string       `json:"verb"`
	CommentID   string       `json:"comment_id"`
	PostID      string       `json:"post_id"`
	ParentID    string       `json:"parent_id"`
	Message     string       `json:"message"`
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Media       WebhookMedia `json:"media"`
	MediaID     string       `json:"media_id"`
	From        WebhookFrom  `json:"from"`
	CreatedTime int64        `json:"created_time"`
}
