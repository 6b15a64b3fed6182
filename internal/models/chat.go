package models

import "time"

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single turn in an assistant conversation. Conversations
// live only in memory for the duration of a session.
type ChatMessage struct {
	ID        string       `json:"id"`
	Role      string       `json:"role"` // user or assistant
	Content   string       `json:"content"`
	Context   *ChatContext `json:"context,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ChatContext records how much client data was fed to the model for a reply.
type ChatContext struct {
	EventCount int `json:"eventCount"`
	AssetCount int `json:"assetCount"`
}
