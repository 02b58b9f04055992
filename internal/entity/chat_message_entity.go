package entity

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

type ChatMessage struct {
	Id        string      `json:"id"`
	SessionId string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Citations []string    `json:"citations"`

	// Provisional marks the optimistic copy of a user message; its id is
	// client-generated and never sent to the backend.
	Provisional bool `json:"provisional,omitempty"`
}
