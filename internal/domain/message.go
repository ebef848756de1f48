package domain

import "time"

type MessageRole string

const (
	MessageUser      MessageRole = "user"
	MessageAssistant MessageRole = "assistant"
)

// Message is one turn of the drafting conversation attached to a SOW.
type Message struct {
	ID        string
	SOWID     string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}
