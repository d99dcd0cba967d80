package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a transcript. It is never modified after creation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
