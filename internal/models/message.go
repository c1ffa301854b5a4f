package models

// Chat message roles in the provider wire format
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged message in the chat completion format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TrainingExample is a single fine-tuning example. It serializes to one
// JSONL line in the training file.
type TrainingExample struct {
	Messages []ChatMessage `json:"messages"`
}
