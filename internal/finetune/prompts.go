package finetune

import (
	"fmt"
	"strings"

	"finetune_admin/internal/models"
)

// RewritePrompt asks the model to rewrite an email wholesale.
func RewritePrompt(email string) string {
	return fmt.Sprintf("Please rewrite this email:\n\n%s", email)
}

// ModifyReplyPrompt asks the model to improve a draft reply to an email.
// With no draft it falls back to a plain rewrite of the original.
func ModifyReplyPrompt(originalEmail, reply string) string {
	if strings.TrimSpace(reply) == "" {
		return RewritePrompt(originalEmail)
	}
	return fmt.Sprintf(
		"Original Email:\n%s\n\nYour Reply:\n%s\n\nPlease improve this reply while maintaining the same general message.",
		originalEmail, reply,
	)
}

// ReplyPrompt asks the model to draft a reply to an email.
func ReplyPrompt(email string) string {
	return fmt.Sprintf("Please write a reply to this email:\n\n%s", email)
}

// BuildMessages assembles the chat payload: an optional system prompt
// followed by the user prompt.
func BuildMessages(systemPrompt, userPrompt string) []models.ChatMessage {
	var messages []models.ChatMessage
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: userPrompt})
	return messages
}
