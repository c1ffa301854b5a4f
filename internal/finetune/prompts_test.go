package finetune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finetune_admin/internal/models"
)

func TestRewritePrompt(t *testing.T) {
	assert.Equal(t, "Please rewrite this email:\n\nHello Bob", RewritePrompt("Hello Bob"))
}

func TestModifyReplyPrompt(t *testing.T) {
	prompt := ModifyReplyPrompt("Original", "My draft")
	assert.Equal(t,
		"Original Email:\nOriginal\n\nYour Reply:\nMy draft\n\nPlease improve this reply while maintaining the same general message.",
		prompt)
}

func TestModifyReplyPromptFallsBackToRewrite(t *testing.T) {
	assert.Equal(t, RewritePrompt("Original"), ModifyReplyPrompt("Original", ""))
	assert.Equal(t, RewritePrompt("Original"), ModifyReplyPrompt("Original", "   "))
}

func TestReplyPrompt(t *testing.T) {
	assert.Equal(t, "Please write a reply to this email:\n\nHello", ReplyPrompt("Hello"))
}

func TestBuildMessagesWithSystemPrompt(t *testing.T) {
	messages := BuildMessages("You write emails.", "Do the thing")

	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleSystem, messages[0].Role)
	assert.Equal(t, models.RoleUser, messages[1].Role)
}

func TestBuildMessagesWithoutSystemPrompt(t *testing.T) {
	messages := BuildMessages("   ", "Do the thing")

	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleUser, messages[0].Role)
}
