package trainingset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finetune_admin/internal/models"
)

func decodeLines(t *testing.T, data []byte) []models.TrainingExample {
	t.Helper()

	var examples []models.TrainingExample
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var example models.TrainingExample
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &example), "each line is standalone JSON")
		examples = append(examples, example)
	}
	require.NoError(t, scanner.Err())
	return examples
}

func TestBuildFiltersBySender(t *testing.T) {
	rows := []Row{
		{SenderField: "alice@x.com", SubjectField: "Hi", BodyField: "  Hello there  "},
		{SenderField: "bob@x.com", SubjectField: "Yo", BodyField: "Sup"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"alice@x.com"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	examples := decodeLines(t, buf.Bytes())
	require.Len(t, examples, 1)

	messages := examples[0].Messages
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "Subject: Hi\nPlease respond with the email body style.", messages[0].Content)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Hello there", messages[1].Content, "body is trimmed")
}

func TestBuildMatchingIsCaseInsensitiveAndTrimmed(t *testing.T) {
	rows := []Row{
		{SenderField: "  ALICE@X.COM ", SubjectField: "Hi", BodyField: "Body"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"alice@x.com"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBuildIncludesSystemPrompt(t *testing.T) {
	rows := []Row{
		{SenderField: "a", SubjectField: "S", BodyField: "B"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"a"}, "  You write emails.  ")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	examples := decodeLines(t, buf.Bytes())
	messages := examples[0].Messages
	require.Len(t, messages, 3)
	assert.Equal(t, models.RoleSystem, messages[0].Role)
	assert.Equal(t, "You write emails.", messages[0].Content)
}

func TestBuildPreservesInputOrder(t *testing.T) {
	rows := []Row{
		{SenderField: "a", SubjectField: "first", BodyField: "1"},
		{SenderField: "b", SubjectField: "skip", BodyField: "x"},
		{SenderField: "a", SubjectField: "second", BodyField: "2"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"a"}, "")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	examples := decodeLines(t, buf.Bytes())
	assert.Contains(t, examples[0].Messages[0].Content, "first")
	assert.Contains(t, examples[1].Messages[0].Content, "second")
}

func TestBuildNoMatches(t *testing.T) {
	rows := []Row{
		{SenderField: "a", SubjectField: "S", BodyField: "B"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"nobody"}, "")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, buf.Len())
}

func TestBuildEmptySenderNeverMatches(t *testing.T) {
	rows := []Row{
		{SenderField: "   ", SubjectField: "S", BodyField: "B"},
	}

	var buf bytes.Buffer
	count, err := Build(&buf, rows, []string{"   "}, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBuildFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered_data.jsonl")
	rows := []Row{
		{SenderField: "a", SubjectField: "S", BodyField: "B"},
	}

	_, err := BuildFile(path, rows, []string{"a"}, "")
	require.NoError(t, err)

	count, err := BuildFile(path, rows, []string{"nobody"}, "")
	require.NoError(t, err)
	assert.Zero(t, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "rebuild replaces previous content")
}
