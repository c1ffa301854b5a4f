package trainingset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"finetune_admin/internal/models"
)

// userContentTemplate carries the row subject and asks the model to answer
// in the matching body style.
const userContentTemplate = "Subject: %s\nPlease respond with the email body style."

// Build filters rows to those whose sender matches one of the selected
// senders and writes one JSON training example per matching row, one per
// line, preserving input order. Matching trims whitespace and ignores case
// on both sides. Returns the number of examples written.
func Build(w io.Writer, rows []Row, selectedSenders []string, systemPrompt string) (int, error) {
	selected := lo.Map(selectedSenders, func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	systemPrompt = strings.TrimSpace(systemPrompt)

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	count := 0
	for _, row := range rows {
		sender := strings.ToLower(strings.TrimSpace(row[SenderField]))
		if sender == "" || !lo.Contains(selected, sender) {
			continue
		}

		subject := strings.TrimSpace(row[SubjectField])
		body := strings.TrimSpace(row[BodyField])

		var messages []models.ChatMessage
		if systemPrompt != "" {
			messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt})
		}
		messages = append(messages,
			models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf(userContentTemplate, subject)},
			models.ChatMessage{Role: models.RoleAssistant, Content: body},
		)

		if err := enc.Encode(models.TrainingExample{Messages: messages}); err != nil {
			return count, err
		}
		count++
	}

	if err := bw.Flush(); err != nil {
		return count, err
	}
	return count, nil
}

// BuildFile writes the training set to path, replacing previous content.
func BuildFile(path string, rows []Row, selectedSenders []string, systemPrompt string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	count, err := Build(f, rows, selectedSenders, systemPrompt)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return count, err
}
