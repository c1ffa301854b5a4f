package providers

import (
	"context"
	"fmt"

	"finetune_admin/internal/models"
)

// FineTuneRequest describes one fine-tune job submission.
type FineTuneRequest struct {
	TrainingFileID         string
	BaseModel              string
	NEpochs                int
	BatchSize              int
	LearningRateMultiplier float64
}

// FineTuneStatus is the normalized state of a fine-tune job. Status is one
// of models.JobStatusPending, JobStatusSucceeded, or JobStatusFailed.
type FineTuneStatus struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	FineTunedModel string `json:"fine_tuned_model,omitempty"`
	Message        string `json:"message,omitempty"` // provider failure detail, if any
}

// FineTuner is implemented by a hosted fine-tuning and completion provider.
type FineTuner interface {
	// UploadFile uploads a local file for the given purpose and returns the
	// provider-assigned file ID
	UploadFile(ctx context.Context, path, purpose string) (string, error)

	// CreateFineTune submits a fine-tune job and returns the job ID
	CreateFineTune(ctx context.Context, req FineTuneRequest) (string, error)

	// GetFineTune retrieves the current status of a fine-tune job
	GetFineTune(ctx context.Context, jobID string) (*FineTuneStatus, error)

	// Chat sends a chat completion request and returns the generated text
	Chat(ctx context.Context, model string, messages []models.ChatMessage, temperature float64) (string, error)

	// Close performs cleanup when the provider is no longer needed
	Close() error
}

// ProviderError reports a failed provider call. Provider failures are
// surfaced to the caller and never crash the service; the operation can be
// retried once the underlying cause clears.
type ProviderError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: provider returned status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Authenticator prepares authentication for provider requests. The only
// mechanism in use today is an API key header, but SDK-based providers slot
// in behind the same interface.
type Authenticator interface {
	Authenticate(ctx context.Context) (AuthContext, error)
}

// AuthContext applies authentication to a single outgoing request.
type AuthContext interface {
	ApplyToRequest(ctx context.Context, req any) error
}
