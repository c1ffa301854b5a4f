package models

import (
	"time"

	"github.com/google/uuid"
)

// Normalized fine-tune job statuses. Provider-specific intermediate states
// (validating_files, queued, running, ...) collapse into JobStatusPending.
const (
	JobStatusPending   = "pending"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// FineTuneJob is the audit record for one fine-tune job submission.
type FineTuneJob struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	JobID                  string    `db:"job_id" json:"job_id"`
	BaseModel              string    `db:"base_model" json:"base_model"`
	TrainingFileID         string    `db:"training_file_id" json:"training_file_id"`
	Status                 string    `db:"status" json:"status"`
	FineTunedModel         string    `db:"fine_tuned_model" json:"fine_tuned_model,omitempty"`
	NEpochs                int       `db:"n_epochs" json:"n_epochs"`
	BatchSize              int       `db:"batch_size" json:"batch_size"`
	LearningRateMultiplier float64   `db:"learning_rate_multiplier" json:"learning_rate_multiplier"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the job has reached a final state.
func (j *FineTuneJob) IsTerminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}
