package finetune

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finetune_admin/internal/models"
	"finetune_admin/internal/providers"
	"finetune_admin/internal/registry"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/trainingset"
	"finetune_admin/internal/utils"
)

// Hyperparameters for a fine-tune job. Zero or negative values fall back to
// the defaults.
type Hyperparameters struct {
	NEpochs                int
	BatchSize              int
	LearningRateMultiplier float64
}

func (h Hyperparameters) withDefaults() Hyperparameters {
	if h.NEpochs <= 0 {
		h.NEpochs = 1
	}
	if h.BatchSize <= 0 {
		h.BatchSize = 8
	}
	if h.LearningRateMultiplier <= 0 {
		h.LearningRateMultiplier = 0.05
	}
	return h
}

// Service orchestrates the fine-tune pipeline: build a training set, upload
// it, create a job, poll its status, and record the resulting model into the
// registry once the provider reports success.
type Service struct {
	provider   providers.FineTuner
	registry   *registry.Registry
	jobs       *storage.JobRepository // optional, nil disables job history
	cache      *JobCache              // optional
	outputPath string
	logger     *utils.Logger
}

// ServiceConfig bundles the service dependencies.
type ServiceConfig struct {
	Provider   providers.FineTuner
	Registry   *registry.Registry
	Jobs       *storage.JobRepository
	Cache      *JobCache
	OutputPath string
	Logger     *utils.Logger
}

// NewService creates a fine-tune service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider:   cfg.Provider,
		registry:   cfg.Registry,
		jobs:       cfg.Jobs,
		cache:      cfg.Cache,
		outputPath: cfg.OutputPath,
		logger:     cfg.Logger,
	}
}

// OutputPath returns the path the training set is written to.
func (s *Service) OutputPath() string { return s.outputPath }

// Jobs returns the job history repository, or nil when none is configured.
func (s *Service) Jobs() *storage.JobRepository { return s.jobs }

// BuildTrainingSet filters the uploaded rows down to the selected senders
// and writes the JSONL training file. Per-source parse failures come back
// alongside a successful build so callers can surface them as warnings.
func (s *Service) BuildTrainingSet(inputs []trainingset.NamedReader, selectedSenders []string, systemPrompt string) (int, []error, error) {
	rows, parseErrs := trainingset.ExtractRows(inputs)

	count, err := trainingset.BuildFile(s.outputPath, rows, selectedSenders, systemPrompt)
	if err != nil {
		return 0, parseErrs, err
	}

	if s.logger != nil {
		s.logger.Info("training set built", "path", s.outputPath, "examples", count)
	}
	return count, parseErrs, nil
}

// Start uploads the current training set and creates a fine-tune job,
// returning the provider job ID.
func (s *Service) Start(ctx context.Context, baseModel string, hp Hyperparameters) (string, error) {
	hp = hp.withDefaults()

	fileID, err := s.provider.UploadFile(ctx, s.outputPath, "fine-tune")
	if err != nil {
		return "", fmt.Errorf("error uploading training file: %w", err)
	}

	jobID, err := s.provider.CreateFineTune(ctx, providers.FineTuneRequest{
		TrainingFileID:         fileID,
		BaseModel:              baseModel,
		NEpochs:                hp.NEpochs,
		BatchSize:              hp.BatchSize,
		LearningRateMultiplier: hp.LearningRateMultiplier,
	})
	if err != nil {
		return "", fmt.Errorf("error creating fine-tune job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("fine-tune job created", "job_id", jobID, "base_model", baseModel)
	}

	if s.jobs != nil {
		now := time.Now()
		record := &models.FineTuneJob{
			ID:                     uuid.New(),
			JobID:                  jobID,
			BaseModel:              baseModel,
			TrainingFileID:         fileID,
			Status:                 models.JobStatusPending,
			NEpochs:                hp.NEpochs,
			BatchSize:              hp.BatchSize,
			LearningRateMultiplier: hp.LearningRateMultiplier,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := s.jobs.Create(ctx, record); err != nil && s.logger != nil {
			s.logger.Warn("failed to record fine-tune job", "job_id", jobID, "error", err)
		}
	}

	return jobID, nil
}

// CheckResult is the outcome of one status poll.
type CheckResult struct {
	Status *providers.FineTuneStatus

	// RecordedAlias is the registry alias of the fine-tuned model once the
	// job has succeeded. Empty while the job is still running or failed.
	RecordedAlias string
}

// Check polls a job's status. Polling is repeatable: a fresh cached status
// short-circuits the provider call, and a succeeded job's model is recorded
// into the registry exactly once.
func (s *Service) Check(ctx context.Context, jobID string) (*CheckResult, error) {
	status, cached := s.cache.GetStatus(ctx, jobID)
	if !cached {
		var err error
		status, err = s.provider.GetFineTune(ctx, jobID)
		if err != nil {
			return nil, err
		}
		s.cache.SetStatus(ctx, status)

		if s.jobs != nil {
			if err := s.jobs.UpdateStatus(ctx, jobID, status.Status, status.FineTunedModel); err != nil && err != storage.ErrJobNotFound && s.logger != nil {
				s.logger.Warn("failed to update job history", "job_id", jobID, "error", err)
			}
		}
	}

	result := &CheckResult{Status: status}

	if status.Status == models.JobStatusSucceeded && status.FineTunedModel != "" {
		if !s.cache.IsRecorded(ctx, jobID) {
			alias, err := s.registry.RecordFineTunedModel(status.FineTunedModel)
			if err != nil && s.logger != nil {
				s.logger.Warn("failed to persist fine-tuned model", "alias", alias, "error", err)
			}
			s.cache.MarkRecorded(ctx, jobID)
		}
		if alias, ok := s.registry.AliasFor(status.FineTunedModel); ok {
			result.RecordedAlias = alias
		}
	}

	return result, nil
}

// Complete sends a single chat completion against the chosen model.
func (s *Service) Complete(ctx context.Context, modelID, systemPrompt, userPrompt string, temperature float64) (string, error) {
	return s.provider.Chat(ctx, modelID, BuildMessages(systemPrompt, userPrompt), temperature)
}
