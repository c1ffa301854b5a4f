package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"finetune_admin/internal/models"
)

// JobRepository persists fine-tune job history in PostgreSQL. Expected
// schema:
//
//	CREATE TABLE fine_tune_jobs (
//	    id UUID PRIMARY KEY,
//	    job_id TEXT UNIQUE NOT NULL,
//	    base_model TEXT NOT NULL,
//	    training_file_id TEXT NOT NULL,
//	    status TEXT NOT NULL,
//	    fine_tuned_model TEXT NOT NULL DEFAULT '',
//	    n_epochs INT NOT NULL,
//	    batch_size INT NOT NULL,
//	    learning_rate_multiplier DOUBLE PRECISION NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository connects to the database and returns a job repository.
func NewJobRepository(dsn string) (*JobRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &JobRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *JobRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new job record.
func (r *JobRepository) Create(ctx context.Context, job *models.FineTuneJob) error {
	query := `
		INSERT INTO fine_tune_jobs (
			id, job_id, base_model, training_file_id, status, fine_tuned_model,
			n_epochs, batch_size, learning_rate_multiplier, created_at, updated_at
		) VALUES (
			:id, :job_id, :base_model, :training_file_id, :status, :fine_tuned_model,
			:n_epochs, :batch_size, :learning_rate_multiplier, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("failed to create job record: %w", err)
	}
	return nil
}

// UpdateStatus records a poll result against an existing job.
func (r *JobRepository) UpdateStatus(ctx context.Context, jobID, status, fineTunedModel string) error {
	query := `
		UPDATE fine_tune_jobs
		SET status = $2, fine_tuned_model = $3, updated_at = NOW()
		WHERE job_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, jobID, status, fineTunedModel)
	if err != nil {
		return fmt.Errorf("failed to update job record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// GetByJobID retrieves a job record by the provider-assigned job ID.
func (r *JobRepository) GetByJobID(ctx context.Context, jobID string) (*models.FineTuneJob, error) {
	var job models.FineTuneJob
	query := `
		SELECT id, job_id, base_model, training_file_id, status, fine_tuned_model,
		       n_epochs, batch_size, learning_rate_multiplier, created_at, updated_at
		FROM fine_tune_jobs
		WHERE job_id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, jobID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job record: %w", err)
	}
	return &job, nil
}

// List returns the most recent job records, newest first.
func (r *JobRepository) List(ctx context.Context, limit int) ([]*models.FineTuneJob, error) {
	if limit <= 0 {
		limit = 50
	}

	var jobs []*models.FineTuneJob
	query := `
		SELECT id, job_id, base_model, training_file_id, status, fine_tuned_model,
		       n_epochs, batch_size, learning_rate_multiplier, created_at, updated_at
		FROM fine_tune_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &jobs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list job records: %w", err)
	}
	return jobs, nil
}
