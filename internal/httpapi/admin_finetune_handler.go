package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/providers"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/utils"
)

// AdminFineTuneHandler starts fine-tune jobs and reports their status
type AdminFineTuneHandler struct {
	service *finetune.Service
	jobs    *storage.JobRepository // optional, nil disables job history
}

// NewAdminFineTuneHandler creates a new admin fine-tune handler
func NewAdminFineTuneHandler(service *finetune.Service, jobs *storage.JobRepository) *AdminFineTuneHandler {
	return &AdminFineTuneHandler{service: service, jobs: jobs}
}

// StartJobRequest submits a fine-tune job over the current training set
type StartJobRequest struct {
	BaseModel              string  `json:"base_model"`
	NEpochs                int     `json:"n_epochs,omitempty"`
	BatchSize              int     `json:"batch_size,omitempty"`
	LearningRateMultiplier float64 `json:"learning_rate_multiplier,omitempty"`
}

// StartJobResponse carries the provider job ID
type StartJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// StatusResponse is the outcome of one status poll
type StatusResponse struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	FineTunedModel string `json:"fine_tuned_model,omitempty"`
	RecordedAlias  string `json:"recorded_alias,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Jobs handles /admin/finetune/jobs: POST starts a job, GET lists history.
func (h *AdminFineTuneHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.start(w, r)
	case http.MethodGet:
		h.history(w, r)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Job handles GET /admin/finetune/jobs/{id}: polls the job status.
func (h *AdminFineTuneHandler) Job(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 4 || pathParts[3] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}
	jobID := pathParts[3]

	result, err := h.service.Check(r.Context(), jobID)
	if err != nil {
		respondProviderError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, StatusResponse{
		JobID:          result.Status.JobID,
		Status:         result.Status.Status,
		FineTunedModel: result.Status.FineTunedModel,
		RecordedAlias:  result.RecordedAlias,
		Message:        result.Status.Message,
	})
}

func (h *AdminFineTuneHandler) start(w http.ResponseWriter, r *http.Request) {
	var req StartJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.BaseModel) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "base_model is required")
		return
	}

	jobID, err := h.service.Start(r.Context(), req.BaseModel, finetune.Hyperparameters{
		NEpochs:                req.NEpochs,
		BatchSize:              req.BatchSize,
		LearningRateMultiplier: req.LearningRateMultiplier,
	})
	if err != nil {
		respondProviderError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, StartJobResponse{JobID: jobID, Status: "pending"})
}

func (h *AdminFineTuneHandler) history(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		utils.RespondWithError(w, http.StatusNotImplemented, "Job history is not configured")
		return
	}

	jobs, err := h.jobs.List(r.Context(), 50)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list jobs: "+err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// respondProviderError maps provider failures to 502 and everything else to
// 500. Provider failures are retryable from the caller's point of view.
func respondProviderError(w http.ResponseWriter, err error) {
	var providerErr *providers.ProviderError
	if errors.As(err, &providerErr) {
		utils.RespondWithError(w, http.StatusBadGateway, providerErr.Error())
		return
	}
	utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
