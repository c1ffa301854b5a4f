package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finetune_admin/internal/models"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAITimeout        = 60 * time.Second
)

// OpenAIClient talks to the OpenAI files, fine-tuning, and chat completion
// APIs. No automatic retries; failures come back as ProviderError.
type OpenAIClient struct {
	auth    Authenticator
	client  *http.Client
	baseURL string
}

// OpenAIConfig holds client construction settings.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string        // defaults to the public API
	Timeout time.Duration // defaults to 60s

	// HTTPClient overrides Timeout when set. Used by tests.
	HTTPClient *http.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(config OpenAIConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("api_key is required for OpenAI provider")
	}

	baseURL := openAIDefaultBaseURL
	if config.BaseURL != "" {
		baseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	client := config.HTTPClient
	if client == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = openAITimeout
		}
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &OpenAIClient{
		auth:    NewSimpleAPIKeyAuth(config.APIKey, "Authorization", "Bearer "),
		client:  client,
		baseURL: baseURL,
	}, nil
}

// UploadFile uploads the file at path and returns the provider file ID.
func (c *OpenAIClient) UploadFile(ctx context.Context, path, purpose string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open training file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("purpose", purpose); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/files", mw.FormDataContentType(), &body, "upload file")
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("upload response missing file id")
	}
	return resp.ID, nil
}

// CreateFineTune submits a fine-tune job and returns its ID.
func (c *OpenAIClient) CreateFineTune(ctx context.Context, ftReq FineTuneRequest) (string, error) {
	payload := map[string]any{
		"training_file": ftReq.TrainingFileID,
		"model":         ftReq.BaseModel,
		"hyperparameters": map[string]any{
			"n_epochs":                 ftReq.NEpochs,
			"batch_size":               ftReq.BatchSize,
			"learning_rate_multiplier": ftReq.LearningRateMultiplier,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/fine_tuning/jobs", "application/json", bytes.NewReader(body), "create fine-tune")
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode fine-tune response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("fine-tune response missing job id")
	}
	return resp.ID, nil
}

// GetFineTune retrieves the state of a fine-tune job.
func (c *OpenAIClient) GetFineTune(ctx context.Context, jobID string) (*FineTuneStatus, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/fine_tuning/jobs/"+jobID, "", nil, "get fine-tune")
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		FineTunedModel string `json:"fine_tuned_model"`
		Error          struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode fine-tune response: %w", err)
	}

	return &FineTuneStatus{
		JobID:          resp.ID,
		Status:         normalizeStatus(resp.Status),
		FineTunedModel: resp.FineTunedModel,
		Message:        resp.Error.Message,
	}, nil
}

// Chat sends a chat completion request and returns the first choice content.
func (c *OpenAIClient) Chat(ctx context.Context, model string, messages []models.ChatMessage, temperature float64) (string, error) {
	payload := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/chat/completions", "application/json", bytes.NewReader(body), "chat completion")
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message models.ChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close cleans up resources
func (c *OpenAIClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *OpenAIClient) do(ctx context.Context, method, path, contentType string, body io.Reader, operation string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	authCtx, err := c.auth.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := authCtx.ApplyToRequest(ctx, httpReq); err != nil {
		return nil, fmt.Errorf("failed to apply auth: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}
	return respBody, nil
}

// normalizeStatus collapses provider-specific intermediate states into the
// three states the rest of the system cares about.
func normalizeStatus(s string) string {
	switch s {
	case "succeeded":
		return models.JobStatusSucceeded
	case "failed", "cancelled":
		return models.JobStatusFailed
	default:
		return models.JobStatusPending
	}
}

var _ FineTuner = (*OpenAIClient)(nil)
