package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/models"
	"finetune_admin/internal/providers"
	"finetune_admin/internal/registry"
	"finetune_admin/internal/storage"
)

// fakeFineTuner records calls and returns canned results.
type fakeFineTuner struct {
	uploadedPath string
	createReq    providers.FineTuneRequest
	status       providers.FineTuneStatus
	statusErr    error
	chatModel    string
	chatMessages []models.ChatMessage
	chatReply    string
	chatErr      error
}

func (f *fakeFineTuner) UploadFile(ctx context.Context, path, purpose string) (string, error) {
	f.uploadedPath = path
	return "file-fake", nil
}

func (f *fakeFineTuner) CreateFineTune(ctx context.Context, req providers.FineTuneRequest) (string, error) {
	f.createReq = req
	return "ftjob-fake", nil
}

func (f *fakeFineTuner) GetFineTune(ctx context.Context, jobID string) (*providers.FineTuneStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	status := f.status
	status.JobID = jobID
	return &status, nil
}

func (f *fakeFineTuner) Chat(ctx context.Context, model string, messages []models.ChatMessage, temperature float64) (string, error) {
	f.chatModel = model
	f.chatMessages = messages
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatReply, nil
}

func (f *fakeFineTuner) Close() error { return nil }

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "models.json"))
	reg := registry.New(registry.Builtins(), store, nil)
	require.NoError(t, reg.Load())
	return reg
}

func newTestService(t *testing.T, fake *fakeFineTuner, reg *registry.Registry) *finetune.Service {
	t.Helper()

	return finetune.NewService(finetune.ServiceConfig{
		Provider:   fake,
		Registry:   reg,
		OutputPath: filepath.Join(t.TempDir(), "filtered_data.jsonl"),
	})
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return httptest.NewRequest(method, target, bytes.NewReader(body))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// multipartRequest builds a POST with the given CSV uploads under "files"
// and repeated form values.
func multipartRequest(t *testing.T, target string, files map[string]string, values map[string][]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

var errProviderDown = errors.New("provider down")
