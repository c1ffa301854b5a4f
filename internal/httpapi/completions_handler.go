package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/models"
	"finetune_admin/internal/registry"
	"finetune_admin/internal/utils"
)

const defaultTemperature = 0.7

// Completion modes for the email tools
const (
	ModeRewrite = "rewrite"
	ModeModify  = "modify"
	ModeReply   = "reply"
)

// CompletionRequest runs one of the canned email tools against a registry
// model. Reply is only used by the modify mode.
type CompletionRequest struct {
	Alias        string   `json:"alias"`
	Mode         string   `json:"mode"`
	Email        string   `json:"email"`
	Reply        string   `json:"reply,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// CompletionResponse carries the generated text
type CompletionResponse struct {
	Alias string `json:"alias"`
	Model string `json:"model"`
	Text  string `json:"text"`
}

// completionsHandler serves completion requests for both surfaces. resolve
// decides which registry view the alias is looked up in.
type completionsHandler struct {
	service *finetune.Service
	resolve func(alias string) (models.ModelEntry, error)
}

// AdminCompletionsHandler tests any registry model, private ones included
func AdminCompletionsHandler(service *finetune.Service, reg *registry.Registry) http.HandlerFunc {
	h := &completionsHandler{service: service, resolve: reg.Get}
	return h.serve
}

// PublicCompletionsHandler only accepts public models; private and unknown
// aliases are indistinguishable to callers
func PublicCompletionsHandler(service *finetune.Service, reg *registry.Registry, mode string) http.HandlerFunc {
	h := &completionsHandler{service: service, resolve: reg.GetPublic}
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveMode(w, r, mode)
	}
}

func (h *completionsHandler) serve(w http.ResponseWriter, r *http.Request) {
	h.serveMode(w, r, "")
}

func (h *completionsHandler) serveMode(w http.ResponseWriter, r *http.Request, forcedMode string) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if forcedMode != "" {
		req.Mode = forcedMode
	}

	if strings.TrimSpace(req.Email) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	var userPrompt string
	switch req.Mode {
	case ModeRewrite:
		userPrompt = finetune.RewritePrompt(req.Email)
	case ModeModify:
		userPrompt = finetune.ModifyReplyPrompt(req.Email, req.Reply)
	case ModeReply:
		userPrompt = finetune.ReplyPrompt(req.Email)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "mode must be rewrite, modify, or reply")
		return
	}

	entry, err := h.resolve(req.Alias)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Model not found")
		return
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	text, err := h.service.Complete(r.Context(), entry.ID, req.SystemPrompt, userPrompt, temperature)
	if err != nil {
		respondProviderError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, CompletionResponse{
		Alias: req.Alias,
		Model: entry.ID,
		Text:  text,
	})
}
