package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finetune_admin/internal/registry"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/utils"
)

// AdminModelsHandler manages model registry entries
type AdminModelsHandler struct {
	registry *registry.Registry
}

// NewAdminModelsHandler creates a new admin models handler
func NewAdminModelsHandler(reg *registry.Registry) *AdminModelsHandler {
	return &AdminModelsHandler{registry: reg}
}

// UpsertModelRequest adds or replaces a registry entry. A missing "public"
// defaults to true.
type UpsertModelRequest struct {
	Alias  string `json:"alias"`
	ID     string `json:"id"`
	Public *bool  `json:"public,omitempty"`
}

// UpdateModelRequest changes fields of an existing entry. Omitted fields
// keep their current value.
type UpdateModelRequest struct {
	ID     string `json:"id,omitempty"`
	Public *bool  `json:"public,omitempty"`
}

// ModelEntryResponse is one registry entry in list and item responses
type ModelEntryResponse struct {
	Alias   string `json:"alias"`
	ID      string `json:"id"`
	Public  bool   `json:"public"`
	Builtin bool   `json:"builtin"`
}

// Collection handles /admin/models (list and create)
func (h *AdminModelsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.upsert(w, r)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Item handles /admin/models/{alias} (get, update, delete)
func (h *AdminModelsHandler) Item(w http.ResponseWriter, r *http.Request) {
	alias, ok := aliasFromPath(r.URL.Path)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid model alias")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, alias)
	case http.MethodPut, http.MethodPatch:
		h.update(w, r, alias)
	case http.MethodDelete:
		h.delete(w, r, alias)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AdminModelsHandler) list(w http.ResponseWriter, r *http.Request) {
	entries := h.registry.MergedView()

	response := make([]ModelEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, ModelEntryResponse{
			Alias:   entry.Alias,
			ID:      entry.ID,
			Public:  entry.Public,
			Builtin: h.registry.IsBuiltin(entry.Alias),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"models": response,
		"count":  len(response),
	})
}

func (h *AdminModelsHandler) get(w http.ResponseWriter, r *http.Request, alias string) {
	entry, err := h.registry.Get(alias)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Model not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ModelEntryResponse{
		Alias:   alias,
		ID:      entry.ID,
		Public:  entry.Public,
		Builtin: h.registry.IsBuiltin(alias),
	})
}

func (h *AdminModelsHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}

	if err := h.registry.Upsert(req.Alias, req.ID, public); err != nil {
		respondRegistryError(w, err)
		return
	}

	alias := strings.TrimSpace(req.Alias)
	utils.RespondWithJSON(w, http.StatusCreated, ModelEntryResponse{
		Alias:   alias,
		ID:      strings.TrimSpace(req.ID),
		Public:  public,
		Builtin: h.registry.IsBuiltin(alias),
	})
}

func (h *AdminModelsHandler) update(w http.ResponseWriter, r *http.Request, alias string) {
	entry, err := h.registry.Get(alias)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Model not found")
		return
	}

	var req UpdateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := entry.ID
	if req.ID != "" {
		id = req.ID
	}
	public := entry.Public
	if req.Public != nil {
		public = *req.Public
	}

	if err := h.registry.Upsert(alias, id, public); err != nil {
		respondRegistryError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ModelEntryResponse{
		Alias:   alias,
		ID:      strings.TrimSpace(id),
		Public:  public,
		Builtin: h.registry.IsBuiltin(alias),
	})
}

func (h *AdminModelsHandler) delete(w http.ResponseWriter, r *http.Request, alias string) {
	if err := h.registry.Remove(alias); err != nil {
		respondRegistryError(w, err)
		return
	}

	// Removal is idempotent: deleting an unknown alias also succeeds.
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted", "alias": alias})
}

func respondRegistryError(w http.ResponseWriter, err error) {
	var validationErr *registry.ValidationError
	if errors.As(err, &validationErr) {
		utils.RespondWithError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var writeErr *storage.StoreWriteError
	if errors.As(err, &writeErr) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to persist registry: "+writeErr.Error())
		return
	}

	utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
}

// aliasFromPath extracts the alias segment from /admin/models/{alias}.
func aliasFromPath(path string) (string, bool) {
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(pathParts) < 3 || pathParts[2] == "" {
		return "", false
	}
	return pathParts[2], true
}
