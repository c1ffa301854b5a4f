package httpapi

import (
	"net/http"

	"finetune_admin/internal/registry"
	"finetune_admin/internal/utils"
)

// PublicModelEntry is one selectable model on the end-user surface. The
// visibility flag is not echoed; everything listed here is public.
type PublicModelEntry struct {
	Alias string `json:"alias"`
	ID    string `json:"id"`
}

// PublicModelsHandler lists the public registry entries
func PublicModelsHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		entries := reg.PublicView()
		response := make([]PublicModelEntry, 0, len(entries))
		for _, entry := range entries {
			response = append(response, PublicModelEntry{Alias: entry.Alias, ID: entry.ID})
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"models": response,
			"count":  len(response),
		})
	}
}
