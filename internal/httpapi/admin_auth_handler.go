package httpapi

import (
	"encoding/json"
	"net/http"

	"finetune_admin/internal/auth"
	"finetune_admin/internal/config"
	"finetune_admin/internal/utils"
)

// AdminAuthHandler exchanges the admin password for a session token
type AdminAuthHandler struct {
	cfg *config.Config
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(cfg *config.Config) *AdminAuthHandler {
	return &AdminAuthHandler{cfg: cfg}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	Roles     []string `json:"roles"`
}

// Login handles POST /admin/auth/login
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password == "" || !auth.CheckPassword(req.Password, h.cfg.AdminPassword) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	roles := []string{auth.RoleAdmin.String()}
	token, expiresAt, err := auth.GenerateAdminJWT(h.cfg, roles)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token: "+err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Roles:     roles,
	})
}
