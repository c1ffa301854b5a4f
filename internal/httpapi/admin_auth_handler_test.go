package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finetune_admin/internal/auth"
	"finetune_admin/internal/config"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     []byte("test-secret"),
		AdminPassword: "correct-horse",
	}
}

func TestLoginSuccess(t *testing.T) {
	cfg := newAuthTestConfig()
	handler := NewAdminAuthHandler(cfg)

	req := jsonRequest(t, http.MethodPost, "/admin/auth/login", LoginRequest{Password: "correct-horse"})
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{"admin"}, resp.Roles)
	assert.NotZero(t, resp.ExpiresAt)

	claims, err := auth.ValidateAdminJWT(resp.Token, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestLoginWrongPassword(t *testing.T) {
	handler := NewAdminAuthHandler(newAuthTestConfig())

	req := jsonRequest(t, http.MethodPost, "/admin/auth/login", LoginRequest{Password: "wrong"})
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginEmptyPassword(t *testing.T) {
	handler := NewAdminAuthHandler(newAuthTestConfig())

	req := jsonRequest(t, http.MethodPost, "/admin/auth/login", LoginRequest{})
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsNonPost(t *testing.T) {
	handler := NewAdminAuthHandler(newAuthTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/admin/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginInvalidBody(t *testing.T) {
	handler := NewAdminAuthHandler(newAuthTestConfig())

	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
