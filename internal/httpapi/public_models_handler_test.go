package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publicModelsResponse struct {
	Models []PublicModelEntry `json:"models"`
	Count  int                `json:"count"`
}

func TestPublicModelsOmitsPrivateEntries(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Upsert("hidden", "ft:secret", false))
	handler := PublicModelsHandler(reg)

	req := httptest.NewRequest(http.MethodGet, "/public/models", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp publicModelsResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 2, resp.Count)
	for _, m := range resp.Models {
		assert.NotEqual(t, "hidden", m.Alias)
		assert.NotEqual(t, "model_AlTffoN4", m.Alias, "private builtin stays hidden")
	}
}

func TestPublicModelsRejectsNonGet(t *testing.T) {
	handler := PublicModelsHandler(newTestRegistry(t))

	req := httptest.NewRequest(http.MethodPost, "/public/models", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
