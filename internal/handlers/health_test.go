package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		h, _ := setupTestHandler(t)
		r := setupTestRouter(h)

		w := doRequest(r, http.MethodGet, "/health", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, "disabled", body["cache"])
		assert.NotEmpty(t, body["uptime"])
	})

	t.Run("Database Down", func(t *testing.T) {
		h, env := setupTestHandler(t)
		r := setupTestRouter(h)

		sqlDB, err := env.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		w := doRequest(r, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "disconnected", decode(t, w)["database"])

		w = doRequest(r, http.MethodGet, "/api/urls", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "storage_unavailable", decode(t, w)["kind"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	doRequest(r, http.MethodGet, "/health", nil, nil)

	w := doRequest(r, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "linkstat_http_requests_total"))
}
