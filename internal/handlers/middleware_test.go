package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimitMiddleware(t *testing.T) {
	h, _ := setupTestHandler(t)
	gin.SetMode(gin.TestMode)
	limiter := services.NewIPRateLimiter(rate.Every(time.Hour), 1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := h.SetupRouter(limiter)

	headers := map[string]string{"X-Forwarded-For": "192.0.2.10"}

	w := doRequest(r, http.MethodGet, "/api/urls", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/urls", nil, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode(t, w)["kind"])

	w = doRequest(r, http.MethodGet, "/some-code", nil, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// other clients and the health check are unaffected
	w = doRequest(r, http.MethodGet, "/api/urls", nil, map[string]string{"X-Forwarded-For": "192.0.2.11"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodGet, "/health", nil, headers)
	assert.Equal(t, http.StatusOK, w.Code)
}
