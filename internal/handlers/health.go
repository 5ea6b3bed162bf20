package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbErr, cacheErr := h.registry.Ping(ctx)

	body := gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"database": "connected",
		"cache":    "disabled",
	}
	if h.registry.CacheEnabled() {
		body["cache"] = "connected"
		if cacheErr != nil {
			body["cache"] = "disconnected"
		}
	}

	if dbErr != nil {
		h.logger.Error("Health check: database unreachable", "error", dbErr)
		body["status"] = "unavailable"
		body["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
