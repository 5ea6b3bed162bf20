package handlers

import (
	"linkstat/internal/metrics"
	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires every route. rateLimiter may be nil; when set it applies
// to the API and the redirect, not to /health or /metrics.
func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.Middleware())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := r.Group("/")
	if rateLimiter != nil {
		limited.Use(h.RateLimitMiddleware(rateLimiter))
	}

	api := limited.Group("/api")
	{
		api.POST("/urls", h.CreateURL)
		api.GET("/urls", h.ListURLs)
		api.GET("/urls/:code", h.GetURL)
		api.DELETE("/urls/:code", h.DeleteURL)
		api.GET("/urls/:code/qr", h.QRCode)

		api.GET("/analytics", h.GetOverview)
		api.GET("/analytics/:code", h.GetStats)
	}

	limited.GET("/:code", h.Redirect)

	return r
}
