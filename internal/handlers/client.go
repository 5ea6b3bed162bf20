package handlers

import (
	"strings"

	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
)

// Country headers set by common edge proxies, in order of preference.
var countryHeaders = []string{"CF-IPCountry", "X-Vercel-IP-Country", "X-Country"}

func clientMeta(c *gin.Context) services.ClickMeta {
	meta := services.ClickMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		City:      c.GetHeader("X-Vercel-IP-City"),
		Region:    c.GetHeader("X-Vercel-IP-Country-Region"),
	}
	for _, h := range countryHeaders {
		// Cloudflare uses XX when the country is unknown.
		if v := strings.TrimSpace(c.GetHeader(h)); v != "" && v != "XX" {
			meta.Country = v
			break
		}
	}
	return meta
}

// baseURL is the configured public origin, or the one the request came in on.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.cfg.BaseURL != "" {
		return strings.TrimRight(h.cfg.BaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) shortURL(c *gin.Context, code string) string {
	return h.baseURL(c) + "/" + code
}
