package handlers

import (
	"net/http"
	"strconv"
	"time"

	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateURLRequest struct {
	URL        string `json:"url"`
	CustomCode string `json:"customCode,omitempty"`
}

type CreateURLResponse struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortCode   string    `json:"shortCode"`
	ShortURL    string    `json:"shortUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateURL handles POST /api/urls.
func (h *Handler) CreateURL(c *gin.Context) {
	var req CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	record, err := h.registry.Create(c.Request.Context(), services.CreateInput{
		OriginalURL: req.URL,
		CustomCode:  req.CustomCode,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateURLResponse{
		ID:          record.ID,
		OriginalURL: record.OriginalURL,
		ShortCode:   record.ShortCode,
		ShortURL:    h.shortURL(c, record.ShortCode),
		CreatedAt:   record.CreatedAt,
	})
}

func (h *Handler) ListURLs(c *gin.Context) {
	urls, err := h.registry.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, urls)
}

func (h *Handler) GetURL(c *gin.Context) {
	record, err := h.registry.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteURL(c *gin.Context) {
	code := c.Param("code")
	deleted, err := h.registry.Delete(c.Request.Context(), code, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		h.respondError(c, services.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// QRCode renders the short URL of :code as PNG (default) or SVG.
func (h *Handler) QRCode(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.registry.Lookup(c.Request.Context(), code); err != nil {
		h.respondError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	opts := services.QROptions{
		Size:    size,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	}
	content := h.shortURL(c, code)

	switch c.DefaultQuery("format", "png") {
	case "png":
		img, err := h.qrService.PNG(content, opts)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", img)
	case "svg":
		svg, err := h.qrService.SVG(content, opts)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
	default:
		badRequest(c, "format must be png or svg")
	}
}
