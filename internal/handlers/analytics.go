package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /api/analytics/:code?period=&format=json|csv.
func (h *Handler) GetStats(c *gin.Context) {
	period, err := services.ParsePeriod(c.Query("period"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		badRequest(c, "format must be json or csv")
		return
	}

	report, err := h.recorder.GetStats(c.Request.Context(), c.Param("code"), period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf); err != nil {
			h.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, report.ShortCode, report.Period))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetOverview(c *gin.Context) {
	report, err := h.recorder.GetOverview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
