package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Redirect sends the visitor on with a 302 so every visit reaches us and
// gets counted. The click is recorded off the request path.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")

	dest, err := h.registry.Resolve(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.recorder.RecordClickAsync(code, clientMeta(c))
	c.Redirect(http.StatusFound, dest)
}
