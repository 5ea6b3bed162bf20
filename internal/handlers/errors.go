package handlers

import (
	"net/http"

	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
)

const kindInvalidRequest = "invalid_request"

var kindStatus = map[services.Kind]int{
	services.KindInvalidURL:              http.StatusBadRequest,
	services.KindInvalidCustomCode:       http.StatusBadRequest,
	services.KindInvalidPeriod:           http.StatusBadRequest,
	services.KindNotFound:                http.StatusNotFound,
	services.KindCodeAlreadyExists:       http.StatusConflict,
	services.KindCodeGenerationExhausted: http.StatusInternalServerError,
	services.KindStorageUnavailable:      http.StatusServiceUnavailable,
	services.KindInternal:                http.StatusInternalServerError,
}

// respondError writes {"error", "kind"} with the status of err's kind.
// Server-side failures are logged and their details kept out of the body.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	switch kind {
	case services.KindStorageUnavailable:
		h.logger.Error("Storage unavailable", "path", c.Request.URL.Path, "error", err)
		message = services.ErrStorageUnavailable.Error()
	case services.KindInternal, services.KindCodeGenerationExhausted:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		if kind == services.KindInternal {
			message = "internal server error"
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": string(kind)})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "kind": kindInvalidRequest})
}
