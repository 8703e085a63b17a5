package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reprise/internal/logging"
	"reprise/internal/services"
)

func statusForError(err error) int {
	switch services.Kind(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err with the status its classification implies.
// Server-side failures are logged; client errors are not.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	kind := services.Kind(err)
	if status == http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(c.Request.Context(), h.logger), "request failed", "api_error",
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Error(err),
		)
		kind = "internal"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   kind,
		Message: err.Error(),
		Code:    status,
	})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   services.KindValidation,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}
