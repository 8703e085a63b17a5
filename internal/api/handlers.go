package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reprise/internal/stats"
)

// Health reports database health. Drift or a dirty schema answers 200 with
// status "degraded"; a failed check answers 503 with the partial report.
// GET /api/v1/health
func (h *Handler) Health(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
		return
	}
	report, err := h.health.CheckHealth(c.Request.Context())
	if err != nil {
		if report.Error == "" {
			report.Error = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: report})
		return
	}
	status := "ok"
	if !report.Healthy() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{Status: status, Database: report})
}

// Stats returns today's dashboard numbers.
// GET /api/v1/stats
func (h *Handler) Stats(c *gin.Context) {
	out, err := stats.Compute(c.Request.Context(), h.repo, h.playlist.Engine(), h.playlist.Today())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Preview returns today's candidate lists without creating anything.
// GET /api/v1/preview?extra=true
func (h *Handler) Preview(c *gin.Context) {
	extra, ok := boolQuery(c, "extra")
	if !ok {
		return
	}
	preview, err := h.playlist.Preview(c.Request.Context(), extra)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func boolQuery(c *gin.Context, key string) (bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("%s must be a boolean", key))
		return false, false
	}
	return value, true
}

func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		badRequest(c, fmt.Sprintf("%s must be a non-negative integer", key))
		return 0, false
	}
	return value, true
}
