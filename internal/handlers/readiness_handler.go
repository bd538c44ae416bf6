package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/mockmate/internal/domains/readiness"
)

// ReadinessHandler serves liveness and dependency diagnostics
type ReadinessHandler struct {
	readinessService readiness.Service
}

// NewReadinessHandler creates a new readiness handler
func NewReadinessHandler(readinessService readiness.Service) *ReadinessHandler {
	return &ReadinessHandler{readinessService: readinessService}
}

// Health handles the liveness probe
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} SuccessResponse "Service is up"
// @Router /health [get]
func (h *ReadinessHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

// Readiness handles the dependency diagnostics probe
// @Summary Readiness probe
// @Description Check database, cache, processor credentials and speech endpoint
// @Tags System
// @Produce json
// @Success 200 {object} ReadinessResponse "All dependencies ready"
// @Failure 503 {object} ReadinessResponse "One or more dependencies degraded"
// @Router /readiness [get]
func (h *ReadinessHandler) Readiness(c *gin.Context) {
	report := h.readinessService.Run(c.Request.Context())

	status := http.StatusOK
	label := "ok"
	if !report.OK() {
		status = http.StatusServiceUnavailable
		label = "degraded"
	}
	c.JSON(status, ReadinessResponse{Status: label, Report: report})
}
