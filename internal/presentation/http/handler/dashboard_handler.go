package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mobelio/mobelio-api/internal/application/service"
	"github.com/mobelio/mobelio-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard metrics HTTP requests
type DashboardHandler struct {
	metricsService *service.MetricsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(metricsService *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{metricsService: metricsService}
}

// GetMetrics returns the dashboard metrics snapshot, cached or fresh
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	snapshot, err := h.metricsService.GetDashboardMetrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard metrics retrieved successfully", snapshot)
}

// RefreshMetrics forces a recomputation, bypassing the cache
func (h *DashboardHandler) RefreshMetrics(c *gin.Context) {
	snapshot, err := h.metricsService.RefreshMetrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard metrics refreshed successfully", snapshot)
}

// ValidateMetrics runs the operator-facing self-audit: business rules,
// stored-value comparison, and ground-truth cross-validation
func (h *DashboardHandler) ValidateMetrics(c *gin.Context) {
	report, err := h.metricsService.ValidateMetrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Metrics validation completed", report)
}
