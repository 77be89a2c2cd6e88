package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kyber/backend/internal/application/report"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/dashboard", h.Dashboard)
	}
}

// Summary returns revenue, expenses and profit for a period
func (h *ReportHandler) Summary(c *gin.Context) {
	var filter report.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "start_date and end_date are required")
		return
	}

	summary, err := h.reportService.GetSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Dashboard returns the at-a-glance business counters
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
