package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for sales reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// getSalesReport handles GET /reports/sales.
func (h *reportingHandler) getSalesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := parseTimeParam(c.Query("from"))
	if err != nil || from == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid 'from' parameter is required, expected RFC3339 or YYYY-MM-DD"})
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil || to == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid 'to' parameter is required, expected RFC3339 or YYYY-MM-DD"})
		return
	}
	if to.Before(*from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not be before 'from'"})
		return
	}

	report, err := h.reportingService.AggregateSales(c.Request.Context(), *from, *to)
	if err != nil {
		logger.Error("Failed to aggregate sales", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSalesReportResponse(report))
}

// registerReportingRoutes registers reporting routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)
	group.GET("/reports/sales", h.getSalesReport)
}
