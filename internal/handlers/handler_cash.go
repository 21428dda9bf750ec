package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashHandler handles HTTP requests for the cash position projection.
type cashHandler struct {
	cashService portssvc.CashPositionSvcFacade
}

// newCashHandler creates a new cashHandler.
func newCashHandler(cashService portssvc.CashPositionSvcFacade) *cashHandler {
	return &cashHandler{cashService: cashService}
}

// parseTimeParam parses an optional RFC3339 or date-only query parameter.
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// getCashPosition handles GET /cash-position.
func (h *cashHandler) getCashPosition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' parameter, expected RFC3339 or YYYY-MM-DD"})
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' parameter, expected RFC3339 or YYYY-MM-DD"})
		return
	}

	position, err := h.cashService.Project(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to project cash position", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cash position"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCashPositionResponse(position))
}

// registerCashRoutes registers cash position routes.
func registerCashRoutes(group *gin.RouterGroup, cashService portssvc.CashPositionSvcFacade) {
	h := newCashHandler(cashService)
	group.GET("/cash-position", h.getCashPosition)
}
