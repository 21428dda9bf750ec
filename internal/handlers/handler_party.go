package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/core/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests for parties and debt settlement.
type partyHandler struct {
	partyService  portssvc.PartySvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newPartyHandler creates a new partyHandler.
func newPartyHandler(partyService portssvc.PartySvcFacade, ledgerService portssvc.LedgerSvcFacade) *partyHandler {
	return &partyHandler{partyService: partyService, ledgerService: ledgerService}
}

// createParty handles POST /parties.
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorID := middleware.GetCallerIDFromContext(c)

	party, err := h.partyService.CreateParty(c.Request.Context(), req, creatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create party", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// updateParty handles PUT /parties/:partyID.
func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("partyID")

	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updaterID := middleware.GetCallerIDFromContext(c)

	party, err := h.partyService.UpdateParty(c.Request.Context(), partyID, req, updaterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to update party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// getParty handles GET /parties/:partyID.
func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("partyID")

	party, err := h.partyService.GetPartyByID(c.Request.Context(), partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to get party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listParties handles GET /parties.
func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list parties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parties": dto.ToPartyResponses(parties)})
}

// settleDebt handles POST /parties/:partyID/settle.
func (h *partyHandler) settleDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("partyID")

	var req dto.SettleDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settleDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorID := middleware.GetCallerIDFromContext(c)

	txn, err := h.ledgerService.SettleDebt(c.Request.Context(), partyID, req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPostingRejected):
			logger.Warn("Settlement rejected", slog.String("error", err.Error()), slog.String("party_id", partyID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to settle debt", slog.String("error", err.Error()), slog.String("party_id", partyID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle debt"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// registerPartyRoutes registers party and settlement routes.
func registerPartyRoutes(group *gin.RouterGroup, partyService portssvc.PartySvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newPartyHandler(partyService, ledgerService)

	parties := group.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:partyID", h.getParty)
		parties.PUT("/:partyID", h.updateParty)
		parties.POST("/:partyID/settle", h.settleDebt)
	}
}
