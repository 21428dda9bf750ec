package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// partyService manages clients and providers. Balance is read-only here;
// ledger postings and settlements are the only writers.
type partyService struct {
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty creates a client or provider with a zero opening balance.
// Implements portssvc.PartySvcFacade
func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown party role %q", apperrors.ErrValidation, req.Role)
	}

	now := time.Now().UTC()
	party := domain.Party{
		PartyID:  uuid.NewString(),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
		Balance:  decimal.Zero,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		logger.Error("Failed to save party", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save party: %w", err)
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID), slog.String("role", string(party.Role)))
	return &party, nil
}

// UpdateParty updates mutable party fields; balance and role are fixed.
// Implements portssvc.PartySvcFacade
func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, updaterID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find party for update", slog.String("error", err.Error()), slog.String("party_id", partyID))
		}
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	updated := false
	if req.Name != nil {
		party.Name = *req.Name
		updated = true
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
		updated = true
	}
	if !updated {
		return party, nil
	}

	now := time.Now().UTC()
	party.LastUpdatedAt = now
	party.LastUpdatedBy = updaterID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		logger.Error("Failed to save party update", slog.String("error", err.Error()), slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to save party update: %w", err)
	}

	logger.Info("Party updated", slog.String("party_id", partyID))
	return party, nil
}

// GetPartyByID retrieves one party with its current running balance.
// Implements portssvc.PartySvcFacade
func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	return party, nil
}

// ListParties retrieves a page of parties, optionally by role.
// Implements portssvc.PartySvcFacade
func (s *partyService) ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	parties, err := s.partyRepo.ListParties(ctx, params.Role, limit, offset)
	if err != nil {
		logger.Error("Failed to list parties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve parties: %w", err)
	}
	return parties, nil
}
