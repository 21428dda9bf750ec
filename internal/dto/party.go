package dto

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest creates a new client or provider.
type CreatePartyRequest struct {
	Name  string           `json:"name" binding:"required"`
	Phone string           `json:"phone"`
	Role  domain.PartyRole `json:"role" binding:"required,oneof=CLIENT PROVIDER"`
}

// UpdatePartyRequest updates mutable party fields. Balance is not
// updatable through this API; only ledger postings touch it.
type UpdatePartyRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ListPartiesParams filters the party list.
type ListPartiesParams struct {
	Role   *domain.PartyRole `form:"role"`
	Limit  int               `form:"limit,default=50"`
	Offset int               `form:"offset,default=0"`
}

// PartyResponse is the API shape of one party.
type PartyResponse struct {
	PartyID  string           `json:"partyID"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone,omitempty"`
	Role     domain.PartyRole `json:"role"`
	Balance  decimal.Decimal  `json:"balance"`
	IsActive bool             `json:"isActive"`
}

// ToPartyResponse converts a domain Party to its API shape.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:  p.PartyID,
		Name:     p.Name,
		Phone:    p.Phone,
		Role:     p.Role,
		Balance:  p.Balance,
		IsActive: p.IsActive,
	}
}

// ToPartyResponses converts a slice of domain Parties.
func ToPartyResponses(ps []domain.Party) []PartyResponse {
	resps := make([]PartyResponse, len(ps))
	for i := range ps {
		resps[i] = ToPartyResponse(&ps[i])
	}
	return resps
}
