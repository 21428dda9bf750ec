package mapping

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/almacenpos/almacen_backend/internal/models"
)

// ToModelParty converts a domain Party to a model Party.
func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:     d.PartyID,
		Name:        d.Name,
		Phone:       d.Phone,
		Role:        models.PartyRole(d.Role),
		Balance:     d.Balance,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainParty converts a model Party to a domain Party.
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:     m.PartyID,
		Name:        m.Name,
		Phone:       m.Phone,
		Role:        domain.PartyRole(m.Role),
		Balance:     m.Balance,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartySlice converts a slice of model Parties.
func ToDomainPartySlice(ms []models.Party) []domain.Party {
	ds := make([]domain.Party, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainParty(m)
	}
	return ds
}
