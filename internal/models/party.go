package models

import "github.com/shopspring/decimal"

// PartyRole distinguishes clients from providers.
type PartyRole string

const (
	Client   PartyRole = "CLIENT"
	Provider PartyRole = "PROVIDER"
)

// Party maps the parties table. Balance is a transactionally-maintained
// accumulator, only ever touched inside a ledger posting write.
type Party struct {
	PartyID  string          `db:"party_id"`
	Name     string          `db:"name"`
	Phone    string          `db:"phone"`
	Role     PartyRole       `db:"role"`
	Balance  decimal.Decimal `db:"balance"`
	IsActive bool            `db:"is_active"`
	AuditFields
}
