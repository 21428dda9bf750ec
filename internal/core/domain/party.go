package domain

import "github.com/shopspring/decimal"

// PartyRole distinguishes clients from providers.
type PartyRole string

const (
	RoleClient   PartyRole = "CLIENT"
	RoleProvider PartyRole = "PROVIDER"
)

// Valid reports whether r is a known party role.
func (r PartyRole) Valid() bool {
	return r == RoleClient || r == RoleProvider
}

// Party is a client or provider with a running balance.
//
// Balance means "amount pending" for both roles: for a client, what they
// owe the business; for a provider, what the business owes them. It is an
// accumulator mutated transactionally alongside ledger postings, not a
// derived value. Overpayment may drive it negative.
type Party struct {
	PartyID  string          `json:"partyID"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone,omitempty"`
	Role     PartyRole       `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive bool            `json:"isActive"`
	AuditFields
}
