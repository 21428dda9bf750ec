package repositories

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PartyReader defines read operations for parties.
type PartyReader interface {
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, role *domain.PartyRole, limit, offset int) ([]domain.Party, error)
}

// PartyWriter defines party write operations. Balance is deliberately
// absent here: it is only adjusted through the in-transaction method
// below, driven by the ledger.
type PartyWriter interface {
	SaveParty(ctx context.Context, party domain.Party) error
	UpdateParty(ctx context.Context, party domain.Party) error
}

// PartyBalanceTx defines the balance accumulator operations that run
// inside a ledger posting's database transaction.
type PartyBalanceTx interface {
	// FindPartyByIDForUpdate locks the party row for update and returns it.
	FindPartyByIDForUpdate(ctx context.Context, tx pgx.Tx, partyID string) (*domain.Party, error)

	// AdjustBalanceInTx applies the given balance delta to the locked row.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error
}

// PartyRepositoryFacade combines all party repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
	PartyBalanceTx
}
