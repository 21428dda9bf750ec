package repositories

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChange is the party balance delta a posting carries into the
// atomic write. Nil means the posting does not touch any balance.
type BalanceChange struct {
	PartyID string
	Delta   decimal.Decimal
}

// ListTransactionsFilter narrows transaction listing.
type ListTransactionsFilter struct {
	Kind    *domain.TransactionKind
	PartyID *string
	// ExcludeReversals drops counter-entries from the listing; originals
	// remain visible even after they have been reversed.
	ExcludeReversals bool
	From             *time.Time
	To               *time.Time
}

// LedgerReader defines read operations over the transaction graph.
type LedgerReader interface {
	// FindTransactionByID retrieves a transaction header by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindLineItemsByTransactionID retrieves a transaction's line items in
	// their original posting order.
	FindLineItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.LineItem, error)

	// FindPaymentSplitsByTransactionID retrieves a transaction's payment
	// splits in their original posting order.
	FindPaymentSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentSplit, error)

	// FindReversalOf returns the counter-entry referencing the given
	// original, or ErrNotFound when none exists.
	FindReversalOf(ctx context.Context, originalID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transaction headers, newest
	// first, using token-based pagination.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines the single write operation of the ledger: one
// atomic unit covering the transaction, its line items and payment splits,
// and the stock/balance accumulator deltas. Either everything commits or
// nothing is observable.
type LedgerWriter interface {
	SavePosting(ctx context.Context, txn domain.Transaction, items []domain.LineItem, payments []domain.PaymentSplit, idempotencyKey *string, stockChanges map[string]decimal.Decimal, balanceChange *BalanceChange) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
