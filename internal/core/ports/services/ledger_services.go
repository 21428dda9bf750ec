package services

import (
	"context"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/almacenpos/almacen_backend/internal/dto"
)

// LedgerSvcFacade exposes the posting API: the only write path into the
// transaction graph and its stock/balance accumulators.
type LedgerSvcFacade interface {
	// Post validates and posts one commercial event as a single atomic
	// unit. Validation failures surface as ErrPostingRejected; write
	// failures as ErrPostingFailed with no partial state visible.
	Post(ctx context.Context, req dto.PostTransactionRequest, creatorID string) (*domain.Transaction, error)

	// Reverse emits a counter-entry against a prior positive transaction,
	// restoring stock and undoing credit balance increments. A transaction
	// can be reversed at most once, and reversals themselves cannot be
	// reversed.
	Reverse(ctx context.Context, originalID string, reason string, creatorID string) (*domain.Transaction, error)

	// SettleDebt posts a DEBT_COLLECTION (client) or DEBT_PAYMENT
	// (provider) transaction, decreasing the party's running balance.
	SettleDebt(ctx context.Context, partyID string, req dto.SettleDebtRequest, creatorID string) (*domain.Transaction, error)

	// GetTransaction retrieves one transaction with line items and
	// payment splits populated.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of
	// transactions, newest first.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
