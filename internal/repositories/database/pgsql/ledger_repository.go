package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	"github.com/almacenpos/almacen_backend/internal/models"
	"github.com/almacenpos/almacen_backend/internal/utils/mapping"
	"github.com/almacenpos/almacen_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, kind, total_amount, status, party_id, reversal_of, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for the transaction graph.
// It takes the product and party repositories so that posting writes can
// lock and adjust the stock/balance accumulators inside its transaction.
func newPgxLedgerRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		partyRepo:      partyRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SavePosting writes one posting as a single database transaction: the
// transaction header, its line items and payment splits, and the stock and
// balance accumulator updates. Affected product and party rows are locked
// for update so concurrent postings serialize on them.
func (r *PgxLedgerRepository) SavePosting(ctx context.Context, txn domain.Transaction, items []domain.LineItem, payments []domain.PaymentSplit, idempotencyKey *string, stockChanges map[string]decimal.Decimal, balanceChange *portsrepo.BalanceChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := txn.CreatedAt
	userID := txn.CreatedBy

	// 1. Insert the transaction header. The unique indexes on
	// idempotency_key and reversal_of surface replays and concurrent
	// reversals as unique violations here.
	modelTxn := mapping.ToModelTransaction(txn)
	modelTxn.IdempotencyKey = idempotencyKey
	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, headerQuery,
		modelTxn.TransactionID,
		modelTxn.Kind,
		modelTxn.TotalAmount,
		modelTxn.Status,
		modelTxn.PartyID,
		modelTxn.ReversalOf,
		modelTxn.Description,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
		modelTxn.IdempotencyKey,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction conflicts with an existing posting", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	// 2. Lock affected product rows and apply stock deltas.
	if len(stockChanges) > 0 {
		productIDs := make([]string, 0, len(stockChanges))
		for productID := range stockChanges {
			productIDs = append(productIDs, productID)
		}
		if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			return apperrors.NewAppError(500, "failed to lock products for update", err)
		}
		if err := r.productRepo.AdjustStockInTx(ctx, tx, stockChanges, userID, now); err != nil {
			return apperrors.NewAppError(500, "failed to update product stock", err)
		}
	}

	// 3. Lock the party row and apply the balance delta.
	if balanceChange != nil {
		if _, err := r.partyRepo.FindPartyByIDForUpdate(ctx, tx, balanceChange.PartyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			return apperrors.NewAppError(500, "failed to lock party for update", err)
		}
		if err := r.partyRepo.AdjustBalanceInTx(ctx, tx, balanceChange.PartyID, balanceChange.Delta, userID, now); err != nil {
			return apperrors.NewAppError(500, "failed to update party balance", err)
		}
	}

	// 4. Batch-insert line items and payment splits in request order.
	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO line_items (line_item_id, transaction_id, product_id, label, quantity, unit_price, total_price, position, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, item := range items {
		modelItem := mapping.ToModelLineItem(item)
		batch.Queue(itemQuery,
			modelItem.LineItemID,
			modelItem.TransactionID,
			modelItem.ProductID,
			modelItem.Label,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.TotalPrice,
			modelItem.Position,
			modelItem.CreatedAt,
			modelItem.CreatedBy,
			modelItem.LastUpdatedAt,
			modelItem.LastUpdatedBy,
		)
	}

	paymentQuery := `
		INSERT INTO payment_splits (payment_id, transaction_id, method, amount, position, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, payment := range payments {
		modelPayment := mapping.ToModelPaymentSplit(payment)
		batch.Queue(paymentQuery,
			modelPayment.PaymentID,
			modelPayment.TransactionID,
			modelPayment.Method,
			modelPayment.Amount,
			modelPayment.Position,
			modelPayment.CreatedAt,
			modelPayment.CreatedBy,
			modelPayment.LastUpdatedAt,
			modelPayment.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute detail batch for transaction "+modelTxn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Kind,
		&m.TotalAmount,
		&m.Status,
		&m.PartyID,
		&m.ReversalOf,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindTransactionByID retrieves a transaction header by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(*m)
	return &domainTxn, nil
}

// FindReversalOf returns the counter-entry referencing the given original.
func (r *PgxLedgerRepository) FindReversalOf(ctx context.Context, originalID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reversal_of = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, originalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reversal of transaction "+originalID, err)
	}

	domainTxn := mapping.ToDomainTransaction(*m)
	return &domainTxn, nil
}

// FindLineItemsByTransactionID retrieves a transaction's line items in
// posting order.
func (r *PgxLedgerRepository) FindLineItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.LineItem, error) {
	query := `
		SELECT line_item_id, transaction_id, product_id, label, quantity, unit_price, total_price, position, created_at, created_by, last_updated_at, last_updated_by
		FROM line_items
		WHERE transaction_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for transaction "+transactionID, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var m models.LineItem
		err := rows.Scan(
			&m.LineItemID,
			&m.TransactionID,
			&m.ProductID,
			&m.Label,
			&m.Quantity,
			&m.UnitPrice,
			&m.TotalPrice,
			&m.Position,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for transaction "+transactionID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for transaction "+transactionID, err)
	}
	return mapping.ToDomainLineItemSlice(items), nil
}

// FindPaymentSplitsByTransactionID retrieves a transaction's payment
// splits in posting order.
func (r *PgxLedgerRepository) FindPaymentSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentSplit, error) {
	query := `
		SELECT payment_id, transaction_id, method, amount, position, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_splits
		WHERE transaction_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment splits for transaction "+transactionID, err)
	}
	defer rows.Close()

	payments := []models.PaymentSplit{}
	for rows.Next() {
		var m models.PaymentSplit
		err := rows.Scan(
			&m.PaymentID,
			&m.TransactionID,
			&m.Method,
			&m.Amount,
			&m.Position,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment split row for transaction "+transactionID, err)
		}
		payments = append(payments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment split rows for transaction "+transactionID, err)
	}
	return mapping.ToDomainPaymentSplitSlice(payments), nil
}

// ListTransactions retrieves a page of transaction headers, newest first,
// using token-based pagination over (created_at, transaction_id).
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}

	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		query += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if filter.PartyID != nil {
		args = append(args, *filter.PartyID)
		query += ` AND party_id = $` + strconv.Itoa(len(args))
	}
	if filter.ExcludeReversals {
		query += ` AND reversal_of IS NULL`
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
		results = modelTxns[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
