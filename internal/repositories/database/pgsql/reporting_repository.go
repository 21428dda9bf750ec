package pgsql

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	"github.com/almacenpos/almacen_backend/internal/models"
	"github.com/almacenpos/almacen_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for read-side reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// ListPaymentsWithKind streams payment splits joined with their owning
// transaction's kind, optionally bounded by the transaction creation time.
func (r *PgxReportingRepository) ListPaymentsWithKind(ctx context.Context, from, to *time.Time) ([]domain.PaymentWithKind, error) {
	query := `
		SELECT t.kind, p.method, p.amount
		FROM payment_splits p
		JOIN transactions t ON p.transaction_id = t.transaction_id
		WHERE ($1::timestamptz IS NULL OR t.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR t.created_at <= $2)
		ORDER BY t.created_at, p.position;
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments with kind", err)
	}
	defer rows.Close()

	payments := []domain.PaymentWithKind{}
	for rows.Next() {
		var p domain.PaymentWithKind
		if err := rows.Scan(&p.Kind, &p.Method, &p.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment with kind row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment with kind rows", err)
	}
	return payments, nil
}

// ListSalesWithPayments retrieves SALE transactions created within
// [from, to], oldest first, with payment splits populated.
func (r *PgxReportingRepository) ListSalesWithPayments(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE kind = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, models.Sale, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sales", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sale row", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating sale rows", err)
	}

	sales := mapping.ToDomainTransactionSlice(modelTxns)
	if len(sales) == 0 {
		return sales, nil
	}

	// Batch-fetch the payment splits and group them under their owners.
	transactionIDs := make([]string, len(sales))
	indexByID := make(map[string]int, len(sales))
	for i, sale := range sales {
		transactionIDs[i] = sale.TransactionID
		indexByID[sale.TransactionID] = i
	}

	paymentQuery := `
		SELECT payment_id, transaction_id, method, amount, position, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_splits
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position;
	`
	paymentRows, err := r.pool.Query(ctx, paymentQuery, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment splits for sales", err)
	}
	defer paymentRows.Close()

	for paymentRows.Next() {
		var m models.PaymentSplit
		err := paymentRows.Scan(
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
			return nil, apperrors.NewAppError(500, "failed to scan payment split row for sales", err)
		}
		if i, ok := indexByID[m.TransactionID]; ok {
			sales[i].Payments = append(sales[i].Payments, mapping.ToDomainPaymentSplit(m))
		}
	}
	if err := paymentRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment split rows for sales", err)
	}

	return sales, nil
}
