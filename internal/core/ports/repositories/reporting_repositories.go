package repositories

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
)

// ReportingRepository provides the read-side row streams the projector and
// aggregator fold over. Both views are pure reads; they reflect whatever
// is committed at query time.
type ReportingRepository interface {
	// ListPaymentsWithKind streams payment splits joined with their owning
	// transaction's kind, optionally bounded by creation time.
	ListPaymentsWithKind(ctx context.Context, from, to *time.Time) ([]domain.PaymentWithKind, error)

	// ListSalesWithPayments retrieves completed SALE transactions created
	// within [from, to], with payment splits populated.
	ListSalesWithPayments(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}
