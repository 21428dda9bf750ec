package services

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
)

// CashPositionSvcFacade exposes the cash position projection: a pure fold
// over the payment stream.
type CashPositionSvcFacade interface {
	Project(ctx context.Context, from, to *time.Time) (*domain.CashPosition, error)
}

// ReportingSvcFacade exposes period-bounded sales rollups.
type ReportingSvcFacade interface {
	AggregateSales(ctx context.Context, from, to time.Time) (*domain.SalesReport, error)
}
