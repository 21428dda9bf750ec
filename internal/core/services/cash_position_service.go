package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/almacenpos/almacen_backend/internal/utils/accounting"
)

// cashPositionService projects the cash position by folding over the
// committed payment stream. It holds no state of its own, so the
// projection is read-idempotent: repeated calls over the same committed
// data return the same result.
type cashPositionService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewCashPositionService creates a new CashPositionService.
func NewCashPositionService(reportingRepo portsrepo.ReportingRepository) portssvc.CashPositionSvcFacade {
	return &cashPositionService{reportingRepo: reportingRepo}
}

var _ portssvc.CashPositionSvcFacade = (*cashPositionService)(nil)

// ProjectCashPosition folds a payment stream into a CashPosition.
//
// The in/out side comes from the owning transaction's kind, the bucket
// from the payment method. Payment amounts carry their stored sign, so a
// reversal's negative splits land in the same bucket as the original's
// positive splits and net to zero.
func ProjectCashPosition(payments []domain.PaymentWithKind) domain.CashPosition {
	var pos domain.CashPosition
	for _, p := range payments {
		inflow := accounting.IsInflow(p.Kind)
		switch {
		case p.Method == domain.MethodCash:
			if inflow {
				pos.CashIn = pos.CashIn.Add(p.Amount)
			} else {
				pos.CashOut = pos.CashOut.Add(p.Amount)
			}
		case p.Method == domain.MethodTransfer || p.Method == domain.MethodQR:
			if inflow {
				pos.TransferIn = pos.TransferIn.Add(p.Amount)
			} else {
				pos.TransferOut = pos.TransferOut.Add(p.Amount)
			}
		case p.Method.IsCredit():
			if inflow {
				pos.CreditIn = pos.CreditIn.Add(p.Amount)
			} else {
				pos.CreditOut = pos.CreditOut.Add(p.Amount)
			}
		}
	}
	return pos
}

// Project computes the cash position over the optional [from, to] window.
// Implements portssvc.CashPositionSvcFacade
func (s *cashPositionService) Project(ctx context.Context, from, to *time.Time) (*domain.CashPosition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payments, err := s.reportingRepo.ListPaymentsWithKind(ctx, from, to)
	if err != nil {
		logger.Error("Failed to fetch payment stream for cash position", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}

	pos := ProjectCashPosition(payments)
	logger.Debug("Cash position projected", slog.Int("payment_count", len(payments)))
	return &pos, nil
}
