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
	"github.com/shopspring/decimal"
)

// methodOrder fixes the ByMethod output order.
var methodOrder = []domain.PaymentMethod{
	domain.MethodCash,
	domain.MethodTransfer,
	domain.MethodQR,
	domain.MethodCreditCustomer,
	domain.MethodCreditProvider,
}

// reportingService rolls up completed sale transactions over a period.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AggregateSales folds the SALE transactions created within [from, to]
// into a report. Reversal counter-entries fold in with their negative
// amounts, so a reversed sale nets out of every total.
// Implements portssvc.ReportingSvcFacade
func (s *reportingService) AggregateSales(ctx context.Context, from, to time.Time) (*domain.SalesReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sales, err := s.reportingRepo.ListSalesWithPayments(ctx, from, to)
	if err != nil {
		logger.Error("Failed to fetch sales for report", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	report := &domain.SalesReport{
		TotalSales:       decimal.Zero,
		TransactionCount: len(sales),
	}

	byMethod := make(map[domain.PaymentMethod]decimal.Decimal)
	byMonth := make(map[string]decimal.Decimal)
	monthLabels := make([]string, 0)

	for _, sale := range sales {
		report.TotalSales = report.TotalSales.Add(sale.TotalAmount)
		for _, p := range sale.Payments {
			byMethod[p.Method] = byMethod[p.Method].Add(p.Amount)
		}
		month := monthLabel(sale.CreatedAt)
		if _, seen := byMonth[month]; !seen {
			monthLabels = append(monthLabels, month)
		}
		byMonth[month] = byMonth[month].Add(sale.TotalAmount)
	}

	for _, method := range methodOrder {
		if amount, ok := byMethod[method]; ok {
			report.ByMethod = append(report.ByMethod, domain.MethodTotal{Method: method, Amount: amount})
		}
	}

	// The monthly breakdown only appears when the requested window spans
	// more than one calendar month.
	if spansMultipleMonths(from, to) {
		for _, label := range monthLabels {
			report.ByMonth = append(report.ByMonth, domain.MonthTotal{Month: label, Total: byMonth[label]})
		}
	}

	logger.Debug("Sales aggregated",
		slog.Int("transaction_count", report.TransactionCount),
		slog.String("total_sales", report.TotalSales.String()),
	)
	return report, nil
}

// monthLabel formats a timestamp's calendar month, e.g. "January 2026".
func monthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// spansMultipleMonths reports whether from and to fall in different
// calendar months.
func spansMultipleMonths(from, to time.Time) bool {
	return from.Year() != to.Year() || from.Month() != to.Month()
}
