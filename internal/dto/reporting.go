package dto

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashPositionResponse is the API shape of the cash position projection.
type CashPositionResponse struct {
	CashIn      decimal.Decimal `json:"cashIn"`
	CashOut     decimal.Decimal `json:"cashOut"`
	NetCash     decimal.Decimal `json:"netCash"`
	TransferIn  decimal.Decimal `json:"transferIn"`
	TransferOut decimal.Decimal `json:"transferOut"`
	NetTransfer decimal.Decimal `json:"netTransfer"`
	CreditIn    decimal.Decimal `json:"creditIn"`
	CreditOut   decimal.Decimal `json:"creditOut"`
}

// ToCashPositionResponse converts a domain CashPosition to its API shape.
func ToCashPositionResponse(p *domain.CashPosition) CashPositionResponse {
	return CashPositionResponse{
		CashIn:      p.CashIn,
		CashOut:     p.CashOut,
		NetCash:     p.NetCash(),
		TransferIn:  p.TransferIn,
		TransferOut: p.TransferOut,
		NetTransfer: p.NetTransfer(),
		CreditIn:    p.CreditIn,
		CreditOut:   p.CreditOut,
	}
}

// SalesReportResponse is the API shape of the period sales report.
type SalesReportResponse struct {
	TotalSales       decimal.Decimal      `json:"totalSales"`
	TransactionCount int                  `json:"transactionCount"`
	ByMethod         []domain.MethodTotal `json:"byMethod"`
	ByMonth          []domain.MonthTotal  `json:"byMonth,omitempty"`
}

// ToSalesReportResponse converts a domain SalesReport to its API shape.
func ToSalesReportResponse(r *domain.SalesReport) SalesReportResponse {
	return SalesReportResponse{
		TotalSales:       r.TotalSales,
		TransactionCount: r.TransactionCount,
		ByMethod:         r.ByMethod,
		ByMonth:          r.ByMonth,
	}
}
