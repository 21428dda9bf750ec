package domain

import "github.com/shopspring/decimal"

// MethodTotal is the summed payment amount for one payment method.
type MethodTotal struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthTotal is the summed sales amount for one calendar month.
type MonthTotal struct {
	Month string          `json:"month"` // e.g. "January 2026"
	Total decimal.Decimal `json:"total"`
}

// SalesReport is a period-bounded rollup over completed sale transactions.
// ByMonth is populated only when the report window spans more than one
// calendar month.
type SalesReport struct {
	TotalSales       decimal.Decimal `json:"totalSales"`
	TransactionCount int             `json:"transactionCount"`
	ByMethod         []MethodTotal   `json:"byMethod"`
	ByMonth          []MonthTotal    `json:"byMonth,omitempty"`
}
