package domain

import "github.com/shopspring/decimal"

// CashPosition is the point-in-time result of folding the payment stream.
//
// In/out classification follows the owning transaction's kind, and the
// buckets follow the payment method; credit-method amounts are tracked
// separately and excluded from cash/transfer netting.
type CashPosition struct {
	CashIn      decimal.Decimal `json:"cashIn"`
	CashOut     decimal.Decimal `json:"cashOut"`
	TransferIn  decimal.Decimal `json:"transferIn"`
	TransferOut decimal.Decimal `json:"transferOut"`
	CreditIn    decimal.Decimal `json:"creditIn"`
	CreditOut   decimal.Decimal `json:"creditOut"`
}

// NetCash returns cash inflows minus cash outflows.
func (p CashPosition) NetCash() decimal.Decimal {
	return p.CashIn.Sub(p.CashOut)
}

// NetTransfer returns transfer/QR inflows minus outflows.
func (p CashPosition) NetTransfer() decimal.Decimal {
	return p.TransferIn.Sub(p.TransferOut)
}
