package accounting

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StockDirection returns the factor applied to a line quantity when
// adjusting product stock for a posting of the given kind.
//
// Sales move goods out (-1); expenses/purchases move goods in (+1); every
// other kind leaves stock untouched. The direction is a property of the
// kind, never inferred from quantity signs — reversals derive the inverse
// from the ORIGINAL kind and negate, so signs are applied exactly once.
func StockDirection(kind domain.TransactionKind) decimal.Decimal {
	switch kind {
	case domain.KindSale:
		return decimal.NewFromInt(-1)
	case domain.KindExpense:
		return decimal.NewFromInt(1)
	default:
		return decimal.Zero
	}
}

// IsInflow reports whether payments on a transaction of the given kind
// bring money into the business.
func IsInflow(kind domain.TransactionKind) bool {
	switch kind {
	case domain.KindSale, domain.KindIncome, domain.KindDebtCollection:
		return true
	default:
		return false
	}
}

// CreditTotal sums the credit-method amounts of the given payment splits.
// This is the amount a posting adds to its referenced party's balance.
func CreditTotal(payments []domain.PaymentSplit) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Method.IsCredit() {
			total = total.Add(p.Amount)
		}
	}
	return total
}
