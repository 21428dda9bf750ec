package accounting_test

import (
	"testing"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/almacenpos/almacen_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockDirection(t *testing.T) {
	assert.True(t, accounting.StockDirection(domain.KindSale).Equal(decimal.NewFromInt(-1)))
	assert.True(t, accounting.StockDirection(domain.KindExpense).Equal(decimal.NewFromInt(1)))
	assert.True(t, accounting.StockDirection(domain.KindIncome).IsZero())
	assert.True(t, accounting.StockDirection(domain.KindDebtCollection).IsZero())
	assert.True(t, accounting.StockDirection(domain.KindDebtPayment).IsZero())
}

func TestIsInflow(t *testing.T) {
	assert.True(t, accounting.IsInflow(domain.KindSale))
	assert.True(t, accounting.IsInflow(domain.KindIncome))
	assert.True(t, accounting.IsInflow(domain.KindDebtCollection))
	assert.False(t, accounting.IsInflow(domain.KindExpense))
	assert.False(t, accounting.IsInflow(domain.KindDebtPayment))
}

func TestCreditTotal(t *testing.T) {
	payments := []domain.PaymentSplit{
		{Method: domain.MethodCash, Amount: decimal.NewFromInt(10)},
		{Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(25)},
		{Method: domain.MethodQR, Amount: decimal.NewFromInt(5)},
		{Method: domain.MethodCreditProvider, Amount: decimal.NewFromInt(15)},
	}

	assert.True(t, accounting.CreditTotal(payments).Equal(decimal.NewFromInt(40)))
	assert.True(t, accounting.CreditTotal(nil).IsZero())
}
