package domain

import "github.com/shopspring/decimal"

// TransactionKind identifies the commercial event a transaction records.
type TransactionKind string

const (
	KindSale           TransactionKind = "SALE"
	KindExpense        TransactionKind = "EXPENSE"
	KindIncome         TransactionKind = "INCOME"
	KindDebtCollection TransactionKind = "DEBT_COLLECTION"
	KindDebtPayment    TransactionKind = "DEBT_PAYMENT"
)

// Valid reports whether k is one of the known transaction kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindSale, KindExpense, KindIncome, KindDebtCollection, KindDebtPayment:
		return true
	}
	return false
}

// IsSettlement reports whether k settles a party's outstanding balance.
func (k TransactionKind) IsSettlement() bool {
	return k == KindDebtCollection || k == KindDebtPayment
}

// TransactionStatus indicates the state of a transaction.
// Posting is atomic, so every persisted transaction is COMPLETED.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
)

// PaymentMethod identifies the instrument used for one payment split.
type PaymentMethod string

const (
	MethodCash           PaymentMethod = "CASH"
	MethodTransfer       PaymentMethod = "TRANSFER"
	MethodQR             PaymentMethod = "QR"
	MethodCreditCustomer PaymentMethod = "CREDIT_CUSTOMER"
	MethodCreditProvider PaymentMethod = "CREDIT_PROVIDER"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodQR, MethodCreditCustomer, MethodCreditProvider:
		return true
	}
	return false
}

// IsCredit reports whether the method records debt against a party
// instead of moving cash or bank money.
func (m PaymentMethod) IsCredit() bool {
	return m == MethodCreditCustomer || m == MethodCreditProvider
}

// Transaction is an immutable record of one commercial event.
// It is never updated or deleted after creation; the only later event that
// can affect it is the creation of a separate counter-entry referencing it
// through ReversalOf.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	Kind          TransactionKind   `json:"kind"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"` // Positive for originals, negative for reversals
	Status        TransactionStatus `json:"status"`
	PartyID       *string           `json:"partyID,omitempty"`    // Weak reference to a Party
	ReversalOf    *string           `json:"reversalOf,omitempty"` // Set only on counter-entries
	Description   string            `json:"description"`
	AuditFields

	// Populated on demand; not loaded by header queries.
	LineItems []LineItem     `json:"lineItems,omitempty"`
	Payments  []PaymentSplit `json:"payments,omitempty"`
}

// IsReversal reports whether t is a counter-entry.
func (t Transaction) IsReversal() bool {
	return t.ReversalOf != nil
}

// LineItem is one priced quantity within a transaction, created together
// with its owning transaction and never mutated independently.
type LineItem struct {
	LineItemID    string          `json:"lineItemID"`
	TransactionID string          `json:"transactionID"`
	ProductID     *string         `json:"productID,omitempty"` // Absent for manual/free-text entries
	Label         string          `json:"label"`
	Quantity      decimal.Decimal `json:"quantity"` // Fractional for weighable goods
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"` // unit_price * quantity, sign follows the transaction
	Position      int             `json:"position"`   // Preserves request order
	AuditFields
}

// PaymentSplit is one instrument-tagged portion of how a transaction was settled.
type PaymentSplit struct {
	PaymentID     string          `json:"paymentID"`
	TransactionID string          `json:"transactionID"`
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"` // Sign follows the transaction
	Position      int             `json:"position"`
	AuditFields
}

// PaymentWithKind pairs a payment split with its owning transaction's kind.
// It is the row shape the cash position projector folds over.
type PaymentWithKind struct {
	Kind   TransactionKind `json:"kind"`
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}
