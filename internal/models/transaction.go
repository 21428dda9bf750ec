package models

import "github.com/shopspring/decimal"

// TransactionKind identifies the commercial event a transaction records.
type TransactionKind string

const (
	Sale           TransactionKind = "SALE"
	Expense        TransactionKind = "EXPENSE"
	Income         TransactionKind = "INCOME"
	DebtCollection TransactionKind = "DEBT_COLLECTION"
	DebtPayment    TransactionKind = "DEBT_PAYMENT"
)

// TransactionStatus indicates the state of a transaction row.
type TransactionStatus string

const (
	Completed TransactionStatus = "COMPLETED"
)

// PaymentMethod identifies the instrument of a payment split row.
type PaymentMethod string

const (
	Cash           PaymentMethod = "CASH"
	Transfer       PaymentMethod = "TRANSFER"
	QR             PaymentMethod = "QR"
	CreditCustomer PaymentMethod = "CREDIT_CUSTOMER"
	CreditProvider PaymentMethod = "CREDIT_PROVIDER"
)

// Transaction maps the transactions table. Rows are insert-only.
type Transaction struct {
	TransactionID  string            `db:"transaction_id"`
	Kind           TransactionKind   `db:"kind"`
	TotalAmount    decimal.Decimal   `db:"total_amount"`
	Status         TransactionStatus `db:"status"`
	PartyID        *string           `db:"party_id"`
	ReversalOf     *string           `db:"reversal_of"`
	Description    string            `db:"description"`
	IdempotencyKey *string           `db:"idempotency_key"`
	AuditFields
}

// LineItem maps the line_items table.
type LineItem struct {
	LineItemID    string          `db:"line_item_id"`
	TransactionID string          `db:"transaction_id"`
	ProductID     *string         `db:"product_id"`
	Label         string          `db:"label"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	Position      int             `db:"position"`
	AuditFields
}

// PaymentSplit maps the payment_splits table.
type PaymentSplit struct {
	PaymentID     string          `db:"payment_id"`
	TransactionID string          `db:"transaction_id"`
	Method        PaymentMethod   `db:"method"`
	Amount        decimal.Decimal `db:"amount"`
	Position      int             `db:"position"`
	AuditFields
}
