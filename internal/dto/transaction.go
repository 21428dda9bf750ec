package dto

import (
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one requested priced quantity within a posting.
type LineRequest struct {
	ProductID *string         `json:"productID,omitempty"`
	Label     string          `json:"label" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// PaymentRequest is one requested payment split within a posting.
type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required"`
	Amount decimal.Decimal      `json:"amount" binding:"required"`
}

// PostTransactionRequest is the full posting request for one commercial
// event: line requests and payment requests are submitted whole, the
// engine never observes intermediate cart state.
type PostTransactionRequest struct {
	Kind           domain.TransactionKind `json:"kind" binding:"required"`
	Description    string                 `json:"description"`
	PartyID        *string                `json:"partyID,omitempty"`
	IdempotencyKey *string                `json:"idempotencyKey,omitempty"`
	Lines          []LineRequest          `json:"lines" binding:"required,min=1,dive"`
	Payments       []PaymentRequest       `json:"payments" binding:"required,min=1,dive"`
}

// ReverseTransactionRequest asks for a counter-entry against a prior
// transaction.
type ReverseTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SettleDebtRequest records a debt collection (client) or debt payment
// (provider) against a party's running balance. The amount is deliberately
// not validated against the current balance; overpayment is recorded as-is.
type SettleDebtRequest struct {
	Amount decimal.Decimal      `json:"amount" binding:"required"`
	Method domain.PaymentMethod `json:"method" binding:"required,oneof=CASH TRANSFER QR"`
	Note   string               `json:"note"`
}

// ListTransactionsParams filters and paginates the transaction list.
type ListTransactionsParams struct {
	Kind             *domain.TransactionKind `form:"kind"`
	PartyID          *string                 `form:"partyID"`
	IncludeReversals bool                    `form:"includeReversals,default=true"`
	IncludeDetails   bool                    `form:"includeDetails"`
	From             *time.Time              `form:"from" time_format:"2006-01-02"`
	To               *time.Time              `form:"to" time_format:"2006-01-02"`
	Limit            int                     `form:"limit,default=20"`
	NextToken        *string                 `form:"nextToken"`
}

// LineItemResponse is the API shape of one line item.
type LineItemResponse struct {
	LineItemID string          `json:"lineItemID"`
	ProductID  *string         `json:"productID,omitempty"`
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// PaymentSplitResponse is the API shape of one payment split.
type PaymentSplitResponse struct {
	PaymentID string               `json:"paymentID"`
	Method    domain.PaymentMethod `json:"method"`
	Amount    decimal.Decimal      `json:"amount"`
}

// TransactionResponse is the API shape of one transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	Kind          domain.TransactionKind   `json:"kind"`
	TotalAmount   decimal.Decimal          `json:"totalAmount"`
	Status        domain.TransactionStatus `json:"status"`
	PartyID       *string                  `json:"partyID,omitempty"`
	ReversalOf    *string                  `json:"reversalOf,omitempty"`
	Description   string                   `json:"description,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
	LineItems     []LineItemResponse       `json:"lineItems,omitempty"`
	Payments      []PaymentSplitResponse   `json:"payments,omitempty"`
}

// ListTransactionsResponse wraps a page of transactions with the cursor for
// the next page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain Transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		Kind:          t.Kind,
		TotalAmount:   t.TotalAmount,
		Status:        t.Status,
		PartyID:       t.PartyID,
		ReversalOf:    t.ReversalOf,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
	if len(t.LineItems) > 0 {
		resp.LineItems = make([]LineItemResponse, len(t.LineItems))
		for i, li := range t.LineItems {
			resp.LineItems[i] = LineItemResponse{
				LineItemID: li.LineItemID,
				ProductID:  li.ProductID,
				Label:      li.Label,
				Quantity:   li.Quantity,
				UnitPrice:  li.UnitPrice,
				TotalPrice: li.TotalPrice,
			}
		}
	}
	if len(t.Payments) > 0 {
		resp.Payments = make([]PaymentSplitResponse, len(t.Payments))
		for i, p := range t.Payments {
			resp.Payments[i] = PaymentSplitResponse{
				PaymentID: p.PaymentID,
				Method:    p.Method,
				Amount:    p.Amount,
			}
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of domain Transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	resps := make([]TransactionResponse, len(ts))
	for i := range ts {
		resps[i] = ToTransactionResponse(&ts[i])
	}
	return resps
}
