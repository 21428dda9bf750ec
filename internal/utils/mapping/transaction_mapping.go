package mapping

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/almacenpos/almacen_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// LineItems and Payments are intentionally not carried; they map to their
// own tables.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Kind:          models.TransactionKind(d.Kind),
		TotalAmount:   d.TotalAmount,
		Status:        models.TransactionStatus(d.Status),
		PartyID:       d.PartyID,
		ReversalOf:    d.ReversalOf,
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Kind:          domain.TransactionKind(m.Kind),
		TotalAmount:   m.TotalAmount,
		Status:        domain.TransactionStatus(m.Status),
		PartyID:       m.PartyID,
		ReversalOf:    m.ReversalOf,
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelLineItem converts a domain LineItem to a model LineItem.
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:    d.LineItemID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		Label:         d.Label,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		TotalPrice:    d.TotalPrice,
		Position:      d.Position,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:    m.LineItemID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Label:         m.Label,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		TotalPrice:    m.TotalPrice,
		Position:      m.Position,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems.
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}

// ToModelPaymentSplit converts a domain PaymentSplit to a model PaymentSplit.
func ToModelPaymentSplit(d domain.PaymentSplit) models.PaymentSplit {
	return models.PaymentSplit{
		PaymentID:     d.PaymentID,
		TransactionID: d.TransactionID,
		Method:        models.PaymentMethod(d.Method),
		Amount:        d.Amount,
		Position:      d.Position,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentSplit converts a model PaymentSplit to a domain PaymentSplit.
func ToDomainPaymentSplit(m models.PaymentSplit) domain.PaymentSplit {
	return domain.PaymentSplit{
		PaymentID:     m.PaymentID,
		TransactionID: m.TransactionID,
		Method:        domain.PaymentMethod(m.Method),
		Amount:        m.Amount,
		Position:      m.Position,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSplitSlice converts a slice of model PaymentSplits.
func ToDomainPaymentSplitSlice(ms []models.PaymentSplit) []domain.PaymentSplit {
	ds := make([]domain.PaymentSplit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentSplit(m)
	}
	return ds
}
