package domain

import "github.com/shopspring/decimal"

// Category groups catalog products for display purposes.
type Category struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	AuditFields
}

// Product is a catalog item.
//
// A price of zero means the price is entered at sale time. Stock is mutated
// only by ledger postings that carry a product reference, never through
// catalog management.
type Product struct {
	ProductID   string          `json:"productID"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       decimal.Decimal `json:"stock"` // Fractional for weighable items
	CategoryID  *string         `json:"categoryID,omitempty"`
	IsWeighable bool            `json:"isWeighable"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}
