package models

import "github.com/shopspring/decimal"

// Category maps the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	Name       string `db:"name"`
	Color      string `db:"color"`
	AuditFields
}

// Product maps the products table. Stock is a transactionally-maintained
// accumulator, only ever touched inside a ledger posting write.
type Product struct {
	ProductID   string          `db:"product_id"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	Stock       decimal.Decimal `db:"stock"`
	CategoryID  *string         `db:"category_id"`
	IsWeighable bool            `db:"is_weighable"`
	IsActive    bool            `db:"is_active"`
	AuditFields
}
