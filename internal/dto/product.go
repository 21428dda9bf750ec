package dto

import (
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a catalog product. A zero price means the
// price is captured at sale time.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	InitialStock decimal.Decimal `json:"initialStock"`
	CategoryID   *string         `json:"categoryID,omitempty"`
	IsWeighable  bool            `json:"isWeighable"`
}

// UpdateProductRequest updates mutable product fields. Stock is not
// updatable through this API; only ledger postings touch it.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CategoryID  *string          `json:"categoryID,omitempty"`
	IsWeighable *bool            `json:"isWeighable,omitempty"`
}

// ListProductsParams filters the product list.
type ListProductsParams struct {
	CategoryID *string `form:"categoryID"`
	Limit      int     `form:"limit,default=50"`
	Offset     int     `form:"offset,default=0"`
}

// ProductResponse is the API shape of one product.
type ProductResponse struct {
	ProductID   string          `json:"productID"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       decimal.Decimal `json:"stock"`
	CategoryID  *string         `json:"categoryID,omitempty"`
	IsWeighable bool            `json:"isWeighable"`
	IsActive    bool            `json:"isActive"`
}

// ToProductResponse converts a domain Product to its API shape.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		IsWeighable: p.IsWeighable,
		IsActive:    p.IsActive,
	}
}

// ToProductResponses converts a slice of domain Products.
func ToProductResponses(ps []domain.Product) []ProductResponse {
	resps := make([]ProductResponse, len(ps))
	for i := range ps {
		resps[i] = ToProductResponse(&ps[i])
	}
	return resps
}

// CreateCategoryRequest creates a product category.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CategoryResponse is the API shape of one category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
}

// ToCategoryResponse converts a domain Category to its API shape.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Color:      c.Color,
	}
}
