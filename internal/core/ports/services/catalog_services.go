package services

import (
	"context"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/almacenpos/almacen_backend/internal/dto"
)

// CatalogSvcFacade exposes catalog management. Stock is read-only here;
// it changes only through ledger postings.
type CatalogSvcFacade interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, updaterID string) (*domain.Product, error)
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorID string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// PartySvcFacade exposes party management. Balance is read-only here; it
// changes only through ledger postings and settlements.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorID string) (*domain.Party, error)
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, updaterID string) (*domain.Party, error)
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error)
}
