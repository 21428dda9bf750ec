package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
)

// catalogService manages products and categories. Stock is read-only
// here; ledger postings are the only writers.
type catalogService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo portsrepo.ProductRepositoryFacade) portssvc.CatalogSvcFacade {
	return &catalogService{productRepo: productRepo}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

// CreateProduct creates a catalog product with its opening stock.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	if req.InitialStock.IsNegative() {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:   uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.InitialStock,
		CategoryID:  req.CategoryID,
		IsWeighable: req.IsWeighable,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		logger.Error("Failed to save product", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	logger.Info("Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

// UpdateProduct updates mutable product fields; stock is never touched here.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, updaterID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find product for update", slog.String("error", err.Error()), slog.String("product_id", productID))
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	updated := false
	if req.Name != nil {
		product.Name = *req.Name
		updated = true
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
		}
		product.Price = *req.Price
		updated = true
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
		updated = true
	}
	if req.IsWeighable != nil {
		product.IsWeighable = *req.IsWeighable
		updated = true
	}
	if !updated {
		return product, nil
	}

	now := time.Now().UTC()
	product.LastUpdatedAt = now
	product.LastUpdatedBy = updaterID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to save product update", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to save product update: %w", err)
	}

	logger.Info("Product updated", slog.String("product_id", productID))
	return product, nil
}

// GetProductByID retrieves one product.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts retrieves a page of products, optionally by category.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.ListProducts(ctx, params.CategoryID, limit, offset)
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// CreateCategory creates a product category.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorID string) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		Name:       req.Name,
		Color:      req.Color,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.productRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

// ListCategories retrieves all categories.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}
