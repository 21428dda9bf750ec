package repositories

import (
	"context"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for catalog products.
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
	ListProducts(ctx context.Context, categoryID *string, limit, offset int) ([]domain.Product, error)
}

// ProductWriter defines catalog write operations. Stock is deliberately
// absent here: it is only adjusted through the in-transaction methods
// below, driven by the ledger.
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
}

// ProductStockTx defines the stock accumulator operations that run inside
// a ledger posting's database transaction.
type ProductStockTx interface {
	// FindProductsByIDsForUpdate locks the product rows for update and
	// returns them. Missing IDs yield ErrNotFound.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// AdjustStockInTx applies the given stock deltas to the locked rows.
	AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// CategoryRepository defines category persistence.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// ProductRepositoryFacade combines all product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductStockTx
	CategoryRepository
}
