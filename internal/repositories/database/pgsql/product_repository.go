package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	"github.com/almacenpos/almacen_backend/internal/models"
	"github.com/almacenpos/almacen_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `product_id, name, price, stock, category_id, is_weighable, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// newPgxProductRepository creates a new repository for product and category data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{pool: pool}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.Price,
		&m.Stock,
		&m.CategoryID,
		&m.IsWeighable,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	modelProduct := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.Stock,
		modelProduct.CategoryID,
		modelProduct.IsWeighable,
		modelProduct.IsActive,
		modelProduct.CreatedAt,
		modelProduct.CreatedBy,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product with ID %s already exists", apperrors.ErrDuplicate, modelProduct.ProductID)
		}
		return fmt.Errorf("failed to save product %s: %w", modelProduct.ProductID, err)
	}
	return nil
}

// UpdateProduct updates mutable product fields. Stock is untouched here.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	modelProduct := mapping.ToModelProduct(product)

	query := `
		UPDATE products
		SET name = $2, price = $3, category_id = $4, is_weighable = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE product_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.CategoryID,
		modelProduct.IsWeighable,
		modelProduct.IsActive,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update product %s: %w", modelProduct.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`

	m, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	domainProduct := mapping.ToDomainProduct(*m)
	return &domainProduct, nil
}

// FindProductsByIDs retrieves multiple products by their IDs. Missing IDs
// are simply absent from the returned map; the caller decides whether
// that is an error.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row during batch fetch: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows during batch fetch: %w", err)
	}
	return productsMap, nil
}

// ListProducts retrieves a paginated list of active products, optionally
// filtered by category.
func (r *PgxProductRepository) ListProducts(ctx context.Context, categoryID *string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE AND ($1::text IS NULL OR category_id = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, mapping.ToDomainProduct(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// FindProductsByIDsForUpdate retrieves multiple products by IDs and locks
// the rows for update. Must be called within a transaction.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}

	if len(productsMap) != len(productIDs) {
		missing := []string{}
		for _, id := range productIDs {
			if _, found := productsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some products requested for update lock were not found", "missing_products", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested products, missing: %v", apperrors.ErrNotFound, missing)
	}

	return productsMap, nil
}

// AdjustStockInTx applies stock deltas to locked product rows within a transaction.
func (r *PgxProductRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(stockChanges) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET stock = COALESCE(stock, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`

	batch := &pgx.Batch{}
	productIDs := make([]string, 0, len(stockChanges))
	for productID, delta := range stockChanges {
		if !delta.IsZero() {
			batch.Queue(query, productID, delta, now, userID)
			productIDs = append(productIDs, productID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update stock for product %s: %w", productIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: product %s not found during stock update", apperrors.ErrNotFound, productIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock update batch: %w", err)
	}
	return batchErr
}

// SaveCategory inserts a new category.
func (r *PgxProductRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	modelCategory := mapping.ToModelCategory(category)

	query := `
		INSERT INTO categories (category_id, name, color, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		modelCategory.CategoryID,
		modelCategory.Name,
		modelCategory.Color,
		modelCategory.CreatedAt,
		modelCategory.CreatedBy,
		modelCategory.LastUpdatedAt,
		modelCategory.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category with ID %s already exists", apperrors.ErrDuplicate, modelCategory.CategoryID)
		}
		return fmt.Errorf("failed to save category %s: %w", modelCategory.CategoryID, err)
	}
	return nil
}

// ListCategories retrieves all categories ordered by name.
func (r *PgxProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT category_id, name, color, created_at, created_by, last_updated_at, last_updated_by
		FROM categories
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var m models.Category
		err := rows.Scan(
			&m.CategoryID,
			&m.Name,
			&m.Color,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}
