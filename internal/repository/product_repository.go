package repository

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(logger zerolog.Logger) ProductRepository {
	return &productRepository{
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List returns a page of products ordered by id.
func (r *productRepository) List(ctx context.Context, db DBTX, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, stock, image
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(rows)
}

// Count returns the number of products.
func (r *productRepository) Count(ctx context.Context, db DBTX) (int, error) {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Search returns products whose name contains query, case-insensitively.
func (r *productRepository) Search(ctx context.Context, db DBTX, query string, limit int) ([]model.Product, error) {
	sql := `
		SELECT id, name, price, stock, image
		FROM products
		WHERE LOWER(name) LIKE '%' || LOWER($1) || '%'
		ORDER BY name
		LIMIT $2
	`

	rows, err := db.Query(ctx, sql, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, db DBTX, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock, image
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// FindMissing returns the ids among ids that have no product row.
func (r *productRepository) FindMissing(ctx context.Context, db DBTX, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT wanted.id
		FROM UNNEST($1::BIGINT[]) AS wanted(id)
		LEFT JOIN products p ON p.id = wanted.id
		WHERE p.id IS NULL
		ORDER BY wanted.id
	`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate products exist")
		return nil, fmt.Errorf("failed to validate products exist: %w", err)
	}

	missing, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan missing product ids: %w", err)
	}

	if len(missing) > 0 {
		r.logger.Warn().
			Int("expected", len(ids)).
			Int("missing", len(missing)).
			Msg("not all product IDs exist")
	}

	return missing, nil
}

// DecrementStock subtracts each line's quantity from its product's stock.
// The guard in the WHERE clause keeps stock non-negative even if a concurrent
// writer got between validation and the update.
func (r *productRepository) DecrementStock(ctx context.Context, db DBTX, lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.ProductID, line.Quantity)
	}

	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for _, line := range lines {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Int64("product_id", line.ProductID).
				Msg("failed to decrement stock")
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			r.logger.Warn().
				Int64("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("stock no longer covers quantity")
			return model.NewInsufficientStockError(line.Name)
		}
	}

	r.logger.Debug().Int("count", len(lines)).Msg("stock decremented")

	return nil
}

// Upsert inserts or updates products by id and moves the id sequence past the highest id.
func (r *productRepository) Upsert(ctx context.Context, db DBTX, products []model.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (id, name, price, stock, image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, stock = EXCLUDED.stock, image = EXCLUDED.image
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Price, p.Stock, p.Image)
	}
	batch.Queue("SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))")

	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to upsert product")
			return 0, fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
		}
	}
	if _, err := results.Exec(); err != nil {
		return 0, fmt.Errorf("failed to advance product id sequence: %w", err)
	}

	return len(products), nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
