package repository

import (
	"context"
	"fmt"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(logger zerolog.Logger) CartRepository {
	return &cartRepository{
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// LoadLines returns the cart rows of a user joined with live product data.
// With lock set, the carts row is locked first so that concurrent checkouts of
// the same cart run one after another and each reads the lines the previous
// one left behind.
func (r *cartRepository) LoadLines(ctx context.Context, db DBTX, userID int64, lock bool) ([]model.CartLine, error) {
	if lock {
		if _, err := db.Exec(ctx, "SELECT 1 FROM carts WHERE user_id = $1 FOR UPDATE", userID); err != nil {
			r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to lock cart")
			return nil, fmt.Errorf("failed to lock cart: %w", err)
		}
	}

	query := `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.id
	`
	if lock {
		query += " FOR UPDATE OF ci, p"
	}

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Name, &l.UnitPrice, &l.CurrentStock, &l.Image); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// ReplaceItems deletes every cart row of the user and inserts the given ones.
func (r *cartRepository) ReplaceItems(ctx context.Context, db DBTX, userID int64, items []model.CartItemUpdate) error {
	// The carts row is touched first so replacement and checkout lock in the same order.
	batch := &pgx.Batch{}
	batch.Queue("UPDATE carts SET updated_at = NOW() WHERE user_id = $1", userID)
	batch.Queue("DELETE FROM cart_items WHERE cart_id = $1", userID)
	for _, item := range items {
		batch.Queue(
			"INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)",
			userID, item.ProductID, item.Quantity,
		)
	}

	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to replace cart items")
			return fmt.Errorf("failed to replace cart items: %w", err)
		}
	}

	r.logger.Debug().
		Int64("user_id", userID).
		Int("count", len(items)).
		Msg("cart items replaced")

	return nil
}

// Clear deletes every cart row of the user.
func (r *cartRepository) Clear(ctx context.Context, db DBTX, userID int64) (int64, error) {
	tag, err := db.Exec(ctx, "DELETE FROM cart_items WHERE cart_id = $1", userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return tag.RowsAffected(), nil
}
