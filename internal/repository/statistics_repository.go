package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// statisticsRepository implements the StatisticsRepository interface using PostgreSQL.
type statisticsRepository struct {
	logger zerolog.Logger
}

// NewStatisticsRepository creates a new PostgreSQL-backed statistics repository.
func NewStatisticsRepository(logger zerolog.Logger) StatisticsRepository {
	return &statisticsRepository{
		logger: logger.With().Str("repository", "statistics").Logger(),
	}
}

// Totals sums purchased quantities, final amounts and discount amounts across all orders.
func (r *statisticsRepository) Totals(ctx context.Context, db DBTX) (Totals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(quantity), 0) FROM order_items),
			COALESCE(SUM(final_amount), 0),
			COALESCE(SUM(discount_amount), 0)
		FROM orders
	`

	var t Totals
	err := db.QueryRow(ctx, query).Scan(&t.ItemsPurchased, &t.TotalPurchaseAmount, &t.TotalDiscountAmount)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate order totals")
		return Totals{}, fmt.Errorf("failed to aggregate order totals: %w", err)
	}

	return t, nil
}
