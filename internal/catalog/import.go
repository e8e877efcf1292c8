package catalog

import (
	"context"
	"fmt"

	"minishop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// TxBeginner starts database transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Import loads the named catalogue and upserts it in a single transaction,
// so a bad file never leaves a half-written catalogue behind.
func Import(
	ctx context.Context,
	loader Loader,
	name string,
	db TxBeginner,
	products repository.ProductRepository,
	logger zerolog.Logger,
) (n int, err error) {
	items, err := loader.Load(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		logger.Warn().Str("catalog", name).Msg("catalogue is empty, nothing to import")
		return 0, nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	n, err = products.Upsert(ctx, tx, items)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit catalogue: %w", err)
	}

	logger.Info().Str("catalog", name).Int("products", n).Msg("catalogue imported")

	return n, nil
}
