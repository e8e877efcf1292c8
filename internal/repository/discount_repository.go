package repository

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const discountColumns = `id, code, user_id, order_number, discount_percent, is_used, used_by_order_id, is_global_order, created_at`

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount code repository.
func NewDiscountRepository(logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// FindByCode returns the discount code with the given string, or nil if none exists.
func (r *discountRepository) FindByCode(ctx context.Context, db DBTX, code string) (*model.DiscountCode, error) {
	rows, err := db.Query(ctx, "SELECT "+discountColumns+" FROM discount_codes WHERE code = $1", code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount code")
		return nil, fmt.Errorf("failed to query discount code: %w", err)
	}

	dc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.DiscountCode])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("discount code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to scan discount code")
		return nil, fmt.Errorf("failed to scan discount code: %w", err)
	}

	return &dc, nil
}

// MarkUsed is a compare-and-swap on the unused state: only the first caller
// for a given code sees an affected row.
func (r *discountRepository) MarkUsed(ctx context.Context, db DBTX, id, orderID int64) (bool, error) {
	query := `
		UPDATE discount_codes
		SET used_by_order_id = $2, is_used = TRUE
		WHERE id = $1 AND used_by_order_id IS NULL AND is_used = FALSE
	`

	tag, err := db.Exec(ctx, query, id, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("discount_code_id", id).
			Int64("order_id", orderID).
			Msg("failed to consume discount code")
		return false, fmt.Errorf("failed to consume discount code: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// InsertIfAbsent inserts an unused code. A taken code string yields no row
// instead of a unique violation, so the surrounding transaction stays usable.
func (r *discountRepository) InsertIfAbsent(ctx context.Context, db DBTX, code *model.DiscountCode) (bool, error) {
	query := `
		INSERT INTO discount_codes (code, user_id, order_number, discount_percent, is_global_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, created_at
	`

	err := db.QueryRow(ctx, query,
		code.Code,
		code.UserID,
		code.OrderNumber,
		code.DiscountPercent,
		code.UserID == nil,
	).Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().
			Err(err).
			Int("order_number", code.OrderNumber).
			Msg("failed to insert discount code")
		return false, fmt.Errorf("failed to insert discount code: %w", err)
	}

	code.IsGlobalOrder = code.UserID == nil
	code.IsUsed = false
	code.UsedByOrderID = nil

	return true, nil
}

// ListByUser returns the user-scoped codes of a user, oldest first.
func (r *discountRepository) ListByUser(ctx context.Context, db DBTX, userID int64) ([]model.DiscountCode, error) {
	return r.list(ctx, db,
		"SELECT "+discountColumns+" FROM discount_codes WHERE user_id = $1 ORDER BY created_at, id",
		userID)
}

// ListUnusedGlobal returns unused global codes targeting the given global order number.
func (r *discountRepository) ListUnusedGlobal(ctx context.Context, db DBTX, orderNumber int) ([]model.DiscountCode, error) {
	return r.list(ctx, db,
		"SELECT "+discountColumns+" FROM discount_codes WHERE is_global_order AND NOT is_used AND order_number = $1 ORDER BY created_at, id",
		orderNumber)
}

// ListAll returns every code, newest first.
func (r *discountRepository) ListAll(ctx context.Context, db DBTX) ([]model.DiscountCode, error) {
	return r.list(ctx, db, "SELECT "+discountColumns+" FROM discount_codes ORDER BY created_at DESC, id DESC")
}

func (r *discountRepository) list(ctx context.Context, db DBTX, query string, args ...any) ([]model.DiscountCode, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discount codes")
		return nil, fmt.Errorf("failed to query discount codes: %w", err)
	}

	codes, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.DiscountCode])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan discount codes")
		return nil, fmt.Errorf("failed to scan discount codes: %w", err)
	}

	return codes, nil
}
