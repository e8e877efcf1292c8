package repository

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(logger zerolog.Logger) UserRepository {
	return &userRepository{
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// FindByIdentifier returns the user with the given mobile number, or nil if none exists.
func (r *userRepository) FindByIdentifier(ctx context.Context, db DBTX, identifier string) (*model.User, error) {
	query := `
		SELECT id, mobile_no, created_at
		FROM users
		WHERE mobile_no = $1
	`

	var u model.User
	err := db.QueryRow(ctx, query, identifier).Scan(&u.ID, &u.Identifier, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("mobile_no", identifier).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("mobile_no", identifier).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// FindOrCreate upserts the user and its cart. The no-op update on conflict makes
// RETURNING yield the existing row, so concurrent first visits converge on one user.
func (r *userRepository) FindOrCreate(ctx context.Context, db DBTX, identifier string) (*model.User, error) {
	query := `
		WITH u AS (
			INSERT INTO users (mobile_no)
			VALUES ($1)
			ON CONFLICT (mobile_no) DO UPDATE SET mobile_no = EXCLUDED.mobile_no
			RETURNING id, mobile_no, created_at
		), c AS (
			INSERT INTO carts (user_id)
			SELECT id FROM u
			ON CONFLICT (user_id) DO NOTHING
		)
		SELECT id, mobile_no, created_at FROM u
	`

	var u model.User
	if err := db.QueryRow(ctx, query, identifier).Scan(&u.ID, &u.Identifier, &u.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("mobile_no", identifier).Msg("failed to resolve user")
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return &u, nil
}
