package repository

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// adminRepository implements the AdminRepository interface using PostgreSQL.
type adminRepository struct {
	logger zerolog.Logger
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(logger zerolog.Logger) AdminRepository {
	return &adminRepository{
		logger: logger.With().Str("repository", "admin").Logger(),
	}
}

// FindByUsername returns the admin with the given username, or nil if none exists.
func (r *adminRepository) FindByUsername(ctx context.Context, db DBTX, username string) (*model.AdminUser, error) {
	query := `
		SELECT id, username, password, created_at
		FROM admin_users
		WHERE username = $1
	`

	var a model.AdminUser
	err := db.QueryRow(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("username", username).Msg("failed to query admin")
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	return &a, nil
}

// Upsert creates the admin or replaces its password hash.
func (r *adminRepository) Upsert(ctx context.Context, db DBTX, username, passwordHash string) (*model.AdminUser, error) {
	query := `
		INSERT INTO admin_users (username, password)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, updated_at = NOW()
		RETURNING id, username, password, created_at
	`

	var a model.AdminUser
	err := db.QueryRow(ctx, query, username, passwordHash).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to upsert admin")
		return nil, fmt.Errorf("failed to upsert admin: %w", err)
	}

	return &a, nil
}
