package repository

import (
	"context"
	"testing"

	"minishop/internal/database/dbtest"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_Upsert(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewAdminRepository(zerolog.Nop())
	ctx := context.Background()

	missing, err := repo.FindByUsername(ctx, db.Pool, "root")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.Upsert(ctx, db.Pool, "root", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "root", created.Username)

	updated, err := repo.Upsert(ctx, db.Pool, "root", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.FindByUsername(ctx, db.Pool, "root")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hash-2", found.PasswordHash)
}

func TestStatisticsRepository_Totals(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewStatisticsRepository(zerolog.Nop())
	ctx := context.Background()

	empty, err := repo.Totals(ctx, db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.ItemsPurchased)
	assert.True(t, empty.TotalPurchaseAmount.IsZero())

	userID := db.SeedUser(t, "7000000001")
	productID := db.SeedProduct(t, "Widget", "50.00", 10)

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO orders (id, user_id, total_amount, discount_amount, final_amount, shipping_address)
		VALUES (1, $1, 100, 10, 90, 'x'), (2, $1, 50, 0, 50, 'y')
	`, userID)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES (1, $1, 2, 50), (2, $1, 1, 50)
	`, productID)
	require.NoError(t, err)

	totals, err := repo.Totals(ctx, db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 3, totals.ItemsPurchased)
	assert.True(t, decimal.NewFromInt(140).Equal(totals.TotalPurchaseAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(totals.TotalDiscountAmount))
}
