package repository

import (
	"context"
	"sync"
	"testing"

	"minishop/internal/database/dbtest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindOrCreate(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewUserRepository(zerolog.Nop())
	ctx := context.Background()

	missing, err := repo.FindByIdentifier(ctx, db.Pool, "9876543210")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.FindOrCreate(ctx, db.Pool, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "9876543210", created.Identifier)

	again, err := repo.FindOrCreate(ctx, db.Pool, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	found, err := repo.FindByIdentifier(ctx, db.Pool, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// The cart is created alongside the user
	var carts int
	require.NoError(t, db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM carts WHERE user_id = $1", created.ID).Scan(&carts))
	assert.Equal(t, 1, carts)
}

func TestUserRepository_FindOrCreate_Concurrent(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewUserRepository(zerolog.Nop())
	ctx := context.Background()

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := repo.FindOrCreate(ctx, db.Pool, "5550001234")
			errs[i] = err
			if u != nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}
