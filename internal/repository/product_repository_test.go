package repository

import (
	"context"
	"testing"

	"minishop/internal/database/dbtest"
	"minishop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_ListAndCount(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"Apple", "Banana", "Cherry", "Date", "Elderberry"} {
		db.SeedProduct(t, name, "1.50", 10)
	}

	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedNames []string
	}{
		{name: "First page", limit: 2, offset: 0, expectedNames: []string{"Apple", "Banana"}},
		{name: "Second page", limit: 2, offset: 2, expectedNames: []string{"Cherry", "Date"}},
		{name: "Last partial page", limit: 2, offset: 4, expectedNames: []string{"Elderberry"}},
		{name: "Past the end", limit: 2, offset: 10, expectedNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(ctx, db.Pool, tt.limit, tt.offset)
			require.NoError(t, err)

			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}

	count, err := repo.Count(ctx, db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestProductRepository_Search(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	db.SeedProduct(t, "Green Tea", "4.00", 5)
	db.SeedProduct(t, "Black TEA", "3.00", 5)
	db.SeedProduct(t, "Coffee", "6.00", 5)

	products, err := repo.Search(ctx, db.Pool, "tea", 10)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Black TEA", products[0].Name)
	assert.Equal(t, "Green Tea", products[1].Name)

	products, err = repo.Search(ctx, db.Pool, "juice", 10)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_GetByID(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	id := db.SeedProduct(t, "Teapot", "19.99", 3)

	product, err := repo.GetByID(ctx, db.Pool, id)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Teapot", product.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(product.Price))
	assert.Equal(t, 3, product.Stock)
	assert.Nil(t, product.Image)

	product, err = repo.GetByID(ctx, db.Pool, id+100)
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductRepository_FindMissing(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	a := db.SeedProduct(t, "A", "1.00", 1)
	b := db.SeedProduct(t, "B", "1.00", 1)

	tests := []struct {
		name     string
		ids      []int64
		expected []int64
	}{
		{name: "All exist", ids: []int64{a, b}, expected: []int64{}},
		{name: "Some missing", ids: []int64{a, 999, 998}, expected: []int64{998, 999}},
		{name: "Empty input", ids: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, err := repo.FindMissing(ctx, db.Pool, tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, missing)
		})
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	mug := db.SeedProduct(t, "Mug", "8.00", 5)
	bowl := db.SeedProduct(t, "Bowl", "12.00", 1)

	t.Run("Decrements every line", func(t *testing.T) {
		err := repo.DecrementStock(ctx, db.Pool, []model.CartLine{
			{ProductID: mug, Name: "Mug", Quantity: 2},
			{ProductID: bowl, Name: "Bowl", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, db.Stock(t, mug))
		assert.Equal(t, 0, db.Stock(t, bowl))
	})

	t.Run("Rejects when stock would go negative", func(t *testing.T) {
		tx, err := db.Pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.DecrementStock(ctx, tx, []model.CartLine{
			{ProductID: mug, Name: "Mug", Quantity: 1},
			{ProductID: bowl, Name: "Bowl", Quantity: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Bowl")
	})

	assert.Equal(t, 3, db.Stock(t, mug), "rolled back decrement must not persist")
}

func TestProductRepository_Upsert(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())
	ctx := context.Background()

	image := "/img/lamp.png"
	n, err := repo.Upsert(ctx, db.Pool, []model.Product{
		{ID: 10, Name: "Lamp", Price: decimal.RequireFromString("25.00"), Stock: 4, Image: &image},
		{ID: 11, Name: "Shade", Price: decimal.RequireFromString("9.50"), Stock: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.Upsert(ctx, db.Pool, []model.Product{
		{ID: 10, Name: "Desk Lamp", Price: decimal.RequireFromString("27.00"), Stock: 6},
	})
	require.NoError(t, err)

	lamp, err := repo.GetByID(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.NotNil(t, lamp)
	assert.Equal(t, "Desk Lamp", lamp.Name)
	assert.Equal(t, 6, lamp.Stock)

	// The serial continues after the highest seeded id
	next := db.SeedProduct(t, "Bulb", "2.00", 1)
	assert.Equal(t, int64(12), next)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	db := dbtest.Setup(t)
	repo := NewProductRepository(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx, db.Pool, 10, 0)
	assert.Error(t, err)

	_, err = repo.Count(ctx, db.Pool)
	assert.Error(t, err)

	_, err = repo.GetByID(ctx, db.Pool, 1)
	assert.Error(t, err)
}
