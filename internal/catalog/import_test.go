package catalog

import (
	"context"
	"errors"
	"testing"

	"minishop/internal/model"
	"minishop/internal/repository/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeBeginner struct {
	tx  *mocks.Tx
	err error
}

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

func staticLoader(products []model.Product, err error) Loader {
	return &stubLoader{loadFunc: func(context.Context, string) ([]model.Product, error) {
		return products, err
	}}
}

func TestImport(t *testing.T) {
	items := []model.Product{{ID: 1, Name: "Mug"}, {ID: 2, Name: "Lamp"}}

	t.Run("commits the upserted catalogue", func(t *testing.T) {
		tx := new(mocks.Tx)
		repo := new(mocks.ProductRepository)
		repo.On("Upsert", mock.Anything, tx, items).Return(2, nil)
		tx.On("Commit", mock.Anything).Return(nil)

		n, err := Import(context.Background(), staticLoader(items, nil), "products.gz", &fakeBeginner{tx: tx}, repo, zerolog.Nop())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		tx.AssertNotCalled(t, "Rollback", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("rolls back when the upsert fails", func(t *testing.T) {
		tx := new(mocks.Tx)
		repo := new(mocks.ProductRepository)
		repo.On("Upsert", mock.Anything, tx, items).Return(0, errors.New("constraint violated"))
		tx.On("Rollback", mock.Anything).Return(nil)

		n, err := Import(context.Background(), staticLoader(items, nil), "products.gz", &fakeBeginner{tx: tx}, repo, zerolog.Nop())

		require.Error(t, err)
		assert.Zero(t, n)
		tx.AssertCalled(t, "Rollback", mock.Anything)
		tx.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("load failure touches nothing", func(t *testing.T) {
		repo := new(mocks.ProductRepository)
		beginner := &fakeBeginner{err: errors.New("should not begin")}

		_, err := Import(context.Background(), staticLoader(nil, errors.New("bad file")), "products.gz", beginner, repo, zerolog.Nop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad file")
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty catalogue is a no-op", func(t *testing.T) {
		repo := new(mocks.ProductRepository)

		n, err := Import(context.Background(), staticLoader([]model.Product{}, nil), "products.gz", &fakeBeginner{}, repo, zerolog.Nop())

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("begin failure is reported", func(t *testing.T) {
		repo := new(mocks.ProductRepository)

		_, err := Import(context.Background(), staticLoader(items, nil), "products.gz", &fakeBeginner{err: errors.New("pool closed")}, repo, zerolog.Nop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})
}
