package service

import (
	"context"
	"errors"
	"testing"

	"minishop/internal/model"
	"minishop/internal/repository/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*mocks.Tx, *mocks.UserRepository, *mocks.CartRepository, *mocks.ProductRepository, CartService) {
	db := new(mocks.Tx)
	users := new(mocks.UserRepository)
	carts := new(mocks.CartRepository)
	products := new(mocks.ProductRepository)

	svc := NewCartService(Store{DB: db, Users: users, Carts: carts, Products: products}, zerolog.Nop())
	return db, users, carts, products, svc
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	db, users, carts, _, svc := newCartFixture()

	lines := []model.CartLine{
		{ProductID: 1, Name: "Laptop", UnitPrice: decimal.NewFromInt(999), Quantity: 1, CurrentStock: 4},
	}
	users.On("FindOrCreate", ctx, db, testMobile).Return(&model.User{ID: testUserID, Identifier: testMobile}, nil)
	carts.On("LoadLines", ctx, db, testUserID, false).Return(lines, nil)

	cart, err := svc.GetCart(ctx, " "+testMobile)

	require.NoError(t, err)
	assert.Equal(t, testMobile, cart.MobileNo)
	assert.Equal(t, lines, cart.Items)
	users.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCartService_GetCart_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing identifier", func(t *testing.T) {
		_, users, _, _, svc := newCartFixture()

		_, err := svc.GetCart(ctx, "")

		assert.ErrorIs(t, err, model.ErrIdentifierRequired)
		users.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage failure", func(t *testing.T) {
		db, users, _, _, svc := newCartFixture()
		dbErr := errors.New("timeout")
		users.On("FindOrCreate", ctx, db, testMobile).Return(nil, dbErr)

		_, err := svc.GetCart(ctx, testMobile)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCartService_UpdateCart(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		items    []model.CartItemUpdate
		expected []model.CartItemUpdate
	}{
		{
			name:     "Replaces with given items",
			items:    []model.CartItemUpdate{{ProductID: 1, Quantity: 2}, {ProductID: 4, Quantity: 1}},
			expected: []model.CartItemUpdate{{ProductID: 1, Quantity: 2}, {ProductID: 4, Quantity: 1}},
		},
		{
			name:     "Drops zero quantities",
			items:    []model.CartItemUpdate{{ProductID: 1, Quantity: 0}, {ProductID: 2, Quantity: 3}},
			expected: []model.CartItemUpdate{{ProductID: 2, Quantity: 3}},
		},
		{
			name:     "Last duplicate wins",
			items:    []model.CartItemUpdate{{ProductID: 5, Quantity: 1}, {ProductID: 6, Quantity: 1}, {ProductID: 5, Quantity: 4}},
			expected: []model.CartItemUpdate{{ProductID: 5, Quantity: 4}, {ProductID: 6, Quantity: 1}},
		},
		{
			name:     "Empty list clears the cart",
			items:    []model.CartItemUpdate{},
			expected: []model.CartItemUpdate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, users, carts, products, svc := newCartFixture()

			ids := make([]int64, 0, len(tt.expected))
			for _, item := range tt.expected {
				ids = append(ids, item.ProductID)
			}
			products.On("FindMissing", ctx, db, ids).Return([]int64{}, nil)
			users.On("FindOrCreate", ctx, db, testMobile).Return(&model.User{ID: testUserID, Identifier: testMobile}, nil)
			carts.On("ReplaceItems", ctx, db, testUserID, tt.expected).Return(nil)

			err := svc.UpdateCart(ctx, testMobile, &model.UpdateCartRequest{Items: tt.items})

			require.NoError(t, err)
			products.AssertExpectations(t)
			users.AssertExpectations(t)
			carts.AssertExpectations(t)
		})
	}
}

func TestCartService_UpdateCart_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		req        *model.UpdateCartRequest
		missing    []int64
		message    string
		code       string
	}{
		{name: "Missing identifier", identifier: "", req: &model.UpdateCartRequest{Items: []model.CartItemUpdate{}}, message: "Mobile number is required", code: model.ErrCodeValidation},
		{name: "Nil items", identifier: testMobile, req: &model.UpdateCartRequest{}, message: "Items must be an array", code: model.ErrCodeValidation},
		{name: "Invalid product id", identifier: testMobile, req: &model.UpdateCartRequest{Items: []model.CartItemUpdate{{ProductID: 0, Quantity: 1}}}, message: "Invalid product ID in items", code: model.ErrCodeValidation},
		{name: "Negative quantity", identifier: testMobile, req: &model.UpdateCartRequest{Items: []model.CartItemUpdate{{ProductID: 1, Quantity: -1}}}, message: "Invalid quantity in items", code: model.ErrCodeValidation},
		{name: "Unknown product", identifier: testMobile, req: &model.UpdateCartRequest{Items: []model.CartItemUpdate{{ProductID: 404, Quantity: 1}}}, missing: []int64{404}, message: "Product 404 not found", code: model.ErrCodeProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, users, carts, products, svc := newCartFixture()
			if tt.missing != nil {
				products.On("FindMissing", ctx, db, mock.Anything).Return(tt.missing, nil)
			}

			err := svc.UpdateCart(ctx, tt.identifier, tt.req)

			require.Error(t, err)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.message, de.Message)
			users.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything, mock.Anything)
			carts.AssertNotCalled(t, "ReplaceItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
