package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"minishop/internal/auth"
	"minishop/internal/discount"
	"minishop/internal/model"
	"minishop/internal/repository"
	"minishop/internal/repository/mocks"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	db         *mocks.Tx
	tx         *mocks.Tx
	admins     *mocks.AdminRepository
	orders     *mocks.OrderRepository
	discounts  *mocks.DiscountRepository
	statistics *mocks.StatisticsRepository
	tokens     *auth.TokenManager
	service    AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		db:         new(mocks.Tx),
		tx:         new(mocks.Tx),
		admins:     new(mocks.AdminRepository),
		orders:     new(mocks.OrderRepository),
		discounts:  new(mocks.DiscountRepository),
		statistics: new(mocks.StatisticsRepository),
		tokens:     auth.NewTokenManager("test-secret", time.Hour),
	}
	store := Store{
		DB:         f.db,
		Orders:     f.orders,
		Discounts:  f.discounts,
		Admins:     f.admins,
		Statistics: f.statistics,
	}
	ledger := discount.NewLedger(f.orders, f.discounts, stubGenerator{code: "GLOBAL42"}, 2, zerolog.Nop())
	f.service = NewAdminService(store, ledger, f.tokens, nil, zerolog.Nop())
	return f
}

func TestAdminService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	admin := &model.AdminUser{ID: 1, Username: "admin", PasswordHash: hash}

	t.Run("Valid credentials", func(t *testing.T) {
		f := newAdminFixture()
		f.admins.On("FindByUsername", ctx, f.db, "admin").Return(admin, nil)

		resp, err := f.service.Login(ctx, &model.LoginRequest{Username: " admin ", Password: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, "admin", resp.Admin.Username)
		claims, err := f.tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.AdminID)
	})

	tests := []struct {
		name    string
		req     *model.LoginRequest
		found   *model.AdminUser
		code    string
		message string
	}{
		{name: "Missing username", req: &model.LoginRequest{Password: "x"}, code: model.ErrCodeValidation, message: "Username is required"},
		{name: "Missing password", req: &model.LoginRequest{Username: "admin"}, code: model.ErrCodeValidation, message: "Password is required"},
		{name: "Unknown admin", req: &model.LoginRequest{Username: "ghost", Password: "s3cret"}, code: model.ErrCodeUnauthorised, message: "Invalid username or password"},
		{name: "Wrong password", req: &model.LoginRequest{Username: "admin", Password: "nope"}, found: admin, code: model.ErrCodeUnauthorised, message: "Invalid username or password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			if tt.found != nil {
				f.admins.On("FindByUsername", ctx, f.db, tt.req.Username).Return(tt.found, nil)
			} else {
				f.admins.On("FindByUsername", ctx, f.db, mock.Anything).Return(nil, nil).Maybe()
			}

			resp, err := f.service.Login(ctx, tt.req)

			assert.Nil(t, resp)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.message, de.Message)
		})
	}
}

func TestAdminService_Statistics(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	totals := repository.Totals{
		ItemsPurchased:      12,
		TotalPurchaseAmount: decimal.RequireFromString("1500.50"),
		TotalDiscountAmount: decimal.RequireFromString("50.05"),
	}
	codes := []model.DiscountCode{{ID: 1, Code: "A"}, {ID: 2, Code: "B"}}
	f.statistics.On("Totals", ctx, f.db).Return(totals, nil)
	f.discounts.On("ListAll", ctx, f.db).Return(codes, nil)

	stats, err := f.service.Statistics(ctx)

	require.NoError(t, err)
	assert.Equal(t, 12, stats.ItemsPurchased)
	assert.True(t, stats.TotalPurchaseAmount.Equal(totals.TotalPurchaseAmount))
	assert.True(t, stats.TotalDiscountAmount.Equal(totals.TotalDiscountAmount))
	assert.Equal(t, codes, stats.DiscountCodes)
}

func TestAdminService_MintGlobalCode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		percent         *decimal.Decimal
		expectedPercent decimal.Decimal
	}{
		{name: "Default percent", percent: nil, expectedPercent: decimal.NewFromInt(10)},
		{name: "Explicit percent", percent: decPtr("25"), expectedPercent: decimal.NewFromInt(25)},
		{name: "Clamped above", percent: decPtr("150"), expectedPercent: decimal.NewFromInt(100)},
		{name: "Clamped below", percent: decPtr("-5"), expectedPercent: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			f.orders.On("BeginTx", ctx).Return(f.tx, nil)
			f.orders.On("CountAll", ctx, f.tx).Return(41, nil)
			f.discounts.On("InsertIfAbsent", ctx, f.tx, mock.MatchedBy(func(dc *model.DiscountCode) bool {
				return dc.Global() && dc.OrderNumber == 42 && dc.DiscountPercent.Equal(tt.expectedPercent)
			})).Return(true, nil)
			f.tx.On("Commit", ctx).Return(nil)

			resp, err := f.service.MintGlobalCode(ctx, &model.MintGlobalCodeRequest{OrderNumber: 42, DiscountPercent: tt.percent})

			require.NoError(t, err)
			assert.Equal(t, "GLOBAL42", resp.Code)
			assert.Equal(t, 42, resp.OrderNumber)
			assert.Equal(t, 42, resp.NextGlobalOrderNumber)
			assert.True(t, f.tx.Committed)
			f.discounts.AssertExpectations(t)
		})
	}
}

func TestAdminService_MintGlobalCode_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing order number", func(t *testing.T) {
		f := newAdminFixture()

		_, err := f.service.MintGlobalCode(ctx, &model.MintGlobalCodeRequest{})

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeValidation, de.Code)
		f.orders.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("Not the upcoming order", func(t *testing.T) {
		f := newAdminFixture()
		f.orders.On("BeginTx", ctx).Return(f.tx, nil)
		f.orders.On("CountAll", ctx, f.tx).Return(41, nil)
		f.tx.On("Rollback", ctx).Return(nil)

		_, err := f.service.MintGlobalCode(ctx, &model.MintGlobalCodeRequest{OrderNumber: 45})

		require.ErrorIs(t, err, model.ErrOrderNumberMismatch)
		assert.EqualError(t, err, "Next order number is not 45. Next order number is 42")
		assert.True(t, f.tx.RolledBack)
		f.discounts.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Code space exhausted", func(t *testing.T) {
		f := newAdminFixture()
		f.orders.On("BeginTx", ctx).Return(f.tx, nil)
		f.orders.On("CountAll", ctx, f.tx).Return(0, nil)
		f.discounts.On("InsertIfAbsent", ctx, f.tx, mock.Anything).Return(false, nil).Times(2)
		f.tx.On("Rollback", ctx).Return(nil)

		_, err := f.service.MintGlobalCode(ctx, &model.MintGlobalCodeRequest{OrderNumber: 1})

		require.ErrorIs(t, err, discount.ErrCodeSpaceExhausted)
		assert.True(t, f.tx.RolledBack)
		assert.False(t, f.tx.Committed)
	})

	t.Run("Begin fails", func(t *testing.T) {
		f := newAdminFixture()
		f.orders.On("BeginTx", ctx).Return(nil, errors.New("pool closed"))

		_, err := f.service.MintGlobalCode(ctx, &model.MintGlobalCodeRequest{OrderNumber: 1})

		require.Error(t, err)
		f.tx.AssertNotCalled(t, "Rollback", mock.Anything)
	})
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
