// Package discount owns the discount code ledger: order counters, validation,
// exclusive consumption and minting of one-shot codes.
package discount

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/model"
	"minishop/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrCodeSpaceExhausted is returned by MintCode when every attempt collided with an existing code.
var ErrCodeSpaceExhausted = errors.New("discount: no unique code found within attempt budget")

// Ledger tracks issuance, validity and consumption of discount codes.
// Counters are live aggregates read through the caller's db handle, so inside a
// transaction they reflect the transaction's own view.
type Ledger struct {
	orders      repository.OrderRepository
	discounts   repository.DiscountRepository
	generator   CodeGenerator
	maxAttempts int
	logger      zerolog.Logger
}

// NewLedger creates a ledger. maxAttempts bounds how many candidate codes MintCode tries.
func NewLedger(
	orders repository.OrderRepository,
	discounts repository.DiscountRepository,
	generator CodeGenerator,
	maxAttempts int,
	logger zerolog.Logger,
) *Ledger {
	return &Ledger{
		orders:      orders,
		discounts:   discounts,
		generator:   generator,
		maxAttempts: maxAttempts,
		logger:      logger.With().Str("component", "discount_ledger").Logger(),
	}
}

// NextOrderNumber returns the user's order count plus one.
func (l *Ledger) NextOrderNumber(ctx context.Context, db repository.DBTX, userID int64) (int, error) {
	count, err := l.orders.CountByUser(ctx, db, userID)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// NextGlobalOrderNumber returns the store-wide order count plus one.
func (l *Ledger) NextGlobalOrderNumber(ctx context.Context, db repository.DBTX) (int, error) {
	count, err := l.orders.CountAll(ctx, db)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// ValidateCode checks that code can be spent by userID on the order whose
// user-scoped number is userOrderNumber. A user-scoped code must belong to the
// user and target exactly userOrderNumber; a global code must target exactly the
// global next order number.
func (l *Ledger) ValidateCode(ctx context.Context, db repository.DBTX, code string, userID int64, userOrderNumber int) (*model.AppliedDiscount, error) {
	dc, err := l.discounts.FindByCode(ctx, db, code)
	if err != nil {
		return nil, err
	}
	if dc == nil || dc.Used() || dc.IsUsed {
		return nil, model.ErrInvalidDiscountCode
	}

	target := userOrderNumber
	if dc.Global() {
		target, err = l.NextGlobalOrderNumber(ctx, db)
		if err != nil {
			return nil, err
		}
	} else if *dc.UserID != userID {
		return nil, model.ErrInvalidDiscountCode
	}

	if dc.OrderNumber != target {
		l.logger.Debug().
			Str("code", code).
			Int("target_order_number", dc.OrderNumber).
			Int("order_number", target).
			Bool("global", dc.Global()).
			Msg("discount code presented for a different order number")
		return nil, model.NewWrongOrderNumberError(dc.OrderNumber, target)
	}

	return &model.AppliedDiscount{
		DiscountCodeID:  dc.ID,
		Code:            dc.Code,
		DiscountPercent: dc.DiscountPercent,
	}, nil
}

// ConsumeCode marks the code as used by orderID. It returns false when another
// order consumed it first.
func (l *Ledger) ConsumeCode(ctx context.Context, db repository.DBTX, discountCodeID, orderID int64) (bool, error) {
	ok, err := l.discounts.MarkUsed(ctx, db, discountCodeID, orderID)
	if err != nil {
		return false, err
	}
	if !ok {
		l.logger.Warn().
			Int64("discount_code_id", discountCodeID).
			Int64("order_id", orderID).
			Msg("discount code already consumed")
	}
	return ok, nil
}

// MintCode inserts a fresh unused code targeting orderNumber, scoped to userID or
// global when userID is nil. The percentage is stored as given.
func (l *Ledger) MintCode(ctx context.Context, db repository.DBTX, userID *int64, orderNumber int, percent decimal.Decimal) (string, error) {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		candidate, err := l.generator.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate discount code: %w", err)
		}

		dc := &model.DiscountCode{
			Code:            candidate,
			UserID:          userID,
			OrderNumber:     orderNumber,
			DiscountPercent: percent,
		}
		inserted, err := l.discounts.InsertIfAbsent(ctx, db, dc)
		if err != nil {
			return "", err
		}
		if inserted {
			l.logger.Info().
				Int64("discount_code_id", dc.ID).
				Int("order_number", orderNumber).
				Bool("global", userID == nil).
				Int("attempts", attempt).
				Msg("discount code minted")
			return candidate, nil
		}
	}

	l.logger.Error().
		Int("attempts", l.maxAttempts).
		Int("order_number", orderNumber).
		Msg("discount code space exhausted")

	return "", ErrCodeSpaceExhausted
}
