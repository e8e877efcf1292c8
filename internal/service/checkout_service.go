package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"minishop/internal/discount"
	"minishop/internal/events"
	"minishop/internal/metrics"
	"minishop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const orderCreatedMessage = "Order created successfully"

var hundred = decimal.NewFromInt(100)

// LoyaltyPolicy is the Nth-order rule: when a user's order number is a multiple
// of Period, a code worth Percent is minted for that user's following order.
type LoyaltyPolicy struct {
	Period  int
	Percent decimal.Decimal
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	store     Store
	ledger    *discount.Ledger
	publisher events.Publisher
	metrics   *metrics.Metrics
	loyalty   LoyaltyPolicy
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	store Store,
	ledger *discount.Ledger,
	publisher events.Publisher,
	m *metrics.Metrics,
	loyalty LoyaltyPolicy,
	logger zerolog.Logger,
) CheckoutService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &checkoutService{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		metrics:   m,
		loyalty:   loyalty,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout runs the whole checkout in one transaction. Any failure before
// commit rolls everything back; only loyalty code exhaustion is tolerated.
func (s *checkoutService) Checkout(ctx context.Context, identifier string, req *model.CheckoutRequest) (result *model.CheckoutResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveCheckout(checkoutOutcome(err), time.Since(start))
	}()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, model.ErrIdentifierRequired
	}
	if req == nil || strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, model.ErrShippingAddressRequired
	}
	shippingAddress := strings.TrimSpace(req.ShippingAddress)

	var code string
	if req.DiscountCode != nil {
		code = strings.TrimSpace(*req.DiscountCode)
	}

	tx, err := s.store.Orders.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	user, err := s.store.Users.FindByIdentifier(ctx, tx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("mobile_no", identifier).Msg("checkout for unknown user")
		return nil, model.ErrUserNotFound
	}

	log := s.logger.With().Int64("user_id", user.ID).Logger()

	lines, err := s.store.Carts.LoadLines(ctx, tx, user.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		log.Warn().Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	totalAmount := decimal.Zero
	for _, line := range lines {
		if line.CurrentStock < line.Quantity {
			log.Warn().
				Int64("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Int("stock", line.CurrentStock).
				Msg("insufficient stock")
			return nil, model.NewInsufficientStockError(line.Name)
		}
		totalAmount = totalAmount.Add(line.Subtotal())
	}

	orderNumber, err := s.ledger.NextOrderNumber(ctx, tx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order number: %w", err)
	}

	discountAmount := decimal.Zero
	var applied *model.AppliedDiscount
	if code != "" {
		applied, err = s.ledger.ValidateCode(ctx, tx, code, user.ID, orderNumber)
		if err != nil {
			log.Warn().Err(err).Str("code", code).Int("order_number", orderNumber).Msg("discount code rejected")
			return nil, err
		}
		discountAmount = totalAmount.Mul(applied.DiscountPercent).Div(hundred).Round(2)
	}

	order := &model.Order{
		UserID:          user.ID,
		TotalAmount:     totalAmount,
		DiscountAmount:  discountAmount,
		FinalAmount:     totalAmount.Sub(discountAmount),
		ShippingAddress: shippingAddress,
	}
	if applied != nil {
		order.DiscountCode = &applied.Code
	}

	if err = s.store.Orders.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
		}
	}

	if err = s.store.Orders.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.store.Products.DecrementStock(ctx, tx, lines); err != nil {
		return nil, err
	}

	if applied != nil {
		consumed, consumeErr := s.ledger.ConsumeCode(ctx, tx, applied.DiscountCodeID, order.ID)
		if consumeErr != nil {
			return nil, fmt.Errorf("failed to consume discount code: %w", consumeErr)
		}
		if !consumed {
			log.Warn().Str("code", applied.Code).Int64("order_id", order.ID).Msg("lost discount code race")
			return nil, model.ErrDiscountCodeRace
		}
	}

	if _, err = s.store.Carts.Clear(ctx, tx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	var minted *string
	if s.loyalty.Period > 0 && orderNumber%s.loyalty.Period == 0 {
		newCode, mintErr := s.ledger.MintCode(ctx, tx, &user.ID, orderNumber+1, s.loyalty.Percent)
		switch {
		case errors.Is(mintErr, discount.ErrCodeSpaceExhausted):
			s.metrics.IncMintExhausted()
			log.Error().Err(mintErr).Int("order_number", orderNumber).Msg("loyalty code not minted")
		case mintErr != nil:
			return nil, fmt.Errorf("failed to mint loyalty code: %w", mintErr)
		default:
			minted = &newCode
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if applied != nil {
		s.metrics.IncCodeConsumed()
	}
	if minted != nil {
		s.metrics.IncCodeMinted(false)
	}

	log.Info().
		Int64("order_id", order.ID).
		Int("order_number", orderNumber).
		Str("final_amount", order.FinalAmount.StringFixed(2)).
		Bool("discount_applied", applied != nil).
		Bool("code_minted", minted != nil).
		Msg("order created successfully")

	s.publish(ctx, order, orderNumber, minted)

	return &model.CheckoutResult{
		OrderID:           order.ID,
		OrderNumber:       orderNumber,
		Message:           orderCreatedMessage,
		DiscountCodeAdded: minted,
	}, nil
}

// GetOrder returns one of the user's orders with its items.
func (s *checkoutService) GetOrder(ctx context.Context, identifier string, orderID int64) (*model.OrderDetail, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, model.ErrIdentifierRequired
	}

	user, err := s.store.Users.FindByIdentifier(ctx, s.store.DB, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	order, items, err := s.store.Orders.GetByID(ctx, s.store.DB, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != user.ID {
		s.logger.Debug().Int64("order_id", orderID).Int64("user_id", user.ID).Msg("order not visible to user")
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}

// publish emits the order placed event. The order is already committed, so
// delivery failures are logged and swallowed.
func (s *checkoutService) publish(ctx context.Context, order *model.Order, orderNumber int, minted *string) {
	err := s.publisher.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderID:             order.ID,
		UserID:              order.UserID,
		OrderNumber:         orderNumber,
		TotalAmount:         order.TotalAmount,
		DiscountAmount:      order.DiscountAmount,
		FinalAmount:         order.FinalAmount,
		DiscountCode:        order.DiscountCode,
		DiscountCodeCreated: minted,
		OccurredAt:          order.CreatedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to publish order event")
	}
}

func checkoutOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if de, ok := model.AsDomainError(err); ok {
		return de.Code
	}
	return metrics.OutcomeInternal
}
