package service

import (
	"context"
	"fmt"
	"strings"

	"minishop/internal/discount"
	"minishop/internal/model"

	"github.com/rs/zerolog"
)

// discountService implements DiscountService.
type discountService struct {
	store  Store
	ledger *discount.Ledger
	logger zerolog.Logger
}

// NewDiscountService creates a new discount listing service.
func NewDiscountService(store Store, ledger *discount.Ledger, logger zerolog.Logger) DiscountService {
	return &discountService{
		store:  store,
		ledger: ledger,
		logger: logger.With().Str("service", "discount").Logger(),
	}
}

// ListForUser classifies the user's codes against their next order number and
// adds the global codes redeemable on the next store-wide order.
func (s *discountService) ListForUser(ctx context.Context, identifier string) (*model.DiscountListing, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, model.ErrIdentifierRequired
	}

	user, err := s.store.Users.FindOrCreate(ctx, s.store.DB, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	next, err := s.ledger.NextOrderNumber(ctx, s.store.DB, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order number: %w", err)
	}

	nextGlobal, err := s.ledger.NextGlobalOrderNumber(ctx, s.store.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to compute global order number: %w", err)
	}

	codes, err := s.store.Discounts.ListByUser(ctx, s.store.DB, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}

	global, err := s.store.Discounts.ListUnusedGlobal(ctx, s.store.DB, nextGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to list global discount codes: %w", err)
	}

	listing := discount.Listing(append(codes, global...), next, nextGlobal)

	s.logger.Debug().
		Int64("user_id", user.ID).
		Int("available", len(listing.Available)).
		Int("used", len(listing.Used)).
		Int("expired", len(listing.Expired)).
		Msg("listed discount codes")

	return &listing, nil
}
