package service

import (
	"context"
	"fmt"
	"strings"

	"minishop/internal/model"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store  Store
	logger zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store Store, logger zerolog.Logger) CartService {
	return &cartService{
		store:  store,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the cart lines with live product data.
func (s *cartService) GetCart(ctx context.Context, identifier string) (*model.CartResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, model.ErrIdentifierRequired
	}

	user, err := s.store.Users.FindOrCreate(ctx, s.store.DB, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	lines, err := s.store.Carts.LoadLines(ctx, s.store.DB, user.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &model.CartResponse{
		Items:    lines,
		MobileNo: user.Identifier,
	}, nil
}

// UpdateCart replaces the whole cart. A repeated product keeps its last quantity.
func (s *cartService) UpdateCart(ctx context.Context, identifier string, req *model.UpdateCartRequest) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.ErrIdentifierRequired
	}
	if req == nil || req.Items == nil {
		return model.NewValidationError("Items must be an array")
	}

	quantities := make(map[int64]int, len(req.Items))
	order := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID < 1 {
			return model.NewValidationError("Invalid product ID in items")
		}
		if item.Quantity < 0 {
			return model.NewValidationError("Invalid quantity in items")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] = item.Quantity
	}

	items := make([]model.CartItemUpdate, 0, len(order))
	ids := make([]int64, 0, len(order))
	for _, id := range order {
		if quantities[id] == 0 {
			continue
		}
		items = append(items, model.CartItemUpdate{ProductID: id, Quantity: quantities[id]})
		ids = append(ids, id)
	}

	missing, err := s.store.Products.FindMissing(ctx, s.store.DB, ids)
	if err != nil {
		return fmt.Errorf("failed to validate products: %w", err)
	}
	if len(missing) > 0 {
		s.logger.Warn().Interface("product_ids", missing).Msg("cart references unknown products")
		return model.NewDomainError(model.ErrCodeProductNotFound, fmt.Sprintf("Product %d not found", missing[0]))
	}

	user, err := s.store.Users.FindOrCreate(ctx, s.store.DB, identifier)
	if err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := s.store.Carts.ReplaceItems(ctx, s.store.DB, user.ID, items); err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", user.ID).
		Int("item_count", len(items)).
		Msg("cart updated")

	return nil
}
