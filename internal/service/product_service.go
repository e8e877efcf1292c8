package service

import (
	"context"
	"fmt"
	"strings"

	"minishop/internal/model"

	"github.com/rs/zerolog"
)

const (
	maxPageLimit = 100
	searchLimit  = 50
)

// productService implements ProductService.
type productService struct {
	store  Store
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(store Store, logger zerolog.Logger) ProductService {
	return &productService{
		store:  store,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of products.
func (s *productService) List(ctx context.Context, page, limit int) (*model.ProductPage, error) {
	if page < 1 {
		return nil, model.NewValidationError("Page must be greater than 0")
	}
	if limit < 1 || limit > maxPageLimit {
		return nil, model.NewValidationError("Limit must be between 1 and %d", maxPageLimit)
	}

	total, err := s.store.Products.Count(ctx, s.store.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := s.store.Products.List(ctx, s.store.DB, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", page).
			Int("limit", limit).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("page", page).
		Int("limit", limit).
		Msg("retrieved products")

	return &model.ProductPage{
		Products:   products,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// Search returns products whose name contains the query.
func (s *productService) Search(ctx context.Context, query string) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewValidationError("Search query is required")
	}

	products, err := s.store.Products.Search(ctx, s.store.DB, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id < 1 {
		s.logger.Warn().Int64("product_id", id).Msg("invalid product ID")
		return nil, model.NewValidationError("Invalid product ID")
	}

	product, err := s.store.Products.GetByID(ctx, s.store.DB, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
