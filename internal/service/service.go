package service

import (
	"context"

	"minishop/internal/model"
	"minishop/internal/repository"
)

// Store bundles the repositories shared by the services and the handle used
// for reads that do not need a transaction.
type Store struct {
	DB         repository.DBTX
	Users      repository.UserRepository
	Carts      repository.CartRepository
	Products   repository.ProductRepository
	Orders     repository.OrderRepository
	Discounts  repository.DiscountRepository
	Admins     repository.AdminRepository
	Statistics repository.StatisticsRepository
}

// CheckoutService turns a user's cart into an order.
type CheckoutService interface {
	// Checkout places an order for the user's whole cart, applying at most one
	// discount code, and may mint a loyalty code for the following order.
	Checkout(ctx context.Context, identifier string, req *model.CheckoutRequest) (*model.CheckoutResult, error)

	// GetOrder returns one of the user's orders with its items. Orders of other
	// users are reported as not found.
	GetOrder(ctx context.Context, identifier string, orderID int64) (*model.OrderDetail, error)
}

// CartService defines operations on a user's cart.
type CartService interface {
	// GetCart returns the cart lines with live product data, creating the user on first access.
	GetCart(ctx context.Context, identifier string) (*model.CartResponse, error)

	// UpdateCart replaces the whole cart. Zero-quantity rows are dropped.
	UpdateCart(ctx context.Context, identifier string, req *model.UpdateCartRequest) error
}

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List returns one page of products.
	List(ctx context.Context, page, limit int) (*model.ProductPage, error)

	// Search returns products whose name contains the query.
	Search(ctx context.Context, query string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// DiscountService lists discount codes from a user's point of view.
type DiscountService interface {
	// ListForUser groups the user's codes, and the global codes for the next
	// store-wide order, into available, used and expired.
	ListForUser(ctx context.Context, identifier string) (*model.DiscountListing, error)
}

// AdminService backs the admin dashboard.
type AdminService interface {
	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Statistics aggregates purchases and lists every discount code.
	Statistics(ctx context.Context) (*model.Statistics, error)

	// MintGlobalCode mints a code for the upcoming global order number.
	MintGlobalCode(ctx context.Context, req *model.MintGlobalCodeRequest) (*model.MintGlobalCodeResponse, error)
}
