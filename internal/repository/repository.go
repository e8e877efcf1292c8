package repository

import (
	"context"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines data access for storefront users.
type UserRepository interface {
	// FindByIdentifier returns the user with the given mobile number, or nil if none exists.
	FindByIdentifier(ctx context.Context, db DBTX, identifier string) (*model.User, error)

	// FindOrCreate returns the user with the given mobile number, creating it and its
	// empty cart in a single statement when absent.
	FindOrCreate(ctx context.Context, db DBTX, identifier string) (*model.User, error)
}

// CartRepository defines data access for carts and cart items.
type CartRepository interface {
	// LoadLines returns the cart rows of a user joined with live product data,
	// ordered by product id. With lock set, the cart row is locked before the read
	// and the cart and product rows read are locked FOR UPDATE.
	LoadLines(ctx context.Context, db DBTX, userID int64, lock bool) ([]model.CartLine, error)

	// ReplaceItems deletes every cart row of the user and inserts the given ones.
	ReplaceItems(ctx context.Context, db DBTX, userID int64, items []model.CartItemUpdate) error

	// Clear deletes every cart row of the user and returns how many were removed.
	Clear(ctx context.Context, db DBTX, userID int64) (int64, error)
}

// ProductRepository defines data access for the product catalogue.
type ProductRepository interface {
	// List returns a page of products ordered by id.
	List(ctx context.Context, db DBTX, limit, offset int) ([]model.Product, error)

	// Count returns the number of products.
	Count(ctx context.Context, db DBTX) (int, error)

	// Search returns products whose name contains query, case-insensitively.
	Search(ctx context.Context, db DBTX, query string, limit int) ([]model.Product, error)

	// GetByID retrieves a single product, or nil if it does not exist.
	GetByID(ctx context.Context, db DBTX, id int64) (*model.Product, error)

	// FindMissing returns the ids among ids that have no product row.
	FindMissing(ctx context.Context, db DBTX, ids []int64) ([]int64, error)

	// DecrementStock subtracts each line's quantity from its product. A line whose
	// product no longer has enough stock fails with an insufficient stock error.
	DecrementStock(ctx context.Context, db DBTX, lines []model.CartLine) error

	// Upsert inserts or updates products by id and returns how many rows were written.
	Upsert(ctx context.Context, db DBTX, products []model.Product) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts the order header and fills in its id and creation time.
	CreateOrder(ctx context.Context, db DBTX, order *model.Order) error

	// CreateOrderItems inserts multiple order items.
	CreateOrderItems(ctx context.Context, db DBTX, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, db DBTX, id int64) (*model.Order, []model.OrderItem, error)

	// CountByUser returns how many orders the user has placed.
	CountByUser(ctx context.Context, db DBTX, userID int64) (int, error)

	// CountAll returns how many orders exist across all users.
	CountAll(ctx context.Context, db DBTX) (int, error)
}

// DiscountRepository defines data access for discount codes.
type DiscountRepository interface {
	// FindByCode returns the discount code with the given string, or nil if none exists.
	FindByCode(ctx context.Context, db DBTX, code string) (*model.DiscountCode, error)

	// MarkUsed records orderID as the consumer of an unused code. It reports
	// false when the code was already consumed.
	MarkUsed(ctx context.Context, db DBTX, id, orderID int64) (bool, error)

	// InsertIfAbsent inserts an unused code and fills in its id and creation time.
	// It reports false when the code string is already taken.
	InsertIfAbsent(ctx context.Context, db DBTX, code *model.DiscountCode) (bool, error)

	// ListByUser returns the user-scoped codes of a user, oldest first.
	ListByUser(ctx context.Context, db DBTX, userID int64) ([]model.DiscountCode, error)

	// ListUnusedGlobal returns unused global codes targeting the given global order number.
	ListUnusedGlobal(ctx context.Context, db DBTX, orderNumber int) ([]model.DiscountCode, error)

	// ListAll returns every code, newest first.
	ListAll(ctx context.Context, db DBTX) ([]model.DiscountCode, error)
}

// AdminRepository defines data access for back-office accounts.
type AdminRepository interface {
	// FindByUsername returns the admin with the given username, or nil if none exists.
	FindByUsername(ctx context.Context, db DBTX, username string) (*model.AdminUser, error)

	// Upsert creates the admin or replaces its password hash.
	Upsert(ctx context.Context, db DBTX, username, passwordHash string) (*model.AdminUser, error)
}

// Totals are store-wide purchase aggregates.
type Totals struct {
	ItemsPurchased      int
	TotalPurchaseAmount decimal.Decimal
	TotalDiscountAmount decimal.Decimal
}

// StatisticsRepository aggregates order data for the admin dashboard.
type StatisticsRepository interface {
	// Totals sums purchased quantities, final amounts and discount amounts across all orders.
	Totals(ctx context.Context, db DBTX) (Totals, error)
}
