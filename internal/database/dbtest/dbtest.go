// Package dbtest starts a throwaway PostgreSQL container with the
// application schema applied, for repository and checkout tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"minishop/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a migrated test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// Setup creates a PostgreSQL test container, a decimal-aware pool and the schema.
// The container is terminated when the test finishes.
func Setup(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: pgContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Reset truncates every application table and restarts identities.
func (db *TestDB) Reset(t *testing.T) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `
		TRUNCATE discount_codes, order_items, orders, cart_items, carts, products, admin_users, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
}

// SeedProduct inserts a product and returns its id.
func (db *TestDB) SeedProduct(t *testing.T, name string, price string, stock int) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		"INSERT INTO products (name, price, stock) VALUES ($1, $2, $3) RETURNING id",
		name, decimal.RequireFromString(price), stock,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return id
}

// SeedUser inserts a user with an empty cart and returns its id.
func (db *TestDB) SeedUser(t *testing.T, mobileNo string) int64 {
	t.Helper()

	ctx := context.Background()

	var id int64
	if err := db.Pool.QueryRow(ctx,
		"INSERT INTO users (mobile_no) VALUES ($1) RETURNING id", mobileNo,
	).Scan(&id); err != nil {
		t.Fatalf("failed to seed user %s: %v", mobileNo, err)
	}
	if _, err := db.Pool.Exec(ctx, "INSERT INTO carts (user_id) VALUES ($1)", id); err != nil {
		t.Fatalf("failed to seed cart for %s: %v", mobileNo, err)
	}
	return id
}

// AddToCart puts quantity units of a product in the user's cart.
func (db *TestDB) AddToCart(t *testing.T, userID, productID int64, quantity int) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(),
		"INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)",
		userID, productID, quantity,
	)
	if err != nil {
		t.Fatalf("failed to add product %d to cart %d: %v", productID, userID, err)
	}
}

// SeedOrders inserts count bare orders for a user so order numbers can be positioned.
func (db *TestDB) SeedOrders(t *testing.T, userID int64, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		_, err := db.Pool.Exec(context.Background(), `
			INSERT INTO orders (user_id, total_amount, discount_amount, final_amount, shipping_address)
			VALUES ($1, 0, 0, 0, 'seed')
		`, userID)
		if err != nil {
			t.Fatalf("failed to seed order %d for user %d: %v", i, userID, err)
		}
	}
}

// SeedDiscountCode inserts an unused code; a nil userID makes it global.
func (db *TestDB) SeedDiscountCode(t *testing.T, code string, userID *int64, orderNumber int, percent string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(), `
		INSERT INTO discount_codes (code, user_id, order_number, discount_percent, is_global_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, code, userID, orderNumber, decimal.RequireFromString(percent), userID == nil).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed discount code %s: %v", code, err)
	}
	return id
}

// Stock returns the current stock of a product.
func (db *TestDB) Stock(t *testing.T, productID int64) int {
	t.Helper()
	return db.count(t, "SELECT stock FROM products WHERE id = $1", productID)
}

// CartSize returns the number of cart rows for a user.
func (db *TestDB) CartSize(t *testing.T, userID int64) int {
	t.Helper()
	return db.count(t, "SELECT COUNT(*) FROM cart_items WHERE cart_id = $1", userID)
}

// OrderCount returns the number of orders across all users.
func (db *TestDB) OrderCount(t *testing.T) int {
	t.Helper()
	return db.count(t, "SELECT COUNT(*) FROM orders")
}

// DiscountCodeCount returns the number of codes scoped to a user.
func (db *TestDB) DiscountCodeCount(t *testing.T, userID int64) int {
	t.Helper()
	return db.count(t, "SELECT COUNT(*) FROM discount_codes WHERE user_id = $1", userID)
}

func (db *TestDB) count(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", fmt.Sprintf("query %q failed", query), err)
	}
	return n
}
