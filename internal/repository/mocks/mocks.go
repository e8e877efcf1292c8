// Package mocks provides testify mocks of the repository interfaces and of pgx.Tx.
package mocks

import (
	"context"

	"minishop/internal/model"
	"minishop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock implementation of repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByIdentifier(ctx context.Context, db repository.DBTX, identifier string) (*model.User, error) {
	args := m.Called(ctx, db, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserRepository) FindOrCreate(ctx context.Context, db repository.DBTX, identifier string) (*model.User, error) {
	args := m.Called(ctx, db, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// CartRepository is a mock implementation of repository.CartRepository.
type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) LoadLines(ctx context.Context, db repository.DBTX, userID int64, lock bool) ([]model.CartLine, error) {
	args := m.Called(ctx, db, userID, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *CartRepository) ReplaceItems(ctx context.Context, db repository.DBTX, userID int64, items []model.CartItemUpdate) error {
	args := m.Called(ctx, db, userID, items)
	return args.Error(0)
}

func (m *CartRepository) Clear(ctx context.Context, db repository.DBTX, userID int64) (int64, error) {
	args := m.Called(ctx, db, userID)
	return args.Get(0).(int64), args.Error(1)
}

// ProductRepository is a mock implementation of repository.ProductRepository.
type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) List(ctx context.Context, db repository.DBTX, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, db, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) Count(ctx context.Context, db repository.DBTX) (int, error) {
	args := m.Called(ctx, db)
	return args.Int(0), args.Error(1)
}

func (m *ProductRepository) Search(ctx context.Context, db repository.DBTX, query string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, db, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) GetByID(ctx context.Context, db repository.DBTX, id int64) (*model.Product, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *ProductRepository) FindMissing(ctx context.Context, db repository.DBTX, ids []int64) ([]int64, error) {
	args := m.Called(ctx, db, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *ProductRepository) DecrementStock(ctx context.Context, db repository.DBTX, lines []model.CartLine) error {
	args := m.Called(ctx, db, lines)
	return args.Error(0)
}

func (m *ProductRepository) Upsert(ctx context.Context, db repository.DBTX, products []model.Product) (int, error) {
	args := m.Called(ctx, db, products)
	return args.Int(0), args.Error(1)
}

// OrderRepository is a mock implementation of repository.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a Tx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderRepository) CreateOrder(ctx context.Context, db repository.DBTX, order *model.Order) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *OrderRepository) CreateOrderItems(ctx context.Context, db repository.DBTX, items []model.OrderItem) error {
	args := m.Called(ctx, db, items)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, db repository.DBTX, id int64) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *OrderRepository) CountByUser(ctx context.Context, db repository.DBTX, userID int64) (int, error) {
	args := m.Called(ctx, db, userID)
	return args.Int(0), args.Error(1)
}

func (m *OrderRepository) CountAll(ctx context.Context, db repository.DBTX) (int, error) {
	args := m.Called(ctx, db)
	return args.Int(0), args.Error(1)
}

// DiscountRepository is a mock implementation of repository.DiscountRepository.
type DiscountRepository struct {
	mock.Mock
}

func (m *DiscountRepository) FindByCode(ctx context.Context, db repository.DBTX, code string) (*model.DiscountCode, error) {
	args := m.Called(ctx, db, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscountCode), args.Error(1)
}

func (m *DiscountRepository) MarkUsed(ctx context.Context, db repository.DBTX, id, orderID int64) (bool, error) {
	args := m.Called(ctx, db, id, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *DiscountRepository) InsertIfAbsent(ctx context.Context, db repository.DBTX, code *model.DiscountCode) (bool, error) {
	args := m.Called(ctx, db, code)
	return args.Bool(0), args.Error(1)
}

func (m *DiscountRepository) ListByUser(ctx context.Context, db repository.DBTX, userID int64) ([]model.DiscountCode, error) {
	args := m.Called(ctx, db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCode), args.Error(1)
}

func (m *DiscountRepository) ListUnusedGlobal(ctx context.Context, db repository.DBTX, orderNumber int) ([]model.DiscountCode, error) {
	args := m.Called(ctx, db, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCode), args.Error(1)
}

func (m *DiscountRepository) ListAll(ctx context.Context, db repository.DBTX) ([]model.DiscountCode, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCode), args.Error(1)
}

// AdminRepository is a mock implementation of repository.AdminRepository.
type AdminRepository struct {
	mock.Mock
}

func (m *AdminRepository) FindByUsername(ctx context.Context, db repository.DBTX, username string) (*model.AdminUser, error) {
	args := m.Called(ctx, db, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func (m *AdminRepository) Upsert(ctx context.Context, db repository.DBTX, username, passwordHash string) (*model.AdminUser, error) {
	args := m.Called(ctx, db, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

// StatisticsRepository is a mock implementation of repository.StatisticsRepository.
type StatisticsRepository struct {
	mock.Mock
}

func (m *StatisticsRepository) Totals(ctx context.Context, db repository.DBTX) (repository.Totals, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(repository.Totals), args.Error(1)
}

// Tx is a minimal mock implementation of pgx.Tx. Only Commit and Rollback
// record calls; repositories are mocked, so the query methods are never reached.
type Tx struct {
	mock.Mock
	Committed  bool
	RolledBack bool
}

func (m *Tx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.Committed = true
	return args.Error(0)
}

func (m *Tx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.RolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in tests
func (m *Tx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *Tx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *Tx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *Tx) Conn() *pgx.Conn                                               { return nil }

var (
	_ repository.UserRepository       = (*UserRepository)(nil)
	_ repository.CartRepository       = (*CartRepository)(nil)
	_ repository.ProductRepository    = (*ProductRepository)(nil)
	_ repository.OrderRepository      = (*OrderRepository)(nil)
	_ repository.DiscountRepository   = (*DiscountRepository)(nil)
	_ repository.AdminRepository      = (*AdminRepository)(nil)
	_ repository.StatisticsRepository = (*StatisticsRepository)(nil)
	_ pgx.Tx                          = (*Tx)(nil)
)
