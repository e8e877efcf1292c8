package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minishop/internal/auth"
	"minishop/internal/discount"
	"minishop/internal/metrics"
	"minishop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// adminService implements AdminService.
type adminService struct {
	store   Store
	ledger  *discount.Ledger
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	store Store,
	ledger *discount.Ledger,
	tokens *auth.TokenManager,
	m *metrics.Metrics,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		store:   store,
		ledger:  ledger,
		tokens:  tokens,
		metrics: m,
		logger:  logger.With().Str("service", "admin").Logger(),
	}
}

// Login verifies credentials and issues a bearer token.
func (s *adminService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil || strings.TrimSpace(req.Username) == "" {
		return nil, model.NewValidationError("Username is required")
	}
	if req.Password == "" {
		return nil, model.NewValidationError("Password is required")
	}
	username := strings.TrimSpace(req.Username)

	admin, err := s.store.Admins.FindByUsername(ctx, s.store.DB, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", username).Msg("admin login rejected")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Int64("admin_id", admin.ID).Msg("admin logged in")

	return &model.LoginResponse{
		Token: token,
		Admin: *admin,
	}, nil
}

// Statistics aggregates purchases and lists every discount code.
func (s *adminService) Statistics(ctx context.Context) (*model.Statistics, error) {
	totals, err := s.store.Statistics.Totals(ctx, s.store.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}

	codes, err := s.store.Discounts.ListAll(ctx, s.store.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}

	return &model.Statistics{
		ItemsPurchased:      totals.ItemsPurchased,
		TotalPurchaseAmount: totals.TotalPurchaseAmount,
		TotalDiscountAmount: totals.TotalDiscountAmount,
		DiscountCodes:       codes,
	}, nil
}

// MintGlobalCode mints a code for the upcoming global order number. The
// requested number must equal the global next order number exactly.
func (s *adminService) MintGlobalCode(ctx context.Context, req *model.MintGlobalCodeRequest) (resp *model.MintGlobalCodeResponse, err error) {
	if req == nil || req.OrderNumber < 1 {
		return nil, model.NewValidationError("Order number is required and must be a positive number")
	}

	percent := model.DefaultDiscountPercent
	if req.DiscountPercent != nil {
		percent = clampPercent(*req.DiscountPercent)
	}

	tx, err := s.store.Orders.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to mint discount code: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	next, err := s.ledger.NextGlobalOrderNumber(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute global order number: %w", err)
	}
	if req.OrderNumber != next {
		return nil, model.NewOrderNumberMismatchError(req.OrderNumber, next)
	}

	code, err := s.ledger.MintCode(ctx, tx, nil, req.OrderNumber, percent)
	if err != nil {
		if errors.Is(err, discount.ErrCodeSpaceExhausted) {
			s.metrics.IncMintExhausted()
		}
		return nil, fmt.Errorf("failed to create discount code: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to mint discount code: %w", err)
	}

	s.metrics.IncCodeMinted(true)

	s.logger.Info().
		Int("order_number", req.OrderNumber).
		Str("discount_percent", percent.String()).
		Msg("global discount code minted")

	return &model.MintGlobalCodeResponse{
		Code:                  code,
		OrderNumber:           req.OrderNumber,
		NextGlobalOrderNumber: next,
	}, nil
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	switch {
	case p.LessThan(decimal.Zero):
		return decimal.Zero
	case p.GreaterThan(hundred):
		return hundred
	default:
		return p
	}
}
