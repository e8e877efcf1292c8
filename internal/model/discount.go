package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDiscountPercent is applied when a mint request carries no percentage.
var DefaultDiscountPercent = decimal.NewFromInt(10)

// DiscountCode is a one-shot code redeemable on exactly one order number.
// A code with a nil UserID is global and targets the store-wide order sequence.
type DiscountCode struct {
	ID              int64           `json:"id" db:"id"`
	Code            string          `json:"code" db:"code"`
	UserID          *int64          `json:"-" db:"user_id"`
	OrderNumber     int             `json:"orderNumber" db:"order_number"`
	DiscountPercent decimal.Decimal `json:"discountPercent" db:"discount_percent"`
	IsUsed          bool            `json:"isUsed" db:"is_used"`
	UsedByOrderID   *int64          `json:"usedByOrderId" db:"used_by_order_id"`
	IsGlobalOrder   bool            `json:"-" db:"is_global_order"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// Used reports whether the code has been spent. UsedByOrderID is authoritative.
func (d *DiscountCode) Used() bool {
	return d.UsedByOrderID != nil
}

// Global reports whether the code is redeemable by any user.
func (d *DiscountCode) Global() bool {
	return d.UserID == nil
}

// AppliedDiscount is the outcome of a successful code validation.
type AppliedDiscount struct {
	DiscountCodeID  int64
	Code            string
	DiscountPercent decimal.Decimal
}

// DiscountListing groups a user's codes by state.
type DiscountListing struct {
	Available       []DiscountCode `json:"available"`
	Used            []DiscountCode `json:"used"`
	Expired         []DiscountCode `json:"expired"`
	NextOrderNumber int            `json:"nextOrderNumber"`
}

// MintGlobalCodeRequest is the admin request to mint a code for an upcoming global order.
type MintGlobalCodeRequest struct {
	OrderNumber     int              `json:"orderNumber" validate:"required,gte=1"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
}

// MintGlobalCodeResponse describes a freshly minted global code.
type MintGlobalCodeResponse struct {
	Code                  string `json:"code"`
	OrderNumber           int    `json:"orderNumber"`
	NextGlobalOrderNumber int    `json:"nextGlobalOrderNumber"`
}

// Statistics summarises store activity for the admin dashboard.
type Statistics struct {
	ItemsPurchased      int             `json:"itemsPurchased"`
	TotalPurchaseAmount decimal.Decimal `json:"totalPurchaseAmount"`
	TotalDiscountAmount decimal.Decimal `json:"totalDiscountAmount"`
	DiscountCodes       []DiscountCode  `json:"discountCodes"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns a signed admin token.
type LoginResponse struct {
	Token string    `json:"token"`
	Admin AdminUser `json:"admin"`
}
