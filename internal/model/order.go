package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable, completed purchase.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"userId" db:"user_id"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	DiscountCode    *string         `json:"discountCode" db:"discount_code"`
	DiscountAmount  decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	FinalAmount     decimal.Decimal `json:"finalAmount" db:"final_amount"`
	ShippingAddress string          `json:"shippingAddress" db:"shipping_address"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a line of an order with the unit price captured at checkout.
type OrderItem struct {
	ID              int64           `json:"id" db:"id"`
	OrderID         int64           `json:"orderId" db:"order_id"`
	ProductID       int64           `json:"productId" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" db:"price_at_purchase"`
}

// OrderDetail is an order together with its lines.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

// CheckoutRequest is the body of a checkout call. The user identifier travels in the query string.
type CheckoutRequest struct {
	ShippingAddress string  `json:"shippingAddress"`
	DiscountCode    *string `json:"discountCode,omitempty"`
}

// CheckoutResult is what a successful checkout yields.
type CheckoutResult struct {
	OrderID           int64   `json:"orderId"`
	OrderNumber       int     `json:"-"`
	Message           string  `json:"message"`
	DiscountCodeAdded *string `json:"discountCodeCreated,omitempty"`
}
