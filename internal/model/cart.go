package model

import "github.com/shopspring/decimal"

// CartLine is a cart row joined with the live product it references.
type CartLine struct {
	ProductID    int64           `json:"productId"`
	Quantity     int             `json:"quantity"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"price"`
	CurrentStock int             `json:"stock"`
	Image        *string         `json:"image"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItemUpdate is a single desired cart row in a replace-all cart update.
type CartItemUpdate struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartRequest replaces the whole content of a cart.
type UpdateCartRequest struct {
	Items []CartItemUpdate `json:"items"`
}

// CartResponse is the body returned for a cart fetch.
type CartResponse struct {
	Items    []CartLine `json:"items"`
	MobileNo string     `json:"mobileNo"`
}
