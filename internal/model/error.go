package model

import (
	"errors"
	"fmt"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes surfaced to API clients.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvalidDiscountCode = "INVALID_DISCOUNT_CODE"
	ErrCodeDiscountCodeRace    = "DISCOUNT_CODE_RACE"
	ErrCodeOrderNumberMismatch = "ORDER_NUMBER_MISMATCH"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business rule violation with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped or formatted variants
// still satisfy errors.Is against the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrIdentifierRequired      = NewDomainError(ErrCodeValidation, "Mobile number is required")
	ErrShippingAddressRequired = NewDomainError(ErrCodeValidation, "Shipping address is required")
	ErrUserNotFound            = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInsufficientStock       = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrInvalidDiscountCode     = NewDomainError(ErrCodeInvalidDiscountCode, "Invalid or already used discount code")
	ErrDiscountCodeRace        = NewDomainError(ErrCodeDiscountCodeRace, "Discount code was already used by another request")
	ErrOrderNumberMismatch     = NewDomainError(ErrCodeOrderNumberMismatch, "Order number does not match the next global order number")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidCredentials      = NewDomainError(ErrCodeUnauthorised, "Invalid username or password")
)

// NewValidationError reports malformed input.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NewInsufficientStockError names the product whose stock cannot cover the cart.
func NewInsufficientStockError(productName string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("Insufficient stock for %s", productName))
}

// NewWrongOrderNumberError reports a code presented for an order it does not target.
func NewWrongOrderNumberError(target, actual int) *DomainError {
	return NewDomainError(ErrCodeInvalidDiscountCode,
		fmt.Sprintf("This discount code is only valid for order #%d, not order #%d", target, actual))
}

// NewOrderNumberMismatchError reports an admin mint request for a non-upcoming global order.
func NewOrderNumberMismatchError(requested, next int) *DomainError {
	return NewDomainError(ErrCodeOrderNumberMismatch,
		fmt.Sprintf("Next order number is not %d. Next order number is %d", requested, next))
}

// AsDomainError extracts a DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
