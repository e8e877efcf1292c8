package model

import "time"

// User is a storefront customer identified by an opaque identifier (a mobile number).
type User struct {
	ID         int64     `json:"id" db:"id"`
	Identifier string    `json:"mobileNo" db:"mobile_no"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// AdminUser is a back-office account allowed to mint global discount codes.
type AdminUser struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
