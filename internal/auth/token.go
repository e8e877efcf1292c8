// Package auth issues and verifies admin bearer tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAdmin is the only token type the API issues.
const TokenTypeAdmin = "admin"

var signingMethod = jwt.SigningMethodHS256

// ErrWrongTokenType is returned for a well-signed token that is not an admin token.
var ErrWrongTokenType = errors.New("token is not an admin token")

// AdminClaims is the payload of an admin token.
type AdminClaims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 admin tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager for the given secret and token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for the admin.
func (m *TokenManager) Issue(adminID int64, username string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("jwt secret is required")
	}

	now := m.now()
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		Type:     TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns its admin claims.
func (m *TokenManager) Parse(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeAdmin || claims.AdminID == 0 || claims.Username == "" {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
