package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"minishop/internal/auth"
	"minishop/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// TokenParser verifies admin bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.AdminClaims, error)
}

// AdminAuth requires a valid admin bearer token and stores its claims in the request context.
func AdminAuth(tokens TokenParser, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" {
				unauthorised(w, r, logger, "Authorization header is required")
				return
			}

			if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
				unauthorised(w, r, logger, "Invalid authorization format. Use Bearer token")
				return
			}

			token := strings.TrimSpace(header[7:])
			if token == "" {
				unauthorised(w, r, logger, "Token is required")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					unauthorised(w, r, logger, "Token has expired")
				case errors.Is(err, auth.ErrWrongTokenType):
					unauthorised(w, r, logger, "Invalid token type. Admin token required")
				default:
					unauthorised(w, r, logger, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdmin, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the claims stored by AdminAuth.
func AdminFromContext(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(ctxAdmin).(*auth.AdminClaims)
	return claims, ok
}

func unauthorised(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, message string) {
	logger.Warn().
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Str("reason", message).
		Msg("admin request rejected")
	writeError(w, http.StatusUnauthorized, message, model.ErrCodeUnauthorised)
}
