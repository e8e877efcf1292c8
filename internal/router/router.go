package router

import (
	"encoding/json"
	"net/http"

	"minishop/internal/handler"
	"minishop/internal/metrics"
	"minishop/internal/middleware"
	"minishop/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health    *handler.HealthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Discounts *handler.DiscountHandler
	Admin     *handler.AdminHandler
}

// Options configures cross-cutting concerns of the router.
type Options struct {
	Tokens      middleware.TokenParser
	Metrics     *metrics.Metrics
	MetricsPath string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Metrics(opts.Metrics),
		middleware.CORS,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoint (no authentication required)
	r.Get("/health", h.Health.Check)

	if opts.Metrics != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.Metrics.Handler())
	}

	r.Route("/api/store", func(r chi.Router) {
		r.Get("/products", h.Products.List)
		r.Get("/products/search", h.Products.Search)
		r.Get("/products/{id}", h.Products.GetByID)

		r.Get("/cart", h.Cart.Get)
		r.Put("/cart", h.Cart.Update)

		r.Post("/checkout", h.Checkout.Checkout)
		r.Get("/orders/{id}", h.Checkout.GetOrder)

		r.Get("/discounts", h.Discounts.List)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/auth/login", h.Admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(opts.Tokens, logger))

			r.Get("/statistics", h.Admin.Statistics)
			r.Post("/discount-codes", h.Admin.MintGlobalCode)
		})
	})

	return r
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: true, Message: message})
}
