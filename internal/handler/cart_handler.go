package handler

import (
	"net/http"

	"minishop/internal/model"
	"minishop/internal/service"

	"github.com/rs/zerolog"
)

const cartUpdatedMessage = "Cart updated successfully"

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/store/cart?mobileNo= requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), r.URL.Query().Get("mobileNo"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, cart)
}

// Update handles PUT /api/store/cart?mobileNo= requests.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.UpdateCart(r.Context(), r.URL.Query().Get("mobileNo"), &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"success": true,
		"message": cartUpdatedMessage,
	})
}
