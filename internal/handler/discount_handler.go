package handler

import (
	"net/http"

	"minishop/internal/service"

	"github.com/rs/zerolog"
)

// DiscountHandler serves a user's discount codes.
type DiscountHandler struct {
	service service.DiscountService
	logger  zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		logger:  logger.With().Str("handler", "discount").Logger(),
	}
}

// List handles GET /api/store/discounts?mobileNo= requests.
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.ListForUser(r.Context(), r.URL.Query().Get("mobileNo"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, listing)
}
