package handler

import (
	"net/http"
	"strconv"

	"minishop/internal/model"
	"minishop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultPageLimit = 10

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/store/products requests with pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, model.NewValidationError("Page must be greater than 0"), h.logger)
		return
	}

	limit, err := queryInt(r, "limit", defaultPageLimit)
	if err != nil {
		writeError(w, r, model.NewValidationError("Limit must be between 1 and 100"), h.logger)
		return
	}

	products, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, products)
}

// Search handles GET /api/store/products/search?q= requests.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, products)
}

// GetByID handles GET /api/store/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, model.NewValidationError("Invalid product ID"), h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, product)
}
