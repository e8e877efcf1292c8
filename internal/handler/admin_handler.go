package handler

import (
	"net/http"

	"minishop/internal/model"
	"minishop/internal/service"

	"github.com/rs/zerolog"
)

const globalCodeCreatedMessage = "Global discount code created successfully"

// AdminHandler handles admin dashboard requests.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// Login handles POST /api/admin/auth/login requests.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, resp)
}

// Statistics handles GET /api/admin/statistics requests.
func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, stats)
}

// MintGlobalCode handles POST /api/admin/discount-codes requests.
func (h *AdminHandler) MintGlobalCode(w http.ResponseWriter, r *http.Request) {
	var req model.MintGlobalCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.MintGlobalCode(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: globalCodeCreatedMessage,
		Data:    resp,
	})
}
