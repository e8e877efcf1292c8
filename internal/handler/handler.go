package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"minishop/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal server error"

// statusByCode maps domain error codes to HTTP statuses. Unknown codes are 500.
var statusByCode = map[string]int{
	model.ErrCodeValidation:          http.StatusBadRequest,
	model.ErrCodeEmptyCart:           http.StatusBadRequest,
	model.ErrCodeInsufficientStock:   http.StatusBadRequest,
	model.ErrCodeInvalidDiscountCode: http.StatusBadRequest,
	model.ErrCodeDiscountCodeRace:    http.StatusBadRequest,
	model.ErrCodeOrderNumberMismatch: http.StatusBadRequest,
	model.ErrCodeUserNotFound:        http.StatusNotFound,
	model.ErrCodeProductNotFound:     http.StatusNotFound,
	model.ErrCodeOrderNotFound:       http.StatusNotFound,
	model.ErrCodeUnauthorised:        http.StatusUnauthorized,
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// dataResponse is the success envelope.
type dataResponse struct {
	Data any `json:"data"`
}

// messageResponse is the success envelope for creations.
type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

// writeData wraps data in the success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Data: data})
}

// writeError maps err to a status and writes the error envelope. Domain errors
// carry their own message; anything else is logged and hidden behind a generic one.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   true,
			Message: internalErrorMessage,
			Code:    model.ErrCodeInternalError,
		})
		return
	}

	status := StatusFor(de.Code)
	logger.Warn().
		Str("code", de.Code).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(de.Message)

	writeJSON(w, status, model.ErrorResponse{
		Error:   true,
		Message: de.Message,
		Code:    de.Code,
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// decodeJSON decodes the request body into dest and runs struct validation.
func decodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	// An empty body decodes as the zero value so field validation reports what is missing.
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return model.NewValidationError("Invalid request body")
	}

	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return model.NewValidationError("Validation failed")
	}

	fe := errs[0]
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")

	switch fe.Tag() {
	case "required":
		return model.NewValidationError("%s is required", field)
	case "gte", "min":
		return model.NewValidationError("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return model.NewValidationError("%s must be at most %s", field, fe.Param())
	}
	return model.NewValidationError("%s is invalid", field)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
