package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simaogato/wheeltrack-backend/internal/adapter/validation"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// ErrorBody is the JSON envelope of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"` // per-field validation failures
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
		Code:    "invalid_request",
		Message: validation.Message(err),
		Details: validation.Details(err),
	}})
}

// writeDomainError maps usecase errors to HTTP statuses
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoDeposits):
		writeError(w, http.StatusUnprocessableEntity, "no_deposits", err.Error())
	case errors.Is(err, domain.ErrPriceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "price_unavailable", err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusUnprocessableEntity, "invalid_price", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
