package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wheeltrack-backend/internal/adapter/validation"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/ledgercsv"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
)

const maxBodyBytes = 1_048_576

// DepositHandler serves the deposit ledger REST API
type DepositHandler struct {
	service   *deposit.DepositService
	validator *validation.Helper
	logger    *slog.Logger
}

// NewDepositHandler creates a new deposit handler; a nil logger falls back to slog.Default
func NewDepositHandler(service *deposit.DepositService, logger *slog.Logger) *DepositHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DepositHandler{
		service:   service,
		validator: validation.NewHelper(),
		logger:    logger,
	}
}

// RecordDeposit handles POST /api/v1/deposits
func (h *DepositHandler) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	var req recordDepositRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := deposit.RecordDepositInput{
		UserID: userIDFrom(r.Context()),
		Type:   domain.DepositType(req.Type),
		Amount: decimal.RequireFromString(req.Amount),
		Notes:  req.Notes,
	}
	input.Date, _ = domain.ParseDate(req.Date)
	if req.BenchmarkPrice != "" {
		price := decimal.RequireFromString(req.BenchmarkPrice)
		input.BenchmarkPrice = &price
	}

	record, err := h.service.RecordDeposit(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDepositResponse(record))
}

// ListDeposits handles GET /api/v1/deposits
func (h *DepositHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListDeposits(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	deposits := make([]depositResponse, 0, len(records))
	for i := range records {
		deposits = append(deposits, toDepositResponse(&records[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{"deposits": deposits})
}

// UpdateNotes handles PATCH /api/v1/deposits/{id}
func (h *DepositHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateNotesRequest
	if !h.decode(w, r, &req) {
		return
	}

	record, err := h.service.UpdateNotes(r.Context(), userIDFrom(r.Context()), id, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDepositResponse(record))
}

// DeleteDeposit handles DELETE /api/v1/deposits/{id}
func (h *DepositHandler) DeleteDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDeposit(r.Context(), userIDFrom(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/v1/deposits/summary
func (h *DepositHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Comparison handles GET /api/v1/deposits/comparison?lumpSumDate=&lumpSumPrice=
func (h *DepositHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	query := comparisonQuery{
		LumpSumDate:  r.URL.Query().Get("lumpSumDate"),
		LumpSumPrice: r.URL.Query().Get("lumpSumPrice"),
	}
	if err := h.validator.ValidateStruct(&query); err != nil {
		writeValidationError(w, err)
		return
	}

	input := deposit.CompareInput{UserID: userIDFrom(r.Context())}
	if query.LumpSumDate != "" {
		date, _ := domain.ParseDate(query.LumpSumDate)
		input.LumpSumDate = &date
	}
	if query.LumpSumPrice != "" {
		price := decimal.RequireFromString(query.LumpSumPrice)
		input.LumpSumPrice = &price
	}

	result, err := h.service.CompareLumpSum(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toComparisonResponse(result))
}

// Export handles GET /api/v1/deposits/export.csv
func (h *DepositHandler) Export(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListDeposits(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="deposits.csv"`)
	// headers are already sent, a failed write can only be logged
	if err := ledgercsv.Write(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "deposit export failed", "records", len(records), "error", err)
	}
}

// decode reads a single JSON object into dst and validates it
func (h *DepositHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body must only contain a single JSON object")
		return false
	}

	if err := h.validator.ValidateStruct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}

	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
