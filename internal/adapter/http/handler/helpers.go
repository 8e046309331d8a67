package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Internal failures
// do not leak their cause.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, message, "internal error")
		return
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	// custody failures wrap their cause, so they are matched first
	case errors.Is(err, domain.ErrTransferFailed):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrRaffleNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidEntryAmount),
		errors.Is(err, domain.ErrInvalidDeadline),
		errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidSeed),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrNegativeBalanceNotAllowed),
		errors.Is(err, domain.ErrPositiveBalanceNotAllowed):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrNotAuthority),
		errors.Is(err, domain.ErrNotWinner),
		errors.Is(err, domain.ErrAssetNotOwned),
		errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrAlreadyDrawn),
		errors.Is(err, domain.ErrPrizeAlreadyClaimed),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrRaffleEnded),
		errors.Is(err, domain.ErrMaxEntriesReached):
		return http.StatusConflict

	case errors.Is(err, domain.ErrRaffleNotEnded),
		errors.Is(err, domain.ErrDrawNotComplete),
		errors.Is(err, domain.ErrNoEntries):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrEntropyUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a bounded request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// callerFrom returns the authenticated caller or writes 401.
func callerFrom(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	id, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", domain.ErrUnauthorized.Error())
		return nil, false
	}
	return id, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
