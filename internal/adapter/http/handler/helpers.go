package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAmountTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingOwner):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotWithdrawal):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAdminRequired):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
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

// requireUser extracts the authenticated user or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", domain.ErrUnauthorized.Error())
		return nil, false
	}
	return user, true
}

// idempotencyKeyFromHeader returns the Idempotency-Key header as a pointer,
// nil when absent.
func idempotencyKeyFromHeader(r *http.Request) *string {
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		return nil
	}
	return &key
}
