package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
)

const maxBodyBytes = 1 << 20

// Retrier re-runs an operation that lost a database race.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

func retrierOrDefault(r Retrier) Retrier {
	if r == nil {
		return noRetry{}
	}
	return r
}

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

// writeDomainError maps err to a status and writes it. Internal errors do not
// leak their details.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, message, "")
		return
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateReference):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccountFrozen):
		return http.StatusLocked
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrGatewayRejected):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrWebhookRejected):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrWithdrawalNotFound),
		errors.Is(err, domain.ErrMarathonNotFound),
		errors.Is(err, domain.ErrPayoutWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWalletNotOwned):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrMarathonNotActive),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPaymentNotPending),
		errors.Is(err, domain.ErrPendingPaymentExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a size-limited JSON body into req and runs its validate
// tags. An empty body is accepted when allowEmpty is set.
func decodeJSON(r *http.Request, req any, allowEmpty bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(req)
	if errors.Is(err, io.EOF) && allowEmpty {
		err = nil
	}
	if err != nil {
		return err
	}

	return dto.Validate(req)
}

// currentUser returns the authenticated caller or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return nil, false
	}
	return user, true
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
