// Package apperr defines the error taxonomy shared by the proposal and
// contract services. Handlers translate these into HTTP statuses with
// HTTPStatus; everything else is wrapped as a PersistenceError or returned
// as-is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCircuitOpen is returned by the resilient HTTP client while its circuit
// breaker is open. Callers see it instead of a network error.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ValidationError reports the first field that failed input validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an illegal lifecycle transition or an issuance
// attempt against a proposal that is not approved.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// NotFoundError reports a missing proposal or contract.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError reports a duplicate contract for a proposal.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// PersistenceError wraps a durable-store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TimeoutError reports an outbound call that exceeded its time budget.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPStatus maps an error from the taxonomy onto the status the boundary
// should answer with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		state      *InvalidStateError
		notFound   *NotFoundError
		conflict   *ConflictError
		timeout    *TimeoutError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &state):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrCircuitOpen):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
