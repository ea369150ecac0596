package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means the backend rejected the session token. The
	// caller should route the user to login rather than retry.
	ErrAuthRequired = errors.New("authentication required")

	// ErrVerificationRejected means the backend refused the payment proof.
	// The order stays pending server-side.
	ErrVerificationRejected = errors.New("payment verification rejected")

	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// ValidationError is a backend rejection of the request input, shown inline
// to the user.
type ValidationError struct {
	Status int
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend rejected request (status %d)", e.Status)
	}
	return e.Detail
}

// GatewayError covers transport failures, 5xx responses and an open circuit
// breaker. Surfaced to the user as a generic retryable message.
type GatewayError struct {
	Status int
	Detail string
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shop backend error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("shop backend unreachable: %s", e.Detail)
}
