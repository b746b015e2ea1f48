package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrEmptyCart             = errors.New("cart has no items")
	ErrMissingClientSecret   = errors.New("payment service returned no client secret")
	ErrInvalidStage          = errors.New("invalid checkout stage transition")

	ErrNotAuthenticated = errors.New("no active session")
	ErrKeyNotFound      = errors.New("key not found")
)

// NetworkError is a transport-level failure: the request never produced a
// usable response. Callers may keep serving stale data when they have it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthError is a 401 from any downstream call. It is never handled locally;
// the session context owns the teardown.
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed during %s", e.Op)
}

// ValidationError carries field-keyed messages from a 4xx response or from
// local pre-flight checks, for field-level display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PaymentError is a processor-level decline or confirmation failure. It is
// terminal for the checkout attempt and never retried automatically.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPayment(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}
