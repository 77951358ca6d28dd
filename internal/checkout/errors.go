package checkout

import (
	"errors"
	"fmt"

	"storefront-service/internal/payments"

	"github.com/shopspring/decimal"
)

// ErrSubmissionInFlight is returned while another submission for the same session is running.
var ErrSubmissionInFlight = errors.New("a submission for this cart is already in progress")

// ValidationError means the order was rejected before any collaborator was called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Reason
}

// ConfigurationError means a collaborator's connection or credentials are unavailable.
type ConfigurationError struct {
	Collaborator string
	Err          error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: %v", e.Collaborator, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CollaboratorError means the collaborator ran the call and reported a failure.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// PostPaymentPersistenceError is a CollaboratorError raised only after the payment
// was captured: the money moved but no order row exists.
type PostPaymentPersistenceError struct {
	TransactionID    string
	ProcessorOrderID string
	Cause            *CollaboratorError
}

func (e *PostPaymentPersistenceError) Error() string {
	return fmt.Sprintf("payment %s captured but order recording failed: %v", e.TransactionID, e.Cause.Err)
}

func (e *PostPaymentPersistenceError) Unwrap() error { return e.Cause }

// AmountMismatchError means the processor captured a payment whose amount or
// currency differs from the order total. No order row is written.
type AmountMismatchError struct {
	TransactionID    string
	ProcessorOrderID string
	Expected         decimal.Decimal
	Captured         decimal.Decimal
	Currency         string
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment %s captured %s %s, order total is %s %s",
		e.TransactionID, e.Captured.StringFixed(2), e.Currency, e.Expected.StringFixed(2), payments.Currency)
}
