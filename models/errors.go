package models

import "errors"

// Business-rule violations. These are returned to the caller as typed results
// and mapped to HTTP responses in the handlers; they are never retried.
var (
	ErrBillingNotSettled        = errors.New("billing not settled")
	ErrBillingAlreadySettled    = errors.New("billing already settled")
	ErrVisitTerminal            = errors.New("visit is closed")
	ErrIllegalTransition        = errors.New("illegal visit transition")
	ErrOrdersOutstanding        = errors.New("visit has outstanding orders")
	ErrCardInactiveOrExpired    = errors.New("patient card is inactive or expired")
	ErrDuplicatePending         = errors.New("pending pre-registration already exists")
	ErrAlreadyAcknowledged      = errors.New("emergency billing already acknowledged")
	ErrInvalidPaymentMethodData = errors.New("invalid payment method data")
	ErrConcurrentModification   = errors.New("record modified concurrently, refresh and retry")
)
