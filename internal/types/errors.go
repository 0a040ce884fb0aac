package types

import "errors"

// Sentinel errors for gateway operations.
var (
	// ErrEmptyType indicates an envelope arrived without a type.
	ErrEmptyType = errors.New("type is required")

	// ErrUnknownKind indicates a type outside the closed set of kinds.
	ErrUnknownKind = errors.New("unknown type")

	// ErrWrongSurface indicates a kind registered on the other surface.
	ErrWrongSurface = errors.New("kind does not belong to this surface")

	// ErrInvalidTransition indicates an order state change that is not the
	// single next forward step.
	ErrInvalidTransition = errors.New("invalid order state transition")

	// ErrTooManyLineItems indicates a quote exceeds MaxLineItems.
	ErrTooManyLineItems = errors.New("too many line items")

	// ErrTimeout indicates a handler did not finish within the request deadline.
	ErrTimeout = errors.New("request timed out")
)
