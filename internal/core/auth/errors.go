package auth

import "errors"

// Verification errors. All of them map to 401; the distinction exists for
// logging only and is never echoed in more detail than the message.
var (
	ErrMissingSignature = errors.New("signature header required")
	ErrUnknownSource    = errors.New("unknown webhook source")
	ErrInvalidSignature = errors.New("invalid signature")
)
