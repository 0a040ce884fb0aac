package api

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/solatis/nexusgate/internal/core/auth"
)

// Transport-level failures are classified with go-errors categories and
// mapped to statuses here. Handler outcomes never come through this path:
// they are structured results written with 200.

const (
	TextCodeUnauthorized    = "UNAUTHORIZED"
	TextCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	TextCodeBadRequest      = "BAD_REQUEST"
)

// errInvalidSignature is the single caller-visible reason for every
// authentication failure, so responses do not reveal which sources exist.
const errInvalidSignature = "Invalid signature"

func authError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, errInvalidSignature).
		WithCode(http.StatusUnauthorized).
		WithTextCode(TextCodeUnauthorized)
}

func bodyError(err error) *goerrors.Error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "request body too large").
			WithCode(http.StatusRequestEntityTooLarge).
			WithTextCode(TextCodePayloadTooLarge)
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read request body").
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeBadRequest)
}

// httpStatus maps a classified error to a response status.
func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		if errors.Is(err, auth.ErrInvalidSignature) || errors.Is(err, auth.ErrMissingSignature) || errors.Is(err, auth.ErrUnknownSource) {
			return http.StatusUnauthorized
		}
		return http.StatusInternalServerError
	}
	if rich.Code != 0 {
		return rich.Code
	}
	switch rich.Category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// reason returns the caller-visible message of err.
func reason(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Message
	}
	return err.Error()
}
