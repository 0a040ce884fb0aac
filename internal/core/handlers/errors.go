package handlers

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/types"
)

// Text codes attached to handler errors.
const (
	TextCodeMissingField   = "MISSING_FIELD"
	TextCodeInvalidParams  = "INVALID_PARAMS"
	TextCodeBusinessRule   = "BUSINESS_RULE"
	TextCodeNotFound       = "NOT_FOUND"
	TextCodeUpstreamFailed = "UPSTREAM_FAILED"
)

// missingField reports an absent required parameter.
func missingField(field string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("%s is required", field), goerrors.CategoryValidation).
		WithTextCode(TextCodeMissingField).
		WithMetadata(map[string]any{"field": field})
}

// invalidParams reports params that are present but malformed.
func invalidParams(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(TextCodeInvalidParams)
}

// rejection is a deliberate business outcome. Metadata becomes the payload
// of the rejected result.
func rejection(reason string, details map[string]any) *goerrors.Error {
	return goerrors.New(reason, goerrors.CategoryBadInput).
		WithTextCode(TextCodeBusinessRule).
		WithMetadata(details)
}

// upstream classifies a capability failure.
func upstream(what string, err error) *goerrors.Error {
	if errors.Is(err, capability.ErrNotFound) {
		return goerrors.Wrap(err, goerrors.CategoryNotFound, what+" not found").
			WithTextCode(TextCodeNotFound)
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, what+" failed").
		WithTextCode(TextCodeUpstreamFailed)
}

// resultFor converts a handler error into the structured result returned to
// the caller. Only business rejections carry a payload.
func resultFor(err error) types.HandlerResult {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return types.Failed(err.Error())
	}
	if rich.Category == goerrors.CategoryBadInput {
		payload := map[string]any{}
		for k, v := range rich.Metadata {
			payload[k] = v
		}
		return types.Rejected(rich.Message, payload)
	}
	return types.Failed(rich.Message)
}
