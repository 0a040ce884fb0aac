// Package types provides value types shared across the nexusgate components.
//
// Everything here is constructed per request and discarded once the response
// is written. No type in this package holds shared mutable state.
package types

import (
	"encoding/json"
	"time"
)

// Surface identifies which inbound endpoint a kind belongs to.
type Surface string

const (
	// SurfaceEvent is the signed webhook surface (fire-and-forget semantics).
	SurfaceEvent Surface = "event"
	// SurfaceMessage is the synchronous RPC surface.
	SurfaceMessage Surface = "message"
)

// Envelope is the type+payload wrapper for inbound events and messages.
// Params holds the raw "data" (events) or "params" (messages) object and is
// decoded into a typed struct by the handler registered for Type. RequestID
// is the caller's raw JSON value, echoed back without interpretation.
type Envelope struct {
	Type       string
	RequestID  json.RawMessage
	Params     json.RawMessage
	ReceivedAt time.Time
}

// Status is the outcome of a handler invocation.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusRejected  Status = "rejected"
	StatusIgnored   Status = "ignored"
	StatusError     Status = "error"
)

// HandlerResult is what every handler returns. Payload is a typed response
// struct (or nil); Reason is set for anything other than StatusProcessed.
type HandlerResult struct {
	Status  Status
	Payload any
	Reason  string
}

// OK reports whether the result represents successful processing.
func (r HandlerResult) OK() bool {
	return r.Status == StatusProcessed
}

// Processed builds a successful result.
func Processed(payload any) HandlerResult {
	return HandlerResult{Status: StatusProcessed, Payload: payload}
}

// Rejected builds a business-rule rejection carrying supporting numbers.
func Rejected(reason string, payload any) HandlerResult {
	return HandlerResult{Status: StatusRejected, Payload: payload, Reason: reason}
}

// Ignored builds a non-fatal "nothing to do" result.
func Ignored(reason string) HandlerResult {
	return HandlerResult{Status: StatusIgnored, Reason: reason}
}

// Failed builds an error result.
func Failed(reason string) HandlerResult {
	return HandlerResult{Status: StatusError, Reason: reason}
}

// Clock returns the current time. Handlers take a Clock instead of calling
// time.Now so identifiers and timestamps are reproducible in tests.
type Clock func() time.Time

// SystemClock returns the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Resource limits applied at the inbound boundary.
const (
	// MaxBodySize bounds a single webhook or message body.
	MaxBodySize = 1024 * 1024

	// MaxLineItems bounds the number of quote line items evaluated per request.
	MaxLineItems = 1000
)
