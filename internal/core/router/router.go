// Package router resolves an inbound envelope to the handler registered for
// its kind.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"

	glog "github.com/goliatone/go-logger/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/solatis/nexusgate/internal/types"
)

/*
 * Kind-to-handler dispatch for one inbound surface.
 *
 * A Router owns an immutable table built once by New. The table is copied on
 * construction so later writes to the caller's map cannot change routing, and
 * every key is checked against the surface it was built for: an event router
 * never serves a message kind and vice versa.
 *
 * Routing outcomes:
 *   - empty type: error "type is required"
 *   - type outside the table: ignored (event) or error (message)
 *   - handler panic: recovered, error result, stack logged
 *
 * Lookup is exact and case-sensitive. "Enquiry.Created" is unknown.
 */

const tracerName = "github.com/solatis/nexusgate/internal/core/router"

// Handler processes the params of one kind.
type Handler interface {
	Handle(ctx context.Context, params json.RawMessage) types.HandlerResult
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, params json.RawMessage) types.HandlerResult

func (f HandlerFunc) Handle(ctx context.Context, params json.RawMessage) types.HandlerResult {
	return f(ctx, params)
}

// Router dispatches envelopes of one surface.
type Router struct {
	surface  types.Surface
	handlers map[types.Kind]Handler
	tracer   trace.Tracer
	logger   glog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for recovered panics and routing traces.
func WithLogger(l glog.Logger) Option {
	return func(r *Router) { r.logger = glog.Ensure(l) }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Router) {
		if t != nil {
			r.tracer = t
		}
	}
}

// New builds a router for surface from handlers.
// Returns error if a handler is nil, a kind is outside the closed set, or a
// kind belongs to another surface.
func New(surface types.Surface, handlers map[types.Kind]Handler, opts ...Option) (*Router, error) {
	if surface != types.SurfaceEvent && surface != types.SurfaceMessage {
		return nil, fmt.Errorf("unknown surface %q", surface)
	}

	table := make(map[types.Kind]Handler, len(handlers))
	for kind, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler for %s is nil", kind)
		}
		if _, ok := types.ParseKind(string(kind)); !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
		}
		if kind.Surface() != surface {
			return nil, fmt.Errorf("%w: %s registered on %s surface", types.ErrWrongSurface, kind, surface)
		}
		table[kind] = h
	}

	r := &Router{
		surface:  surface,
		handlers: table,
		tracer:   otel.Tracer(tracerName),
		logger:   glog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Surface returns the surface the router serves.
func (r *Router) Surface() types.Surface {
	return r.surface
}

// Kinds returns the registered kinds in sorted order.
func (r *Router) Kinds() []types.Kind {
	kinds := make([]types.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Route dispatches env to its handler and returns the handler's result.
// Never panics.
func (r *Router) Route(ctx context.Context, env types.Envelope) (result types.HandlerResult) {
	ctx, span := r.tracer.Start(ctx, "route "+string(r.surface),
		trace.WithAttributes(
			attribute.String("nexusgate.surface", string(r.surface)),
			attribute.String("nexusgate.type", env.Type),
		),
	)
	defer func() {
		span.SetAttributes(attribute.String("nexusgate.status", string(result.Status)))
		if result.Status == types.StatusError {
			span.SetStatus(codes.Error, result.Reason)
		}
		span.End()
	}()

	if env.Type == "" {
		return types.Failed(types.ErrEmptyType.Error())
	}

	h, ok := r.handlers[types.Kind(env.Type)]
	if !ok {
		return r.unknown(env.Type)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.WithContext(ctx).Error("handler panic recovered",
				"type", env.Type, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			result = types.Failed(fmt.Sprintf("internal error handling %s", env.Type))
		}
	}()

	result = h.Handle(ctx, env.Params)
	r.logger.WithContext(ctx).Debug("routed", "surface", string(r.surface), "type", env.Type, "status", string(result.Status))
	return result
}

// unknown reports a type with no handler. Events are fire-and-forget so an
// unknown event is ignored; an RPC caller is waiting on an answer and gets an
// error.
func (r *Router) unknown(typ string) types.HandlerResult {
	if r.surface == types.SurfaceEvent {
		return types.Ignored(fmt.Sprintf("Unknown event type: %s", typ))
	}
	return types.Failed(fmt.Sprintf("Unknown message type: %s", typ))
}
