// Package api provides the HTTP surfaces of the gateway: signed webhook
// events, RPC messages and health.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/core/router"
	"github.com/solatis/nexusgate/internal/types"
)

// MessageSignatureSource names the secret used when the message surface
// requires signatures. Messages carry X-Nexus-Signature.
const MessageSignatureSource = "nexus"

// DeliveryRecorder persists a ledger entry for every routed request.
type DeliveryRecorder interface {
	Record(ctx context.Context, d types.Delivery) error
}

// Options configures a Gateway.
type Options struct {
	Verifier *auth.Verifier
	Events   *router.Router
	Messages *router.Router

	// Recorder is optional; nil disables the delivery ledger.
	Recorder DeliveryRecorder
	Logger   glog.Logger
	Clock    types.Clock

	RequestTimeout          time.Duration
	MaxBodyBytes            int64
	RequireMessageSignature bool

	ServiceName string
	Version     string
}

// Gateway serves the HTTP surfaces.
// Thin orchestration layer delegating to auth, router and handlers.
type Gateway struct {
	verifier *auth.Verifier
	events   *router.Router
	messages *router.Router
	recorder DeliveryRecorder
	logger   glog.Logger
	clock    types.Clock

	requestTimeout          time.Duration
	maxBodyBytes            int64
	requireMessageSignature bool

	serviceName string
	version     string
}

// NewGateway creates a gateway from opts.
func NewGateway(opts Options) (*Gateway, error) {
	if opts.Verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}
	if opts.Events == nil || opts.Events.Surface() != types.SurfaceEvent {
		return nil, errors.New("events router must serve the event surface")
	}
	if opts.Messages == nil || opts.Messages.Surface() != types.SurfaceMessage {
		return nil, errors.New("messages router must serve the message surface")
	}
	if opts.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive, got %v", opts.RequestTimeout)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = types.MaxBodySize
	}
	if opts.Clock == nil {
		opts.Clock = types.SystemClock
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "nexusgate"
	}

	return &Gateway{
		verifier:                opts.Verifier,
		events:                  opts.Events,
		messages:                opts.Messages,
		recorder:                opts.Recorder,
		logger:                  glog.Ensure(opts.Logger),
		clock:                   opts.Clock,
		requestTimeout:          opts.RequestTimeout,
		maxBodyBytes:            opts.MaxBodyBytes,
		requireMessageSignature: opts.RequireMessageSignature,
		serviceName:             opts.ServiceName,
		version:                 opts.Version,
	}, nil
}

// Routes returns the HTTP handler for all surfaces.
func (g *Gateway) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhooks/{source}", g.HandleWebhook)
	mux.HandleFunc("POST /messages/handle", g.HandleMessage)
	mux.HandleFunc("GET /health", g.HandleHealth)
	return mux
}

// dispatch routes env on rt with the per-request deadline. The handler runs
// in its own goroutine so a hung capability cannot hold the connection past
// the deadline; its eventual result is dropped.
func (g *Gateway) dispatch(ctx context.Context, rt *router.Router, env types.Envelope) types.HandlerResult {
	ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	done := make(chan types.HandlerResult, 1)
	go func() {
		done <- rt.Route(ctx, env)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		g.logger.WithContext(ctx).Warn("handler deadline exceeded",
			"surface", string(rt.Surface()), "type", env.Type, "timeout", g.requestTimeout.String())
		return types.Failed(types.ErrTimeout.Error())
	}
}

// record writes a ledger entry. Failures are logged and never reach the
// caller.
func (g *Gateway) record(ctx context.Context, d types.Delivery) {
	if g.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.requestTimeout)
	defer cancel()

	d.DeliveryID = types.NewDeliveryID()
	if err := g.recorder.Record(ctx, d); err != nil {
		g.logger.WithContext(ctx).Error("failed to record delivery",
			"surface", string(d.Surface), "kind", d.Kind, "error", err.Error())
	}
}
