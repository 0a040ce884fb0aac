package router

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/solatis/nexusgate/internal/types"
)

func echo(status types.Status) Handler {
	return HandlerFunc(func(_ context.Context, params json.RawMessage) types.HandlerResult {
		return types.HandlerResult{Status: status, Payload: string(params)}
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects nil handler", func(t *testing.T) {
		_, err := New(types.SurfaceEvent, map[types.Kind]Handler{types.KindEnquiryCreated: nil})
		if err == nil {
			t.Fatal("New() error = nil, want error")
		}
	})

	t.Run("rejects kind from other surface", func(t *testing.T) {
		_, err := New(types.SurfaceEvent, map[types.Kind]Handler{types.KindCreateQuote: echo(types.StatusProcessed)})
		if !errors.Is(err, types.ErrWrongSurface) {
			t.Fatalf("New() error = %v, want ErrWrongSurface", err)
		}
	})

	t.Run("rejects kind outside the closed set", func(t *testing.T) {
		_, err := New(types.SurfaceEvent, map[types.Kind]Handler{types.Kind("foo.bar"): echo(types.StatusProcessed)})
		if !errors.Is(err, types.ErrUnknownKind) {
			t.Fatalf("New() error = %v, want ErrUnknownKind", err)
		}
	})

	t.Run("rejects unknown surface", func(t *testing.T) {
		if _, err := New("batch", nil); err == nil {
			t.Fatal("New() error = nil, want error")
		}
	})

	t.Run("table is copied", func(t *testing.T) {
		table := map[types.Kind]Handler{types.KindEnquiryCreated: echo(types.StatusProcessed)}
		r, err := New(types.SurfaceEvent, table)
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		table[types.KindPaymentReceived] = echo(types.StatusProcessed)

		got := r.Route(context.Background(), types.Envelope{Type: string(types.KindPaymentReceived)})
		if got.Status != types.StatusIgnored {
			t.Errorf("Route() status = %s, want ignored", got.Status)
		}
		if len(r.Kinds()) != 1 {
			t.Errorf("Kinds() = %v, want 1 kind", r.Kinds())
		}
	})
}

func TestRoute(t *testing.T) {
	events, err := New(types.SurfaceEvent, map[types.Kind]Handler{
		types.KindEnquiryCreated: echo(types.StatusProcessed),
	})
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	messages, err := New(types.SurfaceMessage, map[types.Kind]Handler{
		types.KindCreateQuote: echo(types.StatusProcessed),
	})
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	tests := []struct {
		name       string
		router     *Router
		typ        string
		wantStatus types.Status
		wantReason string
	}{
		{"registered event", events, "enquiry.created", types.StatusProcessed, ""},
		{"unknown event", events, "foo.bar", types.StatusIgnored, "Unknown event type: foo.bar"},
		{"case sensitive", events, "Enquiry.Created", types.StatusIgnored, "Unknown event type: Enquiry.Created"},
		{"empty event type", events, "", types.StatusError, "type is required"},
		{"registered message", messages, "action.create_quote", types.StatusProcessed, ""},
		{"unknown message", messages, "query.weather", types.StatusError, "Unknown message type: query.weather"},
		{"event kind on message surface", messages, "enquiry.created", types.StatusError, "Unknown message type: enquiry.created"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.router.Route(context.Background(), types.Envelope{Type: tt.typ, Params: json.RawMessage(`{"k":1}`)})
			if got.Status != tt.wantStatus {
				t.Errorf("Route() status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Route() reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestRoute_PassesParams(t *testing.T) {
	r, _ := New(types.SurfaceEvent, map[types.Kind]Handler{types.KindInvoiceDue: echo(types.StatusProcessed)})
	got := r.Route(context.Background(), types.Envelope{Type: "invoice.due", Params: json.RawMessage(`{"invoice_id":"INV-1"}`)})
	if got.Payload != `{"invoice_id":"INV-1"}` {
		t.Errorf("Route() payload = %v", got.Payload)
	}
}

func TestRoute_RecoversPanic(t *testing.T) {
	boom := HandlerFunc(func(context.Context, json.RawMessage) types.HandlerResult {
		panic("nil map write")
	})
	r, err := New(types.SurfaceMessage, map[types.Kind]Handler{types.KindSendInvoice: boom})
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	got := r.Route(context.Background(), types.Envelope{Type: "action.send_invoice"})
	if got.Status != types.StatusError {
		t.Fatalf("Route() status = %s, want error", got.Status)
	}
	if !strings.Contains(got.Reason, "action.send_invoice") {
		t.Errorf("Route() reason = %q, want mention of type", got.Reason)
	}
}

func TestRoute_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	r, err := New(types.SurfaceEvent, map[types.Kind]Handler{
		types.KindPaymentReceived: echo(types.StatusProcessed),
	}, WithTracer(tp.Tracer("test")))
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	r.Route(context.Background(), types.Envelope{Type: "payment.received"})
	r.Route(context.Background(), types.Envelope{Type: ""})

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "route event" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "route event")
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	if attrs["nexusgate.type"] != "payment.received" || attrs["nexusgate.status"] != "processed" {
		t.Errorf("span attributes = %v", attrs)
	}
	if spans[1].Status().Description != "type is required" {
		t.Errorf("error span status = %+v", spans[1].Status())
	}
}
