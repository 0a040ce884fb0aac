package types

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

func TestDocumentNumber(t *testing.T) {
	at := time.Date(2025, 11, 5, 14, 30, 0, 0, time.UTC)
	clock := FixedClock(at)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"quote uses last four chars", NewQuoteNumber(clock, "ENQ-2025-7843"), "QUO-251105-7843"},
		{"invoice uses last four chars", NewInvoiceNumber(clock, "ord_ab12cd34"), "INV-251105-cd34"},
		{"exactly four chars", NewQuoteNumber(clock, "1234"), "QUO-251105-1234"},
		{"short id used whole", NewInvoiceNumber(clock, "42"), "INV-251105-42"},
		{"multibyte suffix kept whole", NewQuoteNumber(clock, "ENQ-é123"), "QUO-251105-é123"},
		{"suffix counts characters not bytes", NewInvoiceNumber(clock, "ENQ-Müller-Straße"), "INV-251105-raße"},
		{"short multibyte id used whole", NewQuoteNumber(clock, "ßé"), "QUO-251105-ßé"},
		{"single digit month and day are padded", DocumentNumber(QuotePrefix, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "abcdef"), "QUO-260102-cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("document number = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDocumentNumberShape(t *testing.T) {
	n := NewQuoteNumber(FixedClock(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)), "enquiry-000123")
	parts := strings.Split(n, "-")
	if len(parts) != 3 {
		t.Fatalf("parts = %v, want 3 hyphen separated parts", parts)
	}
	if parts[0] != "QUO" {
		t.Errorf("prefix = %q, want QUO", parts[0])
	}
	if len(parts[1]) != 6 {
		t.Errorf("date = %q, want 6 digits", parts[1])
	}
	if utf8.RuneCountInString(parts[2]) != 4 {
		t.Errorf("suffix = %q, want 4 chars", parts[2])
	}
}

func TestGeneratedIDs(t *testing.T) {
	before := time.Now().Add(-time.Second)

	q := NewQuoteID()
	if !strings.HasPrefix(q, "q_") {
		t.Errorf("NewQuoteID() = %q, want q_ prefix", q)
	}
	inv := NewInvoiceID()
	if !strings.HasPrefix(inv, "inv_") {
		t.Errorf("NewInvoiceID() = %q, want inv_ prefix", inv)
	}
	ids := map[string]string{"q_": q, "inv_": inv, "": NewDeliveryID()}
	for prefix, id := range ids {
		u, err := uuid.Parse(strings.TrimPrefix(id, prefix))
		if err != nil {
			t.Fatalf("uuid.Parse(%q) error = %v", id, err)
		}
		if u.Version() != 7 {
			t.Errorf("%q version = %d, want 7", id, u.Version())
		}
		sec, nsec := u.Time().UnixTime()
		if ts := time.Unix(sec, nsec); ts.Before(before) {
			t.Errorf("%q timestamp = %v, want after %v", id, ts, before)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		raw     string
		ok      bool
		surface Surface
	}{
		{"enquiry.created", true, SurfaceEvent},
		{"payment.received", true, SurfaceEvent},
		{"action.create_quote", true, SurfaceMessage},
		{"query.order_status", true, SurfaceMessage},
		{"Enquiry.Created", false, ""},
		{"foo.bar", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k, ok := ParseKind(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if k.Surface() != tt.surface {
				t.Errorf("Surface() = %q, want %q", k.Surface(), tt.surface)
			}
		})
	}

	if n := len(Kinds(SurfaceEvent)); n != 7 {
		t.Errorf("len(Kinds(event)) = %d, want 7", n)
	}
	if n := len(Kinds(SurfaceMessage)); n != 6 {
		t.Errorf("len(Kinds(message)) = %d, want 6", n)
	}
}

func TestAdvance(t *testing.T) {
	steps := []OrderState{OrderCreated, OrderApproved, OrderProductionScheduled, OrderInvoiced, OrderPaid}
	for i := 0; i+1 < len(steps); i++ {
		got, err := Advance(steps[i], steps[i+1])
		if err != nil {
			t.Fatalf("Advance(%s, %s) error = %v, want nil", steps[i], steps[i+1], err)
		}
		if got != steps[i+1] {
			t.Errorf("Advance(%s, %s) = %s", steps[i], steps[i+1], got)
		}
	}

	invalid := [][2]OrderState{
		{OrderApproved, OrderCreated},
		{OrderCreated, OrderInvoiced},
		{OrderPaid, OrderPaid},
		{"CANCELLED", OrderApproved},
	}
	for _, pair := range invalid {
		if _, err := Advance(pair[0], pair[1]); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Advance(%s, %s) error = %v, want ErrInvalidTransition", pair[0], pair[1], err)
		}
	}
}

func TestHandlerResultConstructors(t *testing.T) {
	if r := Processed(nil); !r.OK() || r.Status != StatusProcessed {
		t.Errorf("Processed() = %+v", r)
	}
	if r := Rejected("no", nil); r.OK() || r.Reason != "no" {
		t.Errorf("Rejected() = %+v", r)
	}
	if r := Ignored("skip"); r.Status != StatusIgnored {
		t.Errorf("Ignored() = %+v", r)
	}
	if r := Failed("boom"); r.Status != StatusError {
		t.Errorf("Failed() = %+v", r)
	}
}
