package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/decision"
	"github.com/solatis/nexusgate/internal/types"
)

func TestQueries(t *testing.T) {
	s, _ := newTestSet(t)
	messages := s.Messages()

	cust := call(t, messages, types.KindQueryCustomerData, `{"customer_id":"CUST-001"}`)
	if c, ok := cust.Payload.(capability.Customer); !ok || c.CustomerID != "CUST-001" || c.Tier != "sapphire" {
		t.Errorf("query.customer_data = %+v", cust)
	}

	quote := call(t, messages, types.KindQueryQuoteStatus, `{"quote_id":"q_42"}`)
	if m := asMap(t, quote.Payload); m["quote_id"] != "q_42" || m["status"] != "sent" || m["expires_at"] != "2025-11-14T14:20:00Z" {
		t.Errorf("query.quote_status = %v", m)
	}

	order := call(t, messages, types.KindQueryOrderStatus, `{"order_id":"ORD-3421"}`)
	if m := asMap(t, order.Payload); m["order_id"] != "ORD-3421" || m["progress"] != 0.65 {
		t.Errorf("query.order_status = %v", m)
	}
}

func TestQueries_NotFound(t *testing.T) {
	s, _ := newTestSet(t, func(d *Deps) {
		d.Customers = capability.StaticCustomers{Missing: map[string]bool{"CUST-GONE": true}}
	})

	got := call(t, s.Messages(), types.KindQueryCustomerData, `{"customer_id":"CUST-GONE"}`)
	if got.Status != types.StatusError || got.Reason != "customer CUST-GONE not found" {
		t.Errorf("result = %+v", got)
	}
}

func TestCreateQuote(t *testing.T) {
	s, _ := newTestSet(t)
	got := call(t, s.Messages(), types.KindCreateQuote,
		`{"enquiry_id":"ENQ-2025-7843","customer_id":"CUST-001","items":[{"cost":20000,"price":30000}]}`)
	if !got.OK() {
		t.Fatalf("result = %+v, want processed", got)
	}

	out := got.Payload.(CreatedQuote)
	if out.QuoteNumber != "QUO-251105-7843" {
		t.Errorf("QuoteNumber = %s, want QUO-251105-7843", out.QuoteNumber)
	}
	if !isUUIDv7(out.QuoteID, "q_") {
		t.Errorf("QuoteID = %s, want q_<uuidv7>", out.QuoteID)
	}
	if out.Status != "draft" || out.CustomerID != "CUST-001" {
		t.Errorf("quote = %+v", out)
	}
	if !out.ExpiresAt.Equal(testNow.AddDate(0, 0, 30)) {
		t.Errorf("ExpiresAt = %v, want +30 days", out.ExpiresAt)
	}
	if out.PDFURL != "https://sharepoint.com/quotes/QUO-251105-7843.pdf" {
		t.Errorf("PDFURL = %s", out.PDFURL)
	}
	if !out.Needed || out.Tier != decision.TierT3Manager {
		t.Errorf("approval = %+v, want T3", out.ApprovalDecision)
	}
}

func TestCreateQuote_MarginRejected(t *testing.T) {
	s, _ := newTestSet(t)
	got := call(t, s.Messages(), types.KindCreateQuote,
		`{"enquiry_id":"ENQ-2025-7843","items":[{"cost":100,"price":110}]}`)
	if got.Status != types.StatusRejected || got.Reason != "Margin below minimum (15%)" {
		t.Errorf("result = %+v", got)
	}
}

func TestCreateQuote_RepeatedCallsAgreeOnAmounts(t *testing.T) {
	s, _ := newTestSet(t, func(d *Deps) { d.Clock = types.SystemClock })

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("margin and total_amount are stable across calls", prop.ForAll(
		func(costs []float64, markup float64) bool {
			items := make([]decision.LineItem, len(costs))
			for i, c := range costs {
				items[i] = decision.LineItem{Cost: c, Price: c * markup}
			}
			first := createQuoteFor(t, s, items)
			second := createQuoteFor(t, s, items)
			if first.Status != second.Status {
				return false
			}
			if !first.OK() {
				return first.Reason == second.Reason
			}
			a, b := first.Payload.(CreatedQuote), second.Payload.(CreatedQuote)
			return a.Margin == b.Margin && a.TotalAmount == b.TotalAmount && a.ApprovalDecision == b.ApprovalDecision
		},
		gen.SliceOfN(5, gen.Float64Range(1, 50000)),
		gen.Float64Range(1, 3),
	))

	properties.TestingRun(t)
}

func createQuoteFor(t *testing.T, s *Set, items []decision.LineItem) types.HandlerResult {
	t.Helper()
	params, err := jsonMarshal(QuoteParams{EnquiryID: "ENQ-2025-7843", Items: items})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return call(t, s.Messages(), types.KindCreateQuote, params)
}

func TestApproveOrder(t *testing.T) {
	s, _ := newTestSet(t)
	got := call(t, s.Messages(), types.KindApproveOrder, `{"order_id":"ORD-251020-3421","approved_by":"j.smith"}`)
	if !got.OK() {
		t.Fatalf("result = %+v, want processed", got)
	}
	m := asMap(t, got.Payload)
	want := map[string]any{
		"order_id":             "ORD-251020-3421",
		"status":               "approved",
		"approved_by":          "j.smith",
		"approved_at":          testNow.Format(time.RFC3339),
		"production_scheduled": "2025-11-12",
		"invoice_created":      "INV-251105-3421",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v, want %v", k, m[k], v)
		}
	}
}

func TestSendInvoice(t *testing.T) {
	s, notifier := newTestSet(t)

	got := call(t, s.Messages(), types.KindSendInvoice, `{"order_id":"ORD-251020-3421","customer_email":"orders@acme.co.uk"}`)
	if !got.OK() {
		t.Fatalf("result = %+v, want processed", got)
	}
	out := got.Payload.(SentInvoice)
	if out.InvoiceNumber != "INV-251105-3421" || out.DueDate != "2025-12-05" {
		t.Errorf("invoice = %+v", out)
	}
	if out.SentTo == nil || *out.SentTo != "orders@acme.co.uk" {
		t.Errorf("SentTo = %v", out.SentTo)
	}
	if out.PDFURL != "https://xero.com/invoices/INV-251105-3421.pdf" {
		t.Errorf("PDFURL = %s", out.PDFURL)
	}
	if !isUUIDv7(out.InvoiceID, "inv_") {
		t.Errorf("InvoiceID = %s, want inv_<uuidv7>", out.InvoiceID)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.sent))
	}

	noEmail := call(t, s.Messages(), types.KindSendInvoice, `{"order_id":"ORD-1"}`)
	if m := asMap(t, noEmail.Payload); m["sent_to"] != nil {
		t.Errorf("sent_to = %v, want null", m["sent_to"])
	}
}

func isUUIDv7(id, prefix string) bool {
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	u, err := uuid.Parse(strings.TrimPrefix(id, prefix))
	return err == nil && u.Version() == 7
}
