package types

// Kind is the closed set of event and message types the gateway understands.
// Lookup is exact and case-sensitive.
type Kind string

// Message kinds (RPC surface).
const (
	KindQueryCustomerData Kind = "query.customer_data"
	KindQueryQuoteStatus  Kind = "query.quote_status"
	KindQueryOrderStatus  Kind = "query.order_status"
	KindCreateQuote       Kind = "action.create_quote"
	KindApproveOrder      Kind = "action.approve_order"
	KindSendInvoice       Kind = "action.send_invoice"
)

// Event kinds (webhook surface).
const (
	KindEnquiryCreated      Kind = "enquiry.created"
	KindQuoteRequested      Kind = "quote.requested"
	KindOrderApproved       Kind = "order.approved"
	KindCustomerRegistered  Kind = "customer.registered"
	KindCreditCheckRequired Kind = "credit.check_required"
	KindInvoiceDue          Kind = "invoice.due"
	KindPaymentReceived     Kind = "payment.received"
)

var kindSurfaces = map[Kind]Surface{
	KindQueryCustomerData: SurfaceMessage,
	KindQueryQuoteStatus:  SurfaceMessage,
	KindQueryOrderStatus:  SurfaceMessage,
	KindCreateQuote:       SurfaceMessage,
	KindApproveOrder:      SurfaceMessage,
	KindSendInvoice:       SurfaceMessage,

	KindEnquiryCreated:      SurfaceEvent,
	KindQuoteRequested:      SurfaceEvent,
	KindOrderApproved:       SurfaceEvent,
	KindCustomerRegistered:  SurfaceEvent,
	KindCreditCheckRequired: SurfaceEvent,
	KindInvoiceDue:          SurfaceEvent,
	KindPaymentReceived:     SurfaceEvent,
}

// ParseKind converts a raw type string into a Kind.
// Returns false for anything outside the closed set.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := kindSurfaces[k]
	return k, ok
}

// Surface returns the inbound surface the kind belongs to, or "" for an
// unknown kind.
func (k Kind) Surface() Surface {
	return kindSurfaces[k]
}

// Kinds returns every kind registered for the surface.
func Kinds(s Surface) []Kind {
	var out []Kind
	for k, ks := range kindSurfaces {
		if ks == s {
			out = append(out, k)
		}
	}
	return out
}
