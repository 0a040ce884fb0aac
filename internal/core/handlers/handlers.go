// Package handlers implements the business handlers behind every event and
// message kind.
//
// Each handler decodes a typed params struct, validates it, calls into the
// decision engine and capabilities, and returns a typed payload. Errors are
// classified with go-errors categories and converted into a HandlerResult
// at the handler boundary; nothing escapes to the transport layer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/core/router"
	"github.com/solatis/nexusgate/internal/decision"
	"github.com/solatis/nexusgate/internal/types"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Policy decision.Policy
	Clock  types.Clock

	Customers capability.CustomerDirectory
	Quotes    capability.QuoteBook
	Orders    capability.OrderBook
	Credit    capability.CreditBureau
	Scheduler capability.Scheduler
	Documents capability.Documents
	Notifier  capability.Notifier

	QuoteValidityDays int
	PaymentTermsDays  int

	Logger glog.Logger
}

// DefaultDeps wires the static capabilities with the default policy.
func DefaultDeps() Deps {
	return Deps{
		Policy:            decision.DefaultPolicy(),
		Clock:             types.SystemClock,
		Customers:         capability.StaticCustomers{},
		Quotes:            capability.StaticQuotes{},
		Orders:            capability.StaticOrders{},
		Credit:            capability.StaticBureau{FixedScore: 750},
		Scheduler:         capability.LeadTimeScheduler{LeadDays: 7},
		Documents:         capability.DefaultDocumentLinks(),
		Notifier:          capability.LogNotifier{},
		QuoteValidityDays: 30,
		PaymentTermsDays:  30,
	}
}

func (d Deps) validate() error {
	missing := func(name string) error { return fmt.Errorf("handlers: %s is required", name) }
	switch {
	case d.Clock == nil:
		return missing("clock")
	case d.Customers == nil:
		return missing("customer directory")
	case d.Quotes == nil:
		return missing("quote book")
	case d.Orders == nil:
		return missing("order book")
	case d.Credit == nil:
		return missing("credit bureau")
	case d.Scheduler == nil:
		return missing("scheduler")
	case d.Documents == nil:
		return missing("documents")
	case d.Notifier == nil:
		return missing("notifier")
	}
	if d.QuoteValidityDays < 0 || d.PaymentTermsDays < 0 {
		return errors.New("handlers: day offsets must be non-negative")
	}
	return d.Policy.Validate()
}

// Set holds the handler tables for both surfaces.
type Set struct {
	deps   Deps
	logger glog.Logger
}

// NewSet validates deps and builds a handler set.
func NewSet(deps Deps) (*Set, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &Set{deps: deps, logger: glog.Ensure(deps.Logger)}, nil
}

// Events returns the webhook handler table.
func (s *Set) Events() map[types.Kind]router.Handler {
	return map[types.Kind]router.Handler{
		types.KindEnquiryCreated:      handle(s.enquiryCreated),
		types.KindQuoteRequested:      handle(s.quoteRequested),
		types.KindOrderApproved:       handle(s.orderApproved),
		types.KindCustomerRegistered:  handle(s.customerRegistered),
		types.KindCreditCheckRequired: handle(s.creditCheckRequired),
		types.KindInvoiceDue:          handle(s.invoiceDue),
		types.KindPaymentReceived:     handle(s.paymentReceived),
	}
}

// Messages returns the RPC handler table.
func (s *Set) Messages() map[types.Kind]router.Handler {
	return map[types.Kind]router.Handler{
		types.KindQueryCustomerData: handle(s.queryCustomerData),
		types.KindQueryQuoteStatus:  handle(s.queryQuoteStatus),
		types.KindQueryOrderStatus:  handle(s.queryOrderStatus),
		types.KindCreateQuote:       handle(s.createQuote),
		types.KindApproveOrder:      handle(s.approveOrder),
		types.KindSendInvoice:       handle(s.sendInvoice),
	}
}

// handle adapts a typed handler function to router.Handler: decode,
// validate, run, classify.
func handle[P validator](fn func(ctx context.Context, p P) (any, error)) router.Handler {
	return router.HandlerFunc(func(ctx context.Context, raw json.RawMessage) types.HandlerResult {
		var p P
		if err := decodeParams(raw, &p); err != nil {
			return resultFor(err)
		}
		if err := p.validate(); err != nil {
			return resultFor(err)
		}
		payload, err := fn(ctx, p)
		if err != nil {
			return resultFor(err)
		}
		return types.Processed(payload)
	})
}

func (s *Set) now() time.Time {
	return s.deps.Clock()
}

// notify sends n and logs a failure; notifications never fail a handler.
func (s *Set) notify(ctx context.Context, n capability.Notification) {
	if err := s.deps.Notifier.Notify(ctx, n); err != nil {
		s.logger.WithContext(ctx).Warn("notification failed",
			"channel", n.Channel, "ref", n.Ref, "error", err.Error())
	}
}

// priceQuote applies the margin gate and approval thresholds.
func (s *Set) priceQuote(items []decision.LineItem) (decision.MarginResult, decision.ApprovalDecision, error) {
	margin := decision.CalculateMargin(items)
	if err := s.deps.Policy.CheckMargin(margin); err != nil {
		return margin, decision.ApprovalDecision{}, rejection(s.deps.Policy.MarginRejectionReason(), map[string]any{
			"margin":          margin.Margin,
			"required_margin": s.deps.Policy.MinMargin,
		})
	}
	return margin, s.deps.Policy.Approval(margin.TotalPrice), nil
}

// advance checks an optional reported state against the target state.
func advance(current, target types.OrderState) (types.OrderState, error) {
	if current == "" {
		return target, nil
	}
	st, err := types.Advance(current, target)
	if err != nil {
		return current, rejection(err.Error(), map[string]any{
			"current_state":   string(current),
			"requested_state": string(target),
		})
	}
	return st, nil
}

// calendarDate formats t as YYYY-MM-DD.
func calendarDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
