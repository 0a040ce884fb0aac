package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/decision"
	"github.com/solatis/nexusgate/internal/types"
)

// EnquiryCreated is the payload of enquiry.created.
type EnquiryCreated struct {
	EnquiryID            string    `json:"enquiry_id"`
	CreditCheckRequested bool      `json:"credit_check_requested"`
	Actions              []string  `json:"actions"`
	Timestamp            time.Time `json:"timestamp"`
}

func (s *Set) enquiryCreated(ctx context.Context, p EnquiryCreatedParams) (any, error) {
	out := EnquiryCreated{
		EnquiryID: p.EnquiryID,
		Actions: []string{
			"Project folder created in SharePoint",
			"Estimator assigned based on current workload",
		},
		Timestamp: s.now(),
	}
	if s.deps.Policy.NeedsCreditCheck(p.EstimatedValue) {
		out.CreditCheckRequested = true
		out.Actions = append(out.Actions, "Credit check requested via Experian")
	}

	s.notify(ctx, capability.Notification{
		Channel: "sales_team",
		Subject: fmt.Sprintf("New enquiry %s", p.EnquiryID),
		Ref:     p.EnquiryID,
	})
	out.Actions = append(out.Actions, "Sales team notified")
	return out, nil
}

// QuoteRequested is the payload of quote.requested.
type QuoteRequested struct {
	QuoteNumber string  `json:"quote_number"`
	TotalAmount float64 `json:"total_amount"`
	Margin      float64 `json:"margin"`
	decision.ApprovalDecision
	Timestamp time.Time `json:"timestamp"`
}

func (s *Set) quoteRequested(_ context.Context, p QuoteParams) (any, error) {
	margin, approval, err := s.priceQuote(p.Items)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return QuoteRequested{
		QuoteNumber:      types.NewQuoteNumber(s.deps.Clock, p.EnquiryID),
		TotalAmount:      margin.TotalPrice,
		Margin:           margin.Margin,
		ApprovalDecision: approval,
		Timestamp:        now,
	}, nil
}

// OrderApproved is the payload of order.approved.
type OrderApproved struct {
	OrderID             string           `json:"order_id"`
	State               types.OrderState `json:"state"`
	ProductionScheduled string           `json:"production_scheduled"`
	InvoiceCreated      string           `json:"invoice_created"`
	Actions             []string         `json:"actions"`
	Timestamp           time.Time        `json:"timestamp"`
}

func (s *Set) orderApproved(ctx context.Context, p OrderEventParams) (any, error) {
	state, err := advance(p.CurrentState, types.OrderApproved)
	if err != nil {
		return nil, err
	}
	now := s.now()
	production, err := s.deps.Scheduler.ScheduleProduction(ctx, p.OrderID, now)
	if err != nil {
		return nil, upstream("production scheduling", err)
	}
	productionDate := calendarDate(production)
	invoice := types.NewInvoiceNumber(s.deps.Clock, p.OrderID)

	s.notify(ctx, capability.Notification{
		Channel: "production_team",
		Subject: fmt.Sprintf("Order %s approved, production %s", p.OrderID, productionDate),
		Ref:     p.OrderID,
	})
	return OrderApproved{
		OrderID:             p.OrderID,
		State:               state,
		ProductionScheduled: productionDate,
		InvoiceCreated:      invoice,
		Actions: []string{
			fmt.Sprintf("Production scheduled for %s", productionDate),
			fmt.Sprintf("Invoice %s created in Xero", invoice),
			"SharePoint updated with order details",
			"Production team notified",
		},
		Timestamp: now,
	}, nil
}

// CustomerRegistered is the payload of customer.registered.
type CustomerRegistered struct {
	CustomerID string    `json:"customer_id"`
	Actions    []string  `json:"actions"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Set) customerRegistered(ctx context.Context, p CustomerRegisteredParams) (any, error) {
	s.notify(ctx, capability.Notification{
		Channel: "customer",
		Subject: fmt.Sprintf("Welcome %s", p.CustomerName),
		Ref:     p.CustomerID,
	})
	return CustomerRegistered{
		CustomerID: p.CustomerID,
		Actions:    []string{"Customer portal created", "Welcome email sent"},
		Timestamp:  s.now(),
	}, nil
}

// CreditChecked is the payload of credit.check_required.
type CreditChecked struct {
	CustomerID string  `json:"customer_id"`
	OrderValue float64 `json:"order_value"`
	decision.CreditDecision
	Timestamp time.Time `json:"timestamp"`
}

func (s *Set) creditCheckRequired(ctx context.Context, p CreditCheckParams) (any, error) {
	var score int
	if p.CreditScore != nil {
		score = *p.CreditScore
	} else {
		var err error
		score, err = s.deps.Credit.Score(ctx, p.CustomerID)
		if err != nil {
			return nil, upstream("credit bureau", err)
		}
	}
	return CreditChecked{
		CustomerID:     p.CustomerID,
		OrderValue:     *p.OrderValue,
		CreditDecision: s.deps.Policy.Credit(score, *p.OrderValue),
		Timestamp:      s.now(),
	}, nil
}

// InvoiceDue is the payload of invoice.due.
type InvoiceDue struct {
	InvoiceID string           `json:"invoice_id"`
	State     types.OrderState `json:"state"`
	Actions   []string         `json:"actions"`
	Timestamp time.Time        `json:"timestamp"`
}

func (s *Set) invoiceDue(ctx context.Context, p InvoiceDueParams) (any, error) {
	state, err := advance(p.CurrentState, types.OrderInvoiced)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, capability.Notification{
		Channel: "finance_team",
		Subject: fmt.Sprintf("Invoice %s due: %.2f", p.InvoiceID, p.AmountDue),
		Ref:     p.InvoiceID,
	})
	return InvoiceDue{
		InvoiceID: p.InvoiceID,
		State:     state,
		Actions:   []string{"Reminder email sent", "Finance team notified"},
		Timestamp: s.now(),
	}, nil
}

// PaymentReceived is the payload of payment.received.
type PaymentReceived struct {
	PaymentID string           `json:"payment_id"`
	InvoiceID string           `json:"invoice_id,omitempty"`
	State     types.OrderState `json:"state"`
	Actions   []string         `json:"actions"`
	Timestamp time.Time        `json:"timestamp"`
}

func (s *Set) paymentReceived(ctx context.Context, p PaymentReceivedParams) (any, error) {
	state, err := advance(p.CurrentState, types.OrderPaid)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, capability.Notification{
		Channel: "customer",
		Subject: fmt.Sprintf("Payment of %.2f received", p.Amount),
		Ref:     p.PaymentID,
	})
	return PaymentReceived{
		PaymentID: p.PaymentID,
		InvoiceID: p.InvoiceID,
		State:     state,
		Actions:   []string{"Invoice marked as paid", "Customer notified", "Xero updated"},
		Timestamp: s.now(),
	}, nil
}
