package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/decision"
	"github.com/solatis/nexusgate/internal/types"
)

func (s *Set) queryCustomerData(ctx context.Context, p CustomerQueryParams) (any, error) {
	c, err := s.deps.Customers.Customer(ctx, p.CustomerID)
	if err != nil {
		return nil, upstream("customer "+p.CustomerID, err)
	}
	return c, nil
}

func (s *Set) queryQuoteStatus(ctx context.Context, p QuoteQueryParams) (any, error) {
	q, err := s.deps.Quotes.Quote(ctx, p.QuoteID)
	if err != nil {
		return nil, upstream("quote "+p.QuoteID, err)
	}
	return q, nil
}

func (s *Set) queryOrderStatus(ctx context.Context, p OrderQueryParams) (any, error) {
	o, err := s.deps.Orders.Order(ctx, p.OrderID)
	if err != nil {
		return nil, upstream("order "+p.OrderID, err)
	}
	return o, nil
}

// CreatedQuote is the result of action.create_quote.
type CreatedQuote struct {
	QuoteID     string  `json:"quote_id"`
	QuoteNumber string  `json:"quote_number"`
	EnquiryID   string  `json:"enquiry_id"`
	CustomerID  string  `json:"customer_id,omitempty"`
	TotalAmount float64 `json:"total_amount"`
	Margin      float64 `json:"margin"`
	decision.ApprovalDecision
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	PDFURL    string    `json:"pdf_url"`
}

func (s *Set) createQuote(_ context.Context, p QuoteParams) (any, error) {
	margin, approval, err := s.priceQuote(p.Items)
	if err != nil {
		return nil, err
	}
	now := s.now()
	number := types.NewQuoteNumber(s.deps.Clock, p.EnquiryID)
	return CreatedQuote{
		QuoteID:          types.NewQuoteID(),
		QuoteNumber:      number,
		EnquiryID:        p.EnquiryID,
		CustomerID:       p.CustomerID,
		TotalAmount:      margin.TotalPrice,
		Margin:           margin.Margin,
		ApprovalDecision: approval,
		Status:           "draft",
		CreatedAt:        now,
		ExpiresAt:        now.AddDate(0, 0, s.deps.QuoteValidityDays),
		PDFURL:           s.deps.Documents.QuoteURL(number),
	}, nil
}

// ApprovedOrder is the result of action.approve_order.
type ApprovedOrder struct {
	OrderID             string    `json:"order_id"`
	Status              string    `json:"status"`
	ApprovedBy          string    `json:"approved_by"`
	ApprovedAt          time.Time `json:"approved_at"`
	ProductionScheduled string    `json:"production_scheduled"`
	InvoiceCreated      string    `json:"invoice_created"`
}

func (s *Set) approveOrder(ctx context.Context, p ApproveOrderParams) (any, error) {
	now := s.now()
	production, err := s.deps.Scheduler.ScheduleProduction(ctx, p.OrderID, now)
	if err != nil {
		return nil, upstream("production scheduling", err)
	}
	s.notify(ctx, capability.Notification{
		Channel: "production_team",
		Subject: fmt.Sprintf("Order %s approved by %s", p.OrderID, p.ApprovedBy),
		Ref:     p.OrderID,
	})
	return ApprovedOrder{
		OrderID:             p.OrderID,
		Status:              "approved",
		ApprovedBy:          p.ApprovedBy,
		ApprovedAt:          now,
		ProductionScheduled: calendarDate(production),
		InvoiceCreated:      types.NewInvoiceNumber(s.deps.Clock, p.OrderID),
	}, nil
}

// SentInvoice is the result of action.send_invoice.
type SentInvoice struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	OrderID       string    `json:"order_id"`
	SentTo        *string   `json:"sent_to"`
	SentAt        time.Time `json:"sent_at"`
	DueDate       string    `json:"due_date"`
	Status        string    `json:"status"`
	PDFURL        string    `json:"pdf_url"`
}

func (s *Set) sendInvoice(ctx context.Context, p SendInvoiceParams) (any, error) {
	now := s.now()
	number := types.NewInvoiceNumber(s.deps.Clock, p.OrderID)
	out := SentInvoice{
		InvoiceID:     types.NewInvoiceID(),
		InvoiceNumber: number,
		OrderID:       p.OrderID,
		SentAt:        now,
		DueDate:       calendarDate(now.AddDate(0, 0, s.deps.PaymentTermsDays)),
		Status:        "sent",
		PDFURL:        s.deps.Documents.InvoiceURL(number),
	}
	if p.CustomerEmail != "" {
		out.SentTo = &p.CustomerEmail
		s.notify(ctx, capability.Notification{
			Channel: "customer",
			Subject: fmt.Sprintf("Invoice %s", number),
			Ref:     p.CustomerEmail,
		})
	}
	return out, nil
}
