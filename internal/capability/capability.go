// Package capability declares the external collaborators the handlers depend
// on: customer, quote and order records, credit scoring, production
// scheduling, document links and notifications.
//
// The gateway does not own any of this data. The Static* implementations in
// this package return fixed example records and are what the binary wires by
// default; real integrations satisfy the same interfaces.
package capability

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when the record does not exist.
var ErrNotFound = errors.New("record not found")

// Customer is the account view returned to callers of query.customer_data.
type Customer struct {
	CustomerID         string  `json:"customer_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Tier               string  `json:"tier"`
	TierColor          string  `json:"tier_color"`
	CreditLimit        float64 `json:"credit_limit"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	AvailableCredit    float64 `json:"available_credit"`
	PaymentTerms       string  `json:"payment_terms"`
	LastOrderDate      string  `json:"last_order_date"`
	TotalOrders        int     `json:"total_orders"`
	TotalRevenue       float64 `json:"total_revenue"`
}

// Quote is the status view of an issued quote.
type Quote struct {
	QuoteID      string    `json:"quote_id"`
	QuoteNumber  string    `json:"quote_number"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	Margin       float64   `json:"margin"`
	CreatedAt    time.Time `json:"created_at"`
	SentAt       time.Time `json:"sent_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Valid        bool      `json:"valid"`
	ItemsCount   int       `json:"items_count"`
	PDFURL       string    `json:"pdf_url"`
}

// Order is the production status view of an order.
type Order struct {
	OrderID             string    `json:"order_id"`
	OrderNumber         string    `json:"order_number"`
	Status              string    `json:"status"`
	CustomerName        string    `json:"customer_name"`
	TotalAmount         float64   `json:"total_amount"`
	CreatedAt           time.Time `json:"created_at"`
	ProductionStart     time.Time `json:"production_start"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
	InstallationDate    time.Time `json:"installation_date"`
	Progress            float64   `json:"progress"`
	ItemsCompleted      int       `json:"items_completed"`
	ItemsTotal          int       `json:"items_total"`
}

// Notification is a fire-and-forget message to a team or customer.
type Notification struct {
	Channel string // e.g. "sales_team", "production_team", "customer"
	Subject string
	Ref     string // business identifier the notification is about
}

type CustomerDirectory interface {
	Customer(ctx context.Context, customerID string) (Customer, error)
}

type QuoteBook interface {
	Quote(ctx context.Context, quoteID string) (Quote, error)
}

type OrderBook interface {
	Order(ctx context.Context, orderID string) (Order, error)
}

// CreditBureau scores a customer's creditworthiness.
type CreditBureau interface {
	Score(ctx context.Context, customerID string) (int, error)
}

// Scheduler books production capacity for an approved order and returns the
// scheduled production date.
type Scheduler interface {
	ScheduleProduction(ctx context.Context, orderID string, approvedAt time.Time) (time.Time, error)
}

// Documents resolves where rendered quote and invoice PDFs are published.
type Documents interface {
	QuoteURL(quoteNumber string) string
	InvoiceURL(invoiceNumber string) string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
