package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ExampleCustomer is the record StaticCustomers returns for every id.
var ExampleCustomer = Customer{
	Name:               "Acme Construction Ltd",
	Email:              "orders@acme.co.uk",
	Phone:              "+44 20 1234 5678",
	Tier:               "sapphire",
	TierColor:          "blue",
	CreditLimit:        50000,
	OutstandingBalance: 12500,
	AvailableCredit:    37500,
	PaymentTerms:       "30 days",
	LastOrderDate:      "2025-10-15",
	TotalOrders:        47,
	TotalRevenue:       342500,
}

// ExampleQuote is the record StaticQuotes returns for every id.
var ExampleQuote = Quote{
	QuoteNumber:  "QUO-251015-7843",
	Status:       "sent",
	CustomerName: "Acme Construction Ltd",
	TotalAmount:  15750.00,
	Margin:       0.22,
	CreatedAt:    mustTime("2025-10-15T09:30:00Z"),
	SentAt:       mustTime("2025-10-15T14:20:00Z"),
	ExpiresAt:    mustTime("2025-11-14T14:20:00Z"),
	Valid:        true,
	ItemsCount:   12,
	PDFURL:       "https://sharepoint.com/quotes/QUO-251015-7843.pdf",
}

// ExampleOrder is the record StaticOrders returns for every id.
var ExampleOrder = Order{
	OrderNumber:         "ORD-251020-3421",
	Status:              "fabrication",
	CustomerName:        "Acme Construction Ltd",
	TotalAmount:         15750.00,
	CreatedAt:           mustTime("2025-10-20T11:00:00Z"),
	ProductionStart:     mustTime("2025-10-25T08:00:00Z"),
	EstimatedCompletion: mustTime("2025-11-10T17:00:00Z"),
	InstallationDate:    mustTime("2025-11-15T09:00:00Z"),
	Progress:            0.65,
	ItemsCompleted:      8,
	ItemsTotal:          12,
}

// StaticCustomers answers every lookup with ExampleCustomer. Ids listed in
// Missing report ErrNotFound.
type StaticCustomers struct {
	Missing map[string]bool
}

func (s StaticCustomers) Customer(_ context.Context, customerID string) (Customer, error) {
	if s.Missing[customerID] {
		return Customer{}, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}
	c := ExampleCustomer
	c.CustomerID = customerID
	return c, nil
}

// StaticQuotes answers every lookup with ExampleQuote.
type StaticQuotes struct {
	Missing map[string]bool
}

func (s StaticQuotes) Quote(_ context.Context, quoteID string) (Quote, error) {
	if s.Missing[quoteID] {
		return Quote{}, fmt.Errorf("quote %s: %w", quoteID, ErrNotFound)
	}
	q := ExampleQuote
	q.QuoteID = quoteID
	return q, nil
}

// StaticOrders answers every lookup with ExampleOrder.
type StaticOrders struct {
	Missing map[string]bool
}

func (s StaticOrders) Order(_ context.Context, orderID string) (Order, error) {
	if s.Missing[orderID] {
		return Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	o := ExampleOrder
	o.OrderID = orderID
	return o, nil
}

// StaticBureau reports the same score for every customer.
type StaticBureau struct {
	FixedScore int
}

func (b StaticBureau) Score(context.Context, string) (int, error) {
	return b.FixedScore, nil
}

// LeadTimeScheduler schedules production a fixed number of days after
// approval, truncated to the calendar day.
type LeadTimeScheduler struct {
	LeadDays int
}

func (s LeadTimeScheduler) ScheduleProduction(_ context.Context, _ string, approvedAt time.Time) (time.Time, error) {
	day := time.Date(approvedAt.Year(), approvedAt.Month(), approvedAt.Day(), 0, 0, 0, 0, approvedAt.Location())
	return day.AddDate(0, 0, s.LeadDays), nil
}

// DocumentLinks builds PDF links below fixed base URLs.
type DocumentLinks struct {
	QuoteBase   string
	InvoiceBase string
}

// DefaultDocumentLinks publishes quotes on SharePoint and invoices on Xero.
func DefaultDocumentLinks() DocumentLinks {
	return DocumentLinks{
		QuoteBase:   "https://sharepoint.com/quotes/",
		InvoiceBase: "https://xero.com/invoices/",
	}
}

func (d DocumentLinks) QuoteURL(quoteNumber string) string {
	return joinURL(d.QuoteBase, quoteNumber+".pdf")
}

func (d DocumentLinks) InvoiceURL(invoiceNumber string) string {
	return joinURL(d.InvoiceBase, invoiceNumber+".pdf")
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}

// LogNotifier writes notifications to the logger instead of delivering them.
type LogNotifier struct {
	Logger glog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, note Notification) error {
	logger := glog.Ensure(n.Logger).WithContext(ctx)
	logger.Info("notification", "channel", note.Channel, "subject", note.Subject, "ref", note.Ref)
	return nil
}

// Compile-time checks
var (
	_ CustomerDirectory = StaticCustomers{}
	_ QuoteBook         = StaticQuotes{}
	_ OrderBook         = StaticOrders{}
	_ CreditBureau      = StaticBureau{}
	_ Scheduler         = LeadTimeScheduler{}
	_ Documents         = DocumentLinks{}
	_ Notifier          = LogNotifier{}
)
