package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/solatis/nexusgate/internal/decision"
	"github.com/solatis/nexusgate/internal/types"
)

// validator is implemented by every params struct. validate reports the
// first missing or malformed field.
type validator interface {
	validate() error
}

// decodeParams unmarshals raw into dst. A missing or null params object
// decodes as empty so validation reports the missing field by name.
func decodeParams(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '{' {
		return invalidParams(errors.New("params must be a JSON object"))
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return invalidParams(fmt.Errorf("invalid params: %w", err))
	}
	return nil
}

func validateItems(items []decision.LineItem) error {
	if len(items) == 0 {
		return missingField("items")
	}
	if len(items) > types.MaxLineItems {
		return invalidParams(fmt.Errorf("%w: %d exceeds %d", types.ErrTooManyLineItems, len(items), types.MaxLineItems))
	}
	if err := decision.ValidateItems(items); err != nil {
		return invalidParams(err)
	}
	return nil
}

// CustomerRef is the customer block carried by enquiry events.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EnquiryCreatedParams struct {
	EnquiryID      string       `json:"enquiry_id"`
	Customer       *CustomerRef `json:"customer"`
	EstimatedValue float64      `json:"estimated_value"`
}

func (p EnquiryCreatedParams) validate() error {
	if p.EnquiryID == "" {
		return missingField("enquiry_id")
	}
	if p.EstimatedValue < 0 {
		return invalidParams(fmt.Errorf("estimated_value must be non-negative, got %v", p.EstimatedValue))
	}
	return nil
}

// QuoteParams is shared by quote.requested and action.create_quote.
type QuoteParams struct {
	EnquiryID    string              `json:"enquiry_id"`
	CustomerID   string              `json:"customer_id"`
	CustomerTier string              `json:"customer_tier"`
	Items        []decision.LineItem `json:"items"`
}

func (p QuoteParams) validate() error {
	if p.EnquiryID == "" {
		return missingField("enquiry_id")
	}
	return validateItems(p.Items)
}

// OrderEventParams is shared by the order lifecycle events. CurrentState is
// optional; when present the transition is checked.
type OrderEventParams struct {
	OrderID      string           `json:"order_id"`
	CustomerID   string           `json:"customer_id"`
	CurrentState types.OrderState `json:"current_state"`
}

func (p OrderEventParams) validate() error {
	if p.OrderID == "" {
		return missingField("order_id")
	}
	return nil
}

type CustomerRegisteredParams struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

func (p CustomerRegisteredParams) validate() error {
	if p.CustomerID == "" {
		return missingField("customer_id")
	}
	return nil
}

type CreditCheckParams struct {
	CustomerID  string   `json:"customer_id"`
	OrderValue  *float64 `json:"order_value"`
	CreditScore *int     `json:"credit_score"`
}

func (p CreditCheckParams) validate() error {
	if p.CustomerID == "" {
		return missingField("customer_id")
	}
	if p.OrderValue == nil {
		return missingField("order_value")
	}
	if *p.OrderValue < 0 {
		return invalidParams(fmt.Errorf("order_value must be non-negative, got %v", *p.OrderValue))
	}
	return nil
}

type InvoiceDueParams struct {
	InvoiceID    string           `json:"invoice_id"`
	CustomerID   string           `json:"customer_id"`
	AmountDue    float64          `json:"amount_due"`
	CurrentState types.OrderState `json:"current_state"`
}

func (p InvoiceDueParams) validate() error {
	if p.InvoiceID == "" {
		return missingField("invoice_id")
	}
	return nil
}

type PaymentReceivedParams struct {
	PaymentID    string           `json:"payment_id"`
	InvoiceID    string           `json:"invoice_id"`
	Amount       float64          `json:"amount"`
	CurrentState types.OrderState `json:"current_state"`
}

func (p PaymentReceivedParams) validate() error {
	if p.PaymentID == "" {
		return missingField("payment_id")
	}
	return nil
}

type CustomerQueryParams struct {
	CustomerID string `json:"customer_id"`
}

func (p CustomerQueryParams) validate() error {
	if p.CustomerID == "" {
		return missingField("customer_id")
	}
	return nil
}

type QuoteQueryParams struct {
	QuoteID string `json:"quote_id"`
}

func (p QuoteQueryParams) validate() error {
	if p.QuoteID == "" {
		return missingField("quote_id")
	}
	return nil
}

type OrderQueryParams struct {
	OrderID string `json:"order_id"`
}

func (p OrderQueryParams) validate() error {
	if p.OrderID == "" {
		return missingField("order_id")
	}
	return nil
}

type ApproveOrderParams struct {
	OrderID    string `json:"order_id"`
	ApprovedBy string `json:"approved_by"`
}

func (p ApproveOrderParams) validate() error {
	if p.OrderID == "" {
		return missingField("order_id")
	}
	if p.ApprovedBy == "" {
		return missingField("approved_by")
	}
	return nil
}

type SendInvoiceParams struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
}

func (p SendInvoiceParams) validate() error {
	if p.OrderID == "" {
		return missingField("order_id")
	}
	return nil
}
