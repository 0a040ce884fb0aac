package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes. Other services parse these numbers, so the
// format <PREFIX>-<YYMMDD>-<suffix> must not change.
const (
	QuotePrefix   = "QUO"
	InvoicePrefix = "INV"

	documentDateLayout = "060102"
	suffixLength       = 4
)

// NewQuoteNumber builds QUO-<YYMMDD>-<last 4 chars of enquiryID>.
func NewQuoteNumber(clock Clock, enquiryID string) string {
	return DocumentNumber(QuotePrefix, clock(), enquiryID)
}

// NewInvoiceNumber builds INV-<YYMMDD>-<last 4 chars of orderID>.
func NewInvoiceNumber(clock Clock, orderID string) string {
	return DocumentNumber(InvoicePrefix, clock(), orderID)
}

// DocumentNumber formats a cross-system document number. The suffix counts
// characters, not bytes; source ids shorter than four characters are used
// whole.
func DocumentNumber(prefix string, at time.Time, sourceID string) string {
	suffix := sourceID
	if r := []rune(sourceID); len(r) > suffixLength {
		suffix = string(r[len(r)-suffixLength:])
	}
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format(documentDateLayout), suffix)
}

// NewDeliveryID generates a UUIDv7 identifier for a ledger entry.
// Time-ordered IDs keep sequential inserts clustered in the index.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewDeliveryID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewQuoteID generates the internal identifier of a drafted quote.
func NewQuoteID() string {
	return "q_" + uuid.Must(uuid.NewV7()).String()
}

// NewInvoiceID generates the internal identifier of an issued invoice.
func NewInvoiceID() string {
	return "inv_" + uuid.Must(uuid.NewV7()).String()
}
