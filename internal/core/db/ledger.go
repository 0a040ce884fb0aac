package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/nexusgate/internal/types"
)

// ledgerTimeLayout is fixed width so lexical order matches time order.
const ledgerTimeLayout = "2006-01-02T15:04:05.000000Z"

// ErrDeliveryNotFound is returned by Get for an unknown delivery id.
var ErrDeliveryNotFound = errors.New("delivery not found")

// deliveryRow mirrors the deliveries table.
type deliveryRow struct {
	DeliveryID    string `db:"delivery_id"`
	Surface       string `db:"surface"`
	Source        string `db:"source"`
	Kind          string `db:"kind"`
	Status        string `db:"status"`
	Reason        string `db:"reason"`
	PayloadSHA256 string `db:"payload_sha256"`
	ReceivedAt    string `db:"received_at"`
}

func (r deliveryRow) delivery() (types.Delivery, error) {
	at, err := time.Parse(ledgerTimeLayout, r.ReceivedAt)
	if err != nil {
		return types.Delivery{}, fmt.Errorf("delivery %s: bad received_at %q: %w", r.DeliveryID, r.ReceivedAt, err)
	}
	return types.Delivery{
		DeliveryID:    r.DeliveryID,
		Surface:       types.Surface(r.Surface),
		Source:        r.Source,
		Kind:          r.Kind,
		Status:        types.Status(r.Status),
		Reason:        r.Reason,
		PayloadSHA256: r.PayloadSHA256,
		ReceivedAt:    at,
	}, nil
}

// StatusCount is one row of the per-status summary.
type StatusCount struct {
	Status types.Status `db:"status"`
	Total  int64        `db:"total"`
}

// DeliveryStore is the append-only delivery ledger.
type DeliveryStore struct {
	queries *Queries
}

// NewDeliveryStore loads the ledger queries for db. The schema must already
// be migrated.
func NewDeliveryStore(db *sqlx.DB) (*DeliveryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &DeliveryStore{queries: queries}, nil
}

// Record appends d. The payload digest and delivery id must be set.
func (s *DeliveryStore) Record(ctx context.Context, d types.Delivery) error {
	if d.DeliveryID == "" {
		return fmt.Errorf("delivery id is required")
	}
	_, err := s.queries.Exec(ctx, "insert-delivery",
		d.DeliveryID,
		string(d.Surface),
		d.Source,
		d.Kind,
		string(d.Status),
		d.Reason,
		d.PayloadSHA256,
		d.ReceivedAt.UTC().Format(ledgerTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery %s: %w", d.DeliveryID, err)
	}
	return nil
}

// Get returns one delivery by id.
func (s *DeliveryStore) Get(ctx context.Context, id string) (types.Delivery, error) {
	var row deliveryRow
	if err := s.queries.Get(ctx, "get-delivery", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Delivery{}, fmt.Errorf("%w: %s", ErrDeliveryNotFound, id)
		}
		return types.Delivery{}, err
	}
	return row.delivery()
}

// Recent returns up to limit deliveries, newest first.
func (s *DeliveryStore) Recent(ctx context.Context, limit int) ([]types.Delivery, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var rows []deliveryRow
	if err := s.queries.Select(ctx, "list-recent-deliveries", &rows, limit); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	out := make([]types.Delivery, 0, len(rows))
	for _, r := range rows {
		d, err := r.delivery()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// CountByStatus summarises the ledger by outcome.
func (s *DeliveryStore) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	if err := s.queries.Select(ctx, "count-deliveries-by-status", &counts); err != nil {
		return nil, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return counts, nil
}
