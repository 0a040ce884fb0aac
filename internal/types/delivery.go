package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Delivery is one ledger entry: an inbound event or message and the outcome
// returned to the caller. The body itself is never stored, only its digest.
type Delivery struct {
	DeliveryID    string    `json:"delivery_id"`
	Surface       Surface   `json:"surface"`
	Source        string    `json:"source"`
	Kind          string    `json:"kind"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	PayloadSHA256 string    `json:"payload_sha256"`
	ReceivedAt    time.Time `json:"received_at"`
}

// PayloadDigest returns the hex SHA-256 of a raw request body.
func PayloadDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
