// Package auth provides HMAC-SHA256 webhook signature verification.
package auth

import (
	"sort"
	"strings"
)

// Verifier validates inbound webhook signatures.
// Holds the per-source secret map loaded once at startup; read-only afterwards.
type Verifier struct {
	secrets map[string][]byte
}

// NewVerifier creates a verifier for the given source -> secret map.
// Source names are matched case-insensitively.
func NewVerifier(secrets map[string][]byte) *Verifier {
	normalized := make(map[string][]byte, len(secrets))
	for source, secret := range secrets {
		normalized[normalizeSource(source)] = secret
	}
	return &Verifier{secrets: normalized}
}

// Verify checks signature for body as sent by source.
// Returns a specific error for each failure mode; all of them are fatal for
// the request.
func (v *Verifier) Verify(source string, body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	secret, ok := v.secret(source)
	if !ok {
		return ErrUnknownSource
	}
	if !VerifySignature(body, signature, secret) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the signature a source would attach to body.
// Used by the sign command and by tests.
func (v *Verifier) Sign(source string, body []byte) (string, error) {
	secret, ok := v.secret(source)
	if !ok {
		return "", ErrUnknownSource
	}
	return ComputeSignature(secret, body), nil
}

// Sources lists the configured webhook sources in sorted order.
func (v *Verifier) Sources() []string {
	out := make([]string, 0, len(v.secrets))
	for s := range v.secrets {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (v *Verifier) secret(source string) ([]byte, bool) {
	if v == nil {
		return nil, false
	}
	secret, ok := v.secrets[normalizeSource(source)]
	if !ok || len(secret) == 0 {
		return nil, false
	}
	return secret, true
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}
