package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// ComputeSignature returns the lowercase hex HMAC-SHA256 of body under secret.
func ComputeSignature(secret, body []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks provided against the HMAC-SHA256 of rawBody.
// The signature must be the exact lowercase hex digest; any other byte,
// including a case change, fails. Missing signature or secret returns false.
// Comparison is constant-time to prevent timing attacks.
func VerifySignature(rawBody []byte, provided string, secret []byte) bool {
	if provided == "" || len(secret) == 0 {
		return false
	}
	expected := ComputeSignature(secret, rawBody)
	return hmac.Equal([]byte(provided), []byte(expected))
}

// SignatureHeader returns the header carrying a source's signature,
// e.g. "nexus" -> "X-Nexus-Signature".
func SignatureHeader(source string) string {
	return http.CanonicalHeaderKey("X-" + source + "-Signature")
}
