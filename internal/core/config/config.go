// Package config provides configuration management for the nexusgate gateway.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/solatis/nexusgate/internal/decision"
)

// EnvPrefix prefixes every environment variable read by the gateway.
const EnvPrefix = "NG"

// webhookSecretPrefix prefixes per-source webhook secrets:
// NG_WEBHOOK_SECRET_NEXUS=<secret> configures source "nexus".
const webhookSecretPrefix = EnvPrefix + "_WEBHOOK_SECRET_"

// minSecretLength rejects trivially guessable secrets.
const minSecretLength = 16

// GatewayConfig holds configuration for the HTTP gateway.
type GatewayConfig struct {
	Host              string
	Port              int
	GRPCHealthPort    int // 0 disables the gRPC health service
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
	ServiceName       string

	// RequireMessageSignature makes the RPC surface verify X-Nexus-Signature
	// like the webhook surface does.
	RequireMessageSignature bool

	Policy       decision.Policy
	Terms        Terms
	OTelEndpoint string // empty disables tracing export

	// DatabaseURL locates the delivery ledger; empty disables it.
	DatabaseURL string
}

// Terms are the calendar offsets used when handlers derive dates.
type Terms struct {
	ProductionLeadDays int
	PaymentTermsDays   int
	QuoteValidityDays  int
	DefaultCreditScore int
}

// DefaultGatewayConfig returns configuration with default values.
func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		Host:              "0.0.0.0",
		Port:              8000,
		GRPCHealthPort:    0,
		RequestTimeout:    5 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxBodyBytes:      1 << 20,
		ServiceName:       "nexusgate",
		Policy:            decision.DefaultPolicy(),
		Terms: Terms{
			ProductionLeadDays: 7,
			PaymentTermsDays:   30,
			QuoteValidityDays:  30,
			DefaultCreditScore: 750,
		},
	}
}

// Addr returns host:port for the HTTP listener.
func (c *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WebhookSecrets extracts webhook secrets from environment variables.
// Each NG_WEBHOOK_SECRET_<SOURCE> variable configures one source; the source
// name is the lower-cased suffix. Returns map of source -> secret bytes.
func WebhookSecrets() (map[string][]byte, error) {
	return webhookSecretsFrom(os.Environ())
}

func webhookSecretsFrom(environ []string) (map[string][]byte, error) {
	secrets := make(map[string][]byte)

	// Sorted for deterministic error reporting.
	sort.Strings(environ)
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, webhookSecretPrefix) {
			continue
		}
		source := strings.ToLower(strings.TrimPrefix(key, webhookSecretPrefix))
		if source == "" {
			return nil, fmt.Errorf("%s: source name missing", key)
		}
		secret, err := ParseWebhookSecret(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := secrets[source]; exists {
			return nil, fmt.Errorf("duplicate webhook secret for source '%s'", source)
		}
		secrets[source] = secret
	}

	return secrets, nil
}

// ParseWebhookSecret validates a raw secret value.
func ParseWebhookSecret(envValue string) ([]byte, error) {
	secret := strings.TrimSpace(envValue)
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("secret must be at least %d bytes, got %d", minSecretLength, len(secret))
	}
	return []byte(secret), nil
}
