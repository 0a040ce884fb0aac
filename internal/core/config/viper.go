package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*GatewayConfig, error) {
	v := viper.New()
	def := DefaultGatewayConfig()

	// Set defaults matching DefaultGatewayConfig
	v.SetDefault("gateway.host", def.Host)
	v.SetDefault("gateway.port", def.Port)
	v.SetDefault("gateway.grpc_health_port", def.GRPCHealthPort)
	v.SetDefault("gateway.request_timeout", def.RequestTimeout.String())
	v.SetDefault("gateway.read_header_timeout", def.ReadHeaderTimeout.String())
	v.SetDefault("gateway.shutdown_timeout", def.ShutdownTimeout.String())
	v.SetDefault("gateway.max_body_bytes", def.MaxBodyBytes)
	v.SetDefault("gateway.service_name", def.ServiceName)
	v.SetDefault("messages.require_signature", false)
	v.SetDefault("policy.min_margin", def.Policy.MinMargin)
	v.SetDefault("policy.manager_approval_above", def.Policy.ManagerApprovalAbove)
	v.SetDefault("policy.senior_approval_above", def.Policy.SeniorApprovalAbove)
	v.SetDefault("policy.credit_check_above", def.Policy.CreditCheckAbove)
	v.SetDefault("policy.production_lead_days", def.Terms.ProductionLeadDays)
	v.SetDefault("policy.payment_terms_days", def.Terms.PaymentTermsDays)
	v.SetDefault("policy.quote_validity_days", def.Terms.QuoteValidityDays)
	v.SetDefault("policy.default_credit_score", def.Terms.DefaultCreditScore)
	v.SetDefault("telemetry.otel_endpoint", "")
	v.SetDefault("database.url", "")

	// Bind environment variables with NG_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets must be environment-only
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &GatewayConfig{
		Host:                    v.GetString("gateway.host"),
		Port:                    v.GetInt("gateway.port"),
		GRPCHealthPort:          v.GetInt("gateway.grpc_health_port"),
		RequestTimeout:          v.GetDuration("gateway.request_timeout"),
		ReadHeaderTimeout:       v.GetDuration("gateway.read_header_timeout"),
		ShutdownTimeout:         v.GetDuration("gateway.shutdown_timeout"),
		MaxBodyBytes:            v.GetInt64("gateway.max_body_bytes"),
		ServiceName:             v.GetString("gateway.service_name"),
		RequireMessageSignature: v.GetBool("messages.require_signature"),
		Policy:                  def.Policy,
		Terms: Terms{
			ProductionLeadDays: v.GetInt("policy.production_lead_days"),
			PaymentTermsDays:   v.GetInt("policy.payment_terms_days"),
			QuoteValidityDays:  v.GetInt("policy.quote_validity_days"),
			DefaultCreditScore: v.GetInt("policy.default_credit_score"),
		},
		OTelEndpoint: v.GetString("telemetry.otel_endpoint"),
		DatabaseURL:  v.GetString("database.url"),
	}
	cfg.Policy.MinMargin = v.GetFloat64("policy.min_margin")
	cfg.Policy.ManagerApprovalAbove = v.GetFloat64("policy.manager_approval_above")
	cfg.Policy.SeniorApprovalAbove = v.GetFloat64("policy.senior_approval_above")
	cfg.Policy.CreditCheckAbove = v.GetFloat64("policy.credit_check_above")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port ranges, positive durations and coherent policy.
func validateConfig(cfg *GatewayConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.GRPCHealthPort < 0 || cfg.GRPCHealthPort > 65535 {
		return fmt.Errorf("grpc_health_port must be between 0 and 65535, got %d", cfg.GRPCHealthPort)
	}
	if cfg.GRPCHealthPort != 0 && cfg.GRPCHealthPort == cfg.Port {
		return fmt.Errorf("grpc_health_port must differ from port %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be positive, got %v", cfg.ReadHeaderTimeout)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.ServiceName == "" {
		return fmt.Errorf("service_name must not be empty")
	}
	if cfg.Terms.ProductionLeadDays < 0 || cfg.Terms.PaymentTermsDays < 0 || cfg.Terms.QuoteValidityDays < 0 {
		return fmt.Errorf("policy day offsets must be non-negative")
	}
	if cfg.Terms.DefaultCreditScore < 0 {
		return fmt.Errorf("default_credit_score must be non-negative, got %d", cfg.Terms.DefaultCreditScore)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	for _, key := range []string{"webhook_secret", "webhook_secrets", "gateway.webhook_secret", "gateway.webhook_secrets"} {
		if v.InConfig(key) {
			return fmt.Errorf("webhook secrets not allowed in config files (use %s<SOURCE> environment variables)", webhookSecretPrefix)
		}
	}
	return nil
}
