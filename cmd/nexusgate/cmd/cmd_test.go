package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/core/config"
	"github.com/solatis/nexusgate/internal/core/logging"
)

const testSecret = "sfg-aluminium-webhook-secret-2025"

func TestSignCommand(t *testing.T) {
	t.Setenv("NG_WEBHOOK_SECRET_NEXUS", testSecret)
	body := `{"type":"enquiry.created","data":{"enquiry_id":"ENQ-1001"}}`

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(body))
	rootCmd.SetArgs([]string{"sign", "--source", "nexus"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "X-Nexus-Signature: " + auth.ComputeSignature([]byte(testSecret), []byte(body)) + "\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestResolveDBURL(t *testing.T) {
	cfg := config.DefaultGatewayConfig()
	cfg.DatabaseURL = "sqlite://from-config.db"

	prev := dbURL
	t.Cleanup(func() { dbURL = prev })

	dbURL = ""
	if got := resolveDBURL(cfg); got != "sqlite://from-config.db" {
		t.Errorf("resolveDBURL() = %q, want config value", got)
	}
	dbURL = "sqlite://from-flag.db"
	if got := resolveDBURL(cfg); got != "sqlite://from-flag.db" {
		t.Errorf("resolveDBURL() = %q, want flag value", got)
	}
}

func TestBuildGateway_PendingMigrations(t *testing.T) {
	cfg := config.DefaultGatewayConfig()
	prev := dbURL
	t.Cleanup(func() { dbURL = prev })
	dbURL = "sqlite://" + t.TempDir() + "/ledger.db"

	verifier := auth.NewVerifier(map[string][]byte{"nexus": []byte(testSecret)})
	_, _, err := buildGateway(t.Context(), cfg, verifier, logging.Nop())
	if err == nil || !strings.Contains(err.Error(), "migrate up") {
		t.Errorf("buildGateway() error = %v, want pending migration error", err)
	}
}

func TestBuildGateway_NoLedger(t *testing.T) {
	cfg := config.DefaultGatewayConfig()
	prev := dbURL
	t.Cleanup(func() { dbURL = prev })
	dbURL = ""

	verifier := auth.NewVerifier(map[string][]byte{"nexus": []byte(testSecret)})
	g, closeLedger, err := buildGateway(t.Context(), cfg, verifier, logging.Nop())
	if err != nil {
		t.Fatalf("buildGateway() error = %v", err)
	}
	defer closeLedger()
	if g == nil {
		t.Fatal("buildGateway() returned nil gateway")
	}
}
