package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/solatis/nexusgate/internal/core/config"
	"github.com/solatis/nexusgate/internal/core/logging"
)

func testConfig() *config.GatewayConfig {
	cfg := config.DefaultGatewayConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	return cfg
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	}), logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/nexus", nil))

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("X-Request-Id not set")
	}

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("access log is not one JSON line: %q", buf.String())
	}
	if line["method"] != "POST" || line["path"] != "/webhooks/nexus" {
		t.Errorf("log line = %v", line)
	}
	if line["status"] != float64(http.StatusTeapot) || line["bytes"] != float64(15) {
		t.Errorf("log line = %v", line)
	}
	if line["request_id"] != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request_id = %v, header = %s", line["request_id"], rec.Header().Get(RequestIDHeader))
	}
}

func TestAccessLog_KeepsCallerRequestID(t *testing.T) {
	h := AccessLog(okHandler(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-abc" {
		t.Errorf("X-Request-Id = %q, want req-abc", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestNewHTTPServer_Validation(t *testing.T) {
	if _, err := NewHTTPServer(nil, okHandler(), nil); err == nil {
		t.Error("NewHTTPServer(nil cfg) error = nil, want error")
	}
	if _, err := NewHTTPServer(testConfig(), nil, nil); err == nil {
		t.Error("NewHTTPServer(nil handler) error = nil, want error")
	}
}

func TestNewHealthServer_Validation(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		if _, err := NewHealthServer("127.0.0.1", port, "nexusgate", nil); err == nil {
			t.Errorf("NewHealthServer(port %d) error = nil, want error", port)
		}
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	srv, err := NewHTTPServer(testConfig(), okHandler(), nil)
	if err != nil {
		t.Fatalf("NewHTTPServer() error = %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, time.Second, srv, nil) }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRun_BindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer taken.Close()

	cfg := testConfig()
	cfg.Port = taken.Addr().(*net.TCPAddr).Port
	srv, err := NewHTTPServer(cfg, okHandler(), nil)
	if err != nil {
		t.Fatalf("NewHTTPServer() error = %v", err)
	}

	err = Run(context.Background(), time.Second, srv, nil)
	if err == nil || !strings.Contains(err.Error(), "failed to bind") {
		t.Errorf("Run() error = %v, want bind failure", err)
	}
}

func TestHealthServer(t *testing.T) {
	hs, err := NewHealthServer("127.0.0.1", 1, "nexusgate", nil)
	if err != nil {
		t.Fatalf("NewHealthServer() error = %v", err)
	}
	// Bind an ephemeral port instead of the placeholder.
	hs.addr = "127.0.0.1:0"
	if err := hs.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	httpSrv, err := NewHTTPServer(testConfig(), okHandler(), nil)
	if err != nil {
		t.Fatalf("NewHTTPServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, time.Second, httpSrv, hs) }()

	conn, err := grpc.NewClient(hs.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc.NewClient() error = %v", err)
	}
	client := grpc_health_v1.NewHealthClient(conn)

	for _, service := range []string{"", "nexusgate"} {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		resp, err := client.Check(cctx, &grpc_health_v1.HealthCheckRequest{Service: service})
		ccancel()
		if err != nil {
			t.Fatalf("Check(%q) error = %v", service, err)
		}
		if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Errorf("Check(%q) = %v, want SERVING", service, resp.GetStatus())
		}
	}
	conn.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
