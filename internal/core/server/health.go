package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	glog "github.com/goliatone/go-logger/glog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard grpc.health.v1 service for
// orchestrators that probe over gRPC rather than GET /health.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	addr     string
	service  string
	logger   glog.Logger
}

// NewHealthServer creates a health server for host:port. service names the
// per-service status reported next to the overall ("") status.
func NewHealthServer(host string, port int, service string, logger glog.Logger) (*HealthServer, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("health port must be between 1 and 65535, got %d", port)
	}

	server := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	s := &HealthServer{
		server:  server,
		health:  healthServer,
		addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		service: service,
		logger:  glog.Ensure(logger),
	}
	s.SetServing(true)
	return s, nil
}

// SetServing flips the reported status for both the overall and named
// service.
func (s *HealthServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	if s.service != "" {
		s.health.SetServingStatus(s.service, status)
	}
}

// Listen binds the listener without serving.
func (s *HealthServer) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *HealthServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds (if needed) and serves gRPC requests until Shutdown.
func (s *HealthServer) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Info("grpc health server listening", "addr", s.Addr())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown stops gracefully, forcing a stop when ctx expires first.
func (s *HealthServer) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("grpc shutdown cancelled by context: %w", ctx.Err())
	}
}
