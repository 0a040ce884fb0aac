// Package server provides HTTP and gRPC health server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/nexusgate/internal/core/config"
)

// HTTPServer manages the gateway's HTTP listener.
type HTTPServer struct {
	server   *http.Server
	listener net.Listener
	addr     string
	logger   glog.Logger
}

// NewHTTPServer wraps handler with access logging and binds it to cfg's
// address. The listener is not opened until Listen or Start.
func NewHTTPServer(cfg *config.GatewayConfig, handler http.Handler, logger glog.Logger) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	logger = glog.Ensure(logger)

	return &HTTPServer{
		server: &http.Server{
			Handler:           AccessLog(handler, logger),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			// Handlers are bounded by the request timeout; leave headroom
			// for reading the body and writing the response.
			ReadTimeout:  cfg.RequestTimeout + cfg.ReadHeaderTimeout,
			WriteTimeout: 2*cfg.RequestTimeout + cfg.ReadHeaderTimeout,
			IdleTimeout:  60 * time.Second,
		},
		addr:   cfg.Addr(),
		logger: logger,
	}, nil
}

// Listen binds the listener without serving.
func (s *HTTPServer) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *HTTPServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds (if needed) and serves until Shutdown. A graceful shutdown
// returns nil.
func (s *HTTPServer) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Info("http server listening", "addr", s.Addr())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Run serves the HTTP server and, when non-nil, the gRPC health server
// until ctx is cancelled or either server fails. Both are then shut down
// within shutdownTimeout.
func Run(ctx context.Context, shutdownTimeout time.Duration, httpSrv *HTTPServer, healthSrv *HealthServer) error {
	if httpSrv == nil {
		return fmt.Errorf("http server cannot be nil")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	if healthSrv != nil {
		g.Go(healthSrv.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		httpSrv.logger.Info("shutting down", "timeout", shutdownTimeout.String())

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		var errs []error
		if healthSrv != nil {
			// Report NOT_SERVING first so balancers drain traffic.
			healthSrv.SetServing(false)
		}
		errs = append(errs, httpSrv.Shutdown(sctx))
		if healthSrv != nil {
			errs = append(errs, healthSrv.Shutdown(sctx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
