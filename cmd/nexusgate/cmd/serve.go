package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/nexusgate/internal/capability"
	"github.com/solatis/nexusgate/internal/core/api"
	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/core/config"
	"github.com/solatis/nexusgate/internal/core/db"
	"github.com/solatis/nexusgate/internal/core/handlers"
	"github.com/solatis/nexusgate/internal/core/logging"
	"github.com/solatis/nexusgate/internal/core/router"
	"github.com/solatis/nexusgate/internal/core/server"
	"github.com/solatis/nexusgate/internal/core/telemetry"
	"github.com/solatis/nexusgate/internal/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP listen host")
	serveCmd.Flags().Int("port", 8000, "HTTP listen port")
	serveCmd.Flags().Int("grpc-health-port", 0, "gRPC health port (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("grpc-health-port") {
		cfg.GRPCHealthPort, _ = cmd.Flags().GetInt("grpc-health-port")
	}

	secrets, err := config.WebhookSecrets()
	if err != nil {
		return fmt.Errorf("failed to load webhook secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no webhook secrets configured (set NG_WEBHOOK_SECRET_<SOURCE> environment variables)")
	}
	verifier := auth.NewVerifier(secrets)
	if cfg.RequireMessageSignature {
		if _, ok := secrets[api.MessageSignatureSource]; !ok {
			return fmt.Errorf("messages.require_signature needs NG_WEBHOOK_SECRET_%s", strings.ToUpper(api.MessageSignatureSource))
		}
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, Version, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err.Error())
		}
	}()

	gateway, closeLedger, err := buildGateway(ctx, cfg, verifier, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	httpSrv, err := server.NewHTTPServer(cfg, gateway.Routes(), logger)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	var healthSrv *server.HealthServer
	if cfg.GRPCHealthPort != 0 {
		healthSrv, err = server.NewHealthServer(cfg.Host, cfg.GRPCHealthPort, cfg.ServiceName, logger)
		if err != nil {
			return fmt.Errorf("failed to create health server: %w", err)
		}
	}

	logger.Info("starting nexusgate",
		"version", Version,
		"addr", cfg.Addr(),
		"sources", verifier.Sources(),
		"message_signatures", cfg.RequireMessageSignature,
	)
	return server.Run(ctx, cfg.ShutdownTimeout, httpSrv, healthSrv)
}

// buildGateway wires handlers, routers and the optional delivery ledger.
// The returned close func releases the ledger connection.
func buildGateway(ctx context.Context, cfg *config.GatewayConfig, verifier *auth.Verifier, logger logging.Logger) (*api.Gateway, func(), error) {
	deps := handlers.DefaultDeps()
	deps.Policy = cfg.Policy
	deps.Credit = capability.StaticBureau{FixedScore: cfg.Terms.DefaultCreditScore}
	deps.Scheduler = capability.LeadTimeScheduler{LeadDays: cfg.Terms.ProductionLeadDays}
	deps.Notifier = capability.LogNotifier{Logger: logger}
	deps.QuoteValidityDays = cfg.Terms.QuoteValidityDays
	deps.PaymentTermsDays = cfg.Terms.PaymentTermsDays
	deps.Logger = logger

	set, err := handlers.NewSet(deps)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create handlers: %w", err)
	}
	events, err := router.New(types.SurfaceEvent, set.Events(), router.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event router: %w", err)
	}
	messages, err := router.New(types.SurfaceMessage, set.Messages(), router.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create message router: %w", err)
	}

	closeLedger := func() {}
	var recorder api.DeliveryRecorder
	if url := resolveDBURL(cfg); url != "" {
		database, err := db.Open(ctx, url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		closeLedger = func() { database.Close() }

		statuses, err := db.MigrateStatus(ctx, database)
		if err != nil {
			closeLedger()
			return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
		}
		for _, s := range statuses {
			if !s.Applied {
				closeLedger()
				return nil, nil, fmt.Errorf("migration %s not applied - run 'nexusgate migrate up' first", s.ID)
			}
		}

		store, err := db.NewDeliveryStore(database)
		if err != nil {
			closeLedger()
			return nil, nil, fmt.Errorf("failed to create delivery store: %w", err)
		}
		recorder = store
	} else {
		logger.Warn("no database configured, delivery ledger disabled")
	}

	gateway, err := api.NewGateway(api.Options{
		Verifier:                verifier,
		Events:                  events,
		Messages:                messages,
		Recorder:                recorder,
		Logger:                  logger,
		RequestTimeout:          cfg.RequestTimeout,
		MaxBodyBytes:            cfg.MaxBodyBytes,
		RequireMessageSignature: cfg.RequireMessageSignature,
		ServiceName:             cfg.ServiceName,
		Version:                 Version,
	})
	if err != nil {
		closeLedger()
		return nil, nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	return gateway, closeLedger, nil
}
