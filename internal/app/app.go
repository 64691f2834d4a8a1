package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/counterdesk/internal/backend"
	"github.com/utafrali/counterdesk/internal/config"
	"github.com/utafrali/counterdesk/internal/event"
	handler "github.com/utafrali/counterdesk/internal/handler/http"
	"github.com/utafrali/counterdesk/internal/workspace"
	"github.com/utafrali/counterdesk/pkg/health"
	"github.com/utafrali/counterdesk/pkg/httpclient"
	pkgkafka "github.com/utafrali/counterdesk/pkg/kafka"
	"github.com/utafrali/counterdesk/pkg/middleware"
	"github.com/utafrali/counterdesk/pkg/tracing"
)

// App wires together all dependencies and runs the counterdesk service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	producer       *pkgkafka.Producer
	manager        *workspace.Manager
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "counterdesk",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Insecure:       true,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Backend clients. Reads may be retried; writes never are, so a create
	// or delete reaches the backend at most once per operator action.
	// Search is not retried either and trips a breaker of its own, so a
	// failing search cannot keep orders from being submitted.
	headers := map[string]string{}
	if cfg.BackendCookie != "" {
		headers["Cookie"] = cfg.BackendCookie
	}
	readClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.BackendTimeout(),
		MaxRetries:      cfg.BackendReadRetries,
		RetryWaitMin:    250 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 20,
		Headers:         headers,
	})
	writeClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.BackendTimeout(),
		MaxRetries:      0,
		MaxConnsPerHost: 20,
		Headers:         headers,
	})
	searchClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.BackendTimeout(),
		MaxRetries:      0,
		MaxConnsPerHost: 10,
		Headers:         headers,
	})

	reads := httpclient.NewCircuitBreakerClient(readClient, breakerConfig(cfg, "caixa-reads"), logger).
		WithFallback(backend.CircuitOpenFallback)
	writes := httpclient.NewCircuitBreakerClient(writeClient, breakerConfig(cfg, "caixa-writes"), logger).
		WithFallback(backend.CircuitOpenFallback)
	search := httpclient.NewCircuitBreakerClient(searchClient, breakerConfig(cfg, "caixa-search"), logger).
		WithFallback(backend.CircuitOpenFallback)
	logger.Info("backend clients initialized",
		slog.String("base_url", cfg.BackendBaseURL),
		slog.Int("read_retries", cfg.BackendReadRetries),
		slog.Int("timeout_seconds", cfg.BackendTimeoutSeconds),
	)

	// Audit events.
	var (
		producer *pkgkafka.Producer
		audit    workspace.AuditPublisher = event.Noop{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		audit = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	manager := workspace.NewManager(workspace.Deps{
		Search: backend.NewSearchGateway(search, cfg.BackendBaseURL, logger),
		Orders: backend.NewSubmissionGateway(reads, writes, cfg.BackendBaseURL, logger),
		Audit:  audit,
		Logger: logger,
	}, cfg.SessionIdleTTL())

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterNonCritical("caixa", func(ctx context.Context) error {
		return backend.Ping(ctx, readClient, cfg.BackendBaseURL)
	})
	// Without the writes breaker no order can be taken.
	healthHandler.RegisterCritical("caixa-writes-breaker", breakerCheck(writes))
	healthHandler.RegisterNonCritical("caixa-reads-breaker", breakerCheck(reads))
	healthHandler.RegisterNonCritical("caixa-search-breaker", breakerCheck(search))
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment
	router := handler.NewRouter(manager, healthHandler, logger, handler.RouterConfig{
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		CORS:       cors,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		producer:       producer,
		manager:        manager,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// breakerConfig starts from the package defaults; configured values that are
// set override them.
func breakerConfig(cfg *config.Config, name string) httpclient.CircuitBreakerConfig {
	bc := httpclient.DefaultCircuitBreakerConfig(name)
	if cfg.CBMaxRequests > 0 {
		bc.MaxRequests = cfg.CBMaxRequests
	}
	if cfg.CBInterval > 0 {
		bc.Interval = time.Duration(cfg.CBInterval) * time.Second
	}
	if cfg.CBTimeout > 0 {
		bc.Timeout = time.Duration(cfg.CBTimeout) * time.Second
	}
	if cfg.CBFailureRatio > 0 {
		bc.FailureRatio = cfg.CBFailureRatio
	}
	if cfg.CBMinRequests > 0 {
		bc.MinRequests = cfg.CBMinRequests
	}
	return bc
}

// breakerCheck fails while cb is open.
func breakerCheck(cb *httpclient.CircuitBreakerClient) health.Checker {
	return func(context.Context) error {
		if state := cb.State(); state == gobreaker.StateOpen {
			return fmt.Errorf("circuit breaker %s", state)
		}
		return nil
	}
}

// Run starts the HTTP server and the session janitor, and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.manager.Run(janitorCtx, a.cfg.SessionSweepInterval())

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server first so
// in-flight submissions finish, then the tracer, then Kafka.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete",
		slog.Int("open_sessions", a.manager.Len()),
	)
	return errors.Join(errs...)
}
