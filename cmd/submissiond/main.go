package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/clearline/submission-engine/internal/application"
	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/application/usecase"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/infrastructure/adapter"
	"github.com/clearline/submission-engine/internal/infrastructure/config"
	"github.com/clearline/submission-engine/internal/infrastructure/messaging"
	pgRepo "github.com/clearline/submission-engine/internal/infrastructure/postgres"
	"github.com/clearline/submission-engine/internal/presentation/rest"
	pkgkafka "github.com/clearline/submission-engine/pkg/kafka"
	"github.com/clearline/submission-engine/pkg/observability"
	pkgpostgres "github.com/clearline/submission-engine/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Structured logger; InitLogger also installs it as the slog default.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})

	logger.Info("starting submission-engine", "http_port", cfg.HTTPPort)

	// Initialize tracing.
	otlpAddr := cfg.OTLPAddr
	if otlpAddr == "" {
		otlpAddr = "localhost:4317"
	}
	shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    otlpAddr,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics: OTel meter provider backed by a Prometheus exporter.
	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without them", "error", err)
	} else {
		otel.SetMeterProvider(meterProvider)
		defer func() { _ = meterProvider.Shutdown(ctx) }() //nolint:errcheck // best-effort meter shutdown
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://internal/infrastructure/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	submissionRepo := pgRepo.NewSubmissionRepo(pool)
	guidelineRepo := pgRepo.NewGuidelineRepo(pool)
	routingRuleRepo := pgRepo.NewRoutingRuleRepo(pool)
	pairingRepo := pgRepo.NewPairingRepo(pool)
	decisionRepo := pgRepo.NewRoutingDecisionRepo(pool)
	rotationStore := pgRepo.NewRotationStore(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, "submission-events")

	policySvc := adapter.NewStubPolicyService()
	crmSvc := adapter.NewStubCrmService(logger)

	// Wire domain services.
	matcher := service.NewClearanceMatcher(submissionRepo, cfg.Clearance.NameSimilarityThreshold)
	evaluator := service.NewGuidelineEvaluator()
	scorer := service.NewDataQualityScorer()
	engine := service.NewRoutingEngine(pairingRepo, routingRuleRepo, rotationStore)

	// Wire use cases.
	createUC := usecase.NewCreateSubmissionUseCase(submissionRepo, matcher, publisher, logger)
	evaluateUC := usecase.NewEvaluateSubmissionUseCase(submissionRepo, guidelineRepo, evaluator, scorer, publisher, logger)
	routeUC := usecase.NewRouteSubmissionUseCase(submissionRepo, engine, decisionRepo, publisher, logger)
	assignUC := usecase.NewAssignUnderwriterUseCase(submissionRepo, publisher, logger)
	overrideUC := usecase.NewOverrideClearanceUseCase(submissionRepo, publisher, logger)
	requestInfoUC := usecase.NewRequestInformationUseCase(submissionRepo, crmSvc, publisher, logger)
	quoteUC := usecase.NewQuoteSubmissionUseCase(submissionRepo, publisher, logger)
	declineUC := usecase.NewDeclineSubmissionUseCase(submissionRepo, crmSvc, publisher, logger)
	bindUC := usecase.NewBindSubmissionUseCase(submissionRepo, policySvc, crmSvc, publisher, logger)
	withdrawUC := usecase.NewWithdrawSubmissionUseCase(submissionRepo, publisher, logger)
	expireUC := usecase.NewExpireSubmissionUseCase(submissionRepo, publisher, logger)
	getUC := usecase.NewGetSubmissionUseCase(submissionRepo)

	// HTTP server (intake API + health checks).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(logger, func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	})
	healthHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	submissionHandler := rest.NewSubmissionHandler(rest.SubmissionUseCases{
		Create:             lifecycle(logger, "create_submission", createUC.Execute),
		Evaluate:           lifecycle(logger, "evaluate_submission", evaluateUC.Execute),
		Route:              lifecycle(logger, "route_submission", routeUC.Execute),
		Assign:             lifecycle(logger, "assign_underwriter", assignUC.Execute),
		OverrideClearance:  lifecycle(logger, "override_clearance", overrideUC.Execute),
		RequestInformation: lifecycle(logger, "request_information", requestInfoUC.Execute),
		Quote:              lifecycle(logger, "quote_submission", quoteUC.Execute),
		Decline:            lifecycle(logger, "decline_submission", declineUC.Execute),
		Bind:               lifecycle(logger, "bind_submission", bindUC.Execute),
		Withdraw:           lifecycle(logger, "withdraw_submission", withdrawUC.Execute),
		Expire:             lifecycle(logger, "expire_submission", expireUC.Execute),
		Get:                application.Chain(getUC.Execute, application.WithLogging[dto.GetSubmissionRequest, dto.SubmissionResponse](logger, "get_submission")),
	}, logger)
	submissionHandler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("submission-engine stopped")
}

// lifecycle wraps a mutating use case with request logging and a bounded
// retry of optimistic-concurrency conflicts. Each retry re-runs the whole use
// case, which reloads the aggregate from the repository.
func lifecycle[Req, Resp any](logger *slog.Logger, operation string, h application.Handler[Req, Resp]) application.Handler[Req, Resp] {
	return application.Chain(h,
		application.WithLogging[Req, Resp](logger, operation),
		application.WithConflictRetry[Req, Resp](3),
	)
}
