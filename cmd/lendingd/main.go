package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"

	"github.com/andresv02/loan-management-system/internal/application/usecase"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
	"github.com/andresv02/loan-management-system/internal/infrastructure/cache"
	"github.com/andresv02/loan-management-system/internal/infrastructure/config"
	"github.com/andresv02/loan-management-system/internal/infrastructure/kafka"
	pgRepo "github.com/andresv02/loan-management-system/internal/infrastructure/postgres"
	grpcPresentation "github.com/andresv02/loan-management-system/internal/presentation/grpc"
	"github.com/andresv02/loan-management-system/internal/presentation/rest"
	"github.com/andresv02/loan-management-system/pkg/auth"
	pkgkafka "github.com/andresv02/loan-management-system/pkg/kafka"
	"github.com/andresv02/loan-management-system/pkg/observability"
	pkgpostgres "github.com/andresv02/loan-management-system/pkg/postgres"
	"github.com/andresv02/loan-management-system/pkg/tlsutil"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
	})
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("lendingd stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("lendingd stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting lendingd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"timezone", cfg.BusinessTimezone,
	)

	// Tracing is optional; without an endpoint spans go to the global no-op provider.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
	meter := otel.Meter(cfg.ServiceName)

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),

		StatementTimeout: cfg.DB.StatementTimeout,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	schema, err := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if schema.Changed() {
		logger.Info("schema migrated", "from_version", schema.From, "to_version", schema.To)
	} else {
		logger.Info("schema up to date", "version", schema.To)
	}

	companyRepo := pgRepo.NewCompanyRepo(pool)
	personRepo := pgRepo.NewPersonRepo(pool)
	appRepo := pgRepo.NewLoanApplicationRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	paymentRepo := pgRepo.NewPaymentRepo(pool)
	dashboardQueries := pgRepo.NewDashboardQueries(pool)
	txManager := pkgpostgres.NewTxManager(pool)

	// Events.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	producer := pkgkafka.NewProducer(kafkaCfg)
	defer producer.Close()

	eventMetrics, err := observability.NewEventMetrics(meter)
	if err != nil {
		return fmt.Errorf("event metrics: %w", err)
	}
	var publisher port.EventPublisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic, eventMetrics, logger)

	// Dashboard cache. Redis is optional: the dashboard is then always read
	// from Postgres.
	var dashboardCache port.DashboardCache
	rdb, err := cache.NewRedisClient(ctx, cache.ConnectionInfo{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", "error", err)
	} else {
		defer rdb.Close()
		dashboardCache = cache.NewDashboardCache(rdb, cfg.Redis.DashboardTTL)
		publisher = cache.NewInvalidatingPublisher(publisher, dashboardCache, logger)

		// Every replica keeps its own consumer group so each one sees writes
		// made by the others.
		hostname, _ := os.Hostname()
		kafkaCfg.ConsumerGroup = "lendingd-dashboard-" + hostname
		invalidator := kafka.NewDashboardInvalidator(dashboardCache, logger)
		consumer := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.Topic, invalidator.Handle, logger, pkgkafka.FromLatest())
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("dashboard invalidation consumer stopped", "error", err)
			}
		}()
	}

	evaluator := service.NewStatusEvaluator(cfg.Location(), nil)

	// Use cases.
	companiesUC := usecase.NewManageCompaniesUseCase(companyRepo, evaluator)
	submitUC := usecase.NewSubmitApplicationUseCase(personRepo, appRepo, txManager, publisher, evaluator)
	listAppsUC := usecase.NewListApplicationsUseCase(appRepo)
	approveUC := usecase.NewApproveApplicationUseCase(appRepo, personRepo, companyRepo, loanRepo, txManager, publisher, evaluator)
	declineUC := usecase.NewDeclineApplicationUseCase(appRepo, loanRepo, txManager, publisher, evaluator)
	previewUC := usecase.NewPreviewScheduleUseCase(evaluator)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo, appRepo, personRepo, evaluator)
	listLoansUC := usecase.NewListLoansUseCase(loanRepo, evaluator)
	deleteLoanUC := usecase.NewDeleteLoanUseCase(loanRepo, publisher, evaluator)
	nextPaymentUC := usecase.NewNextPaymentUseCase(loanRepo)
	installmentsUC := usecase.NewAvailableInstallmentsUseCase(loanRepo, evaluator)
	recordUC := usecase.NewRecordPaymentUseCase(loanRepo, paymentRepo, txManager, publisher, evaluator)
	reverseUC := usecase.NewReversePaymentUseCase(loanRepo, paymentRepo, txManager, publisher, evaluator)
	dashboardUC := usecase.NewGetDashboardUseCase(dashboardQueries, dashboardCache, evaluator)

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return err
	}

	// Both listeners share one key pair so a rotated certificate is picked up
	// by each without a restart.
	var keyPair *tlsutil.KeyPair
	if cfg.TLS.CertFile != "" {
		keyPair, err = tlsutil.LoadKeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("load TLS key pair: %w", err)
		}
		logger.Info("TLS enabled", "cert", cfg.TLS.CertFile)
	}

	// gRPC server.
	grpcMetrics, err := observability.GRPCMetrics(meter)
	if err != nil {
		return fmt.Errorf("grpc metrics: %w", err)
	}
	grpcHandler := grpcPresentation.NewLendingHandler(previewUC, approveUC, recordUC, reverseUC, getLoanUC, logger)
	grpcOpts := grpcPresentation.ServerOptions{Interceptors: []grpc.UnaryServerInterceptor{grpcMetrics}}
	if keyPair != nil {
		grpcOpts.TLS = keyPair.ServerConfig("h2")
	}
	grpcServer, err := grpcPresentation.NewServer(grpcHandler, logger, jwtSvc, grpcOpts)
	if err != nil {
		return fmt.Errorf("create grpc server: %w", err)
	}

	// HTTP server.
	httpMetrics, err := observability.HTTPMetrics(meter)
	if err != nil {
		return fmt.Errorf("http metrics: %w", err)
	}
	restHandler := rest.NewHandler(rest.Services{
		Companies:             companiesUC,
		SubmitApplication:     submitUC,
		ListApplications:      listAppsUC,
		ApproveApplication:    approveUC,
		DeclineApplication:    declineUC,
		PreviewSchedule:       previewUC,
		GetLoan:               getLoanUC,
		ListLoans:             listLoansUC,
		DeleteLoan:            deleteLoanUC,
		NextPayment:           nextPaymentUC,
		AvailableInstallments: installmentsUC,
		RecordPayment:         recordUC,
		ReversePayment:        reverseUC,
		Dashboard:             dashboardUC,
	}, logger)
	var limiter *rest.RateLimiter
	if cfg.HTTPRateLimit > 0 {
		limiter = rest.NewRateLimiter(cfg.HTTPRateLimit)
	}
	router := rest.NewRouter(rest.RouterConfig{
		Handler:        restHandler,
		Health:         rest.NewHealthHandler(pool, cfg.ServiceName, logger),
		Auth:           auth.HTTPMiddleware(jwtSvc),
		Metrics:        httpMetrics,
		MetricsHandler: metricsHandler,
		RateLimiter:    limiter,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           observability.HTTPTracing(cfg.ServiceName)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if keyPair != nil {
		httpServer.TLSConfig = keyPair.ServerConfig("h2", "http/1.1")
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	return serveErr
}

// newJWTService prefers an RS256 public key over the shared HMAC secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.Leeway,
	}
	if cfg.JWTPublicKeyPath != "" {
		pem, err := auth.ReadPublicKey(cfg.JWTPublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = pem
	}
	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("init JWT service: %w", err)
	}
	return svc, nil
}
