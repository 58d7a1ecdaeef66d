package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appconnector "github.com/openpoint/platform/internal/application/connector"
	appintegration "github.com/openpoint/platform/internal/application/integration"
	appruntime "github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/infrastructure/collaborator"
	"github.com/openpoint/platform/internal/infrastructure/config"
	"github.com/openpoint/platform/internal/infrastructure/event"
	"github.com/openpoint/platform/internal/infrastructure/lock"
	"github.com/openpoint/platform/internal/infrastructure/logger"
	"github.com/openpoint/platform/internal/infrastructure/migration"
	"github.com/openpoint/platform/internal/infrastructure/persistence"
	"github.com/openpoint/platform/internal/infrastructure/telemetry"
	"github.com/openpoint/platform/internal/interfaces/http/handler"
	"github.com/openpoint/platform/internal/interfaces/http/middleware"
	"github.com/openpoint/platform/internal/interfaces/http/router"
	"github.com/openpoint/platform/migrations"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log bridge needs a logger of its own, so the application
	// logger is rebuilt once the provider exists.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
		_ = logProvider.Shutdown(context.Background())
	}()

	log.Info("Starting integration platform",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()
	meter := meterProvider.Meter("github.com/openpoint/platform")

	db, err := openDatabase(cfg, log, meter)
	if err != nil {
		log.Fatal("Failed to prepare database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Seed.Enabled {
		n, err := persistence.NewSeeder(db.DB, log.Named("seed")).Seed(ctx, time.Now().UTC())
		if err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
		log.Info("Seed complete", zap.Int("integrations", n))
	}

	locker, closeLocker, err := newLocker(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize locker", zap.Error(err))
	}
	defer closeLocker()

	runtimeMetrics, err := telemetry.NewRuntimeMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register runtime metrics", zap.Error(err))
	}

	// Repositories
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	logRepo := persistence.NewGormLogRepository(db.DB)
	connectorRepo := persistence.NewGormConnectorRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	statusMetrics := appruntime.NewStatusMetricsHandler(integrationRepo, runtimeMetrics, log)
	eventBus.Subscribe(statusMetrics)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	if err := statusMetrics.Sync(ctx); err != nil {
		log.Warn("Initial status metrics sync failed", zap.Error(err))
	}

	// Application services
	clock := appruntime.SystemClock{}
	validator, err := connector.NewConfigValidator()
	if err != nil {
		log.Fatal("Failed to compile connector schemas", zap.Error(err))
	}

	integrationService := appintegration.NewIntegrationService(integrationRepo, locker, eventBus, clock, log)
	lifecycleService := appruntime.NewLifecycleService(integrationRepo, logRepo, locker, eventBus, clock, log)
	monitorService := appruntime.NewMonitorService(integrationRepo, logRepo, clock)
	engine := appruntime.NewExecutionEngine(appruntime.ExecutionEngineConfig{
		Integrations: integrationRepo,
		Logs:         logRepo,
		Locker:       locker,
		Fetcher:      collaborator.NewHTTPFetcher(nil),
		Sources:      collaborator.DefaultSources(cfg.Engine.ERPBaseURL, cfg.Engine.CRMBaseURL),
		CallTimeout:  cfg.Engine.CallTimeout,
		Chaos: appruntime.ChaosConfig{
			Enabled:          cfg.Chaos.Enabled,
			WarnProbability:  cfg.Chaos.WarnProbability,
			ErrorProbability: cfg.Chaos.ErrorProbability,
		},
		Random:    appruntime.NewSeededRandom(cfg.Chaos.Seed),
		Clock:     clock,
		Metrics:   runtimeMetrics,
		Publisher: eventBus,
		Logger:    log,
	})
	connectorService := appconnector.NewConnectorService(connectorRepo, locker, validator, clock, log)
	testService := appconnector.NewTestService(
		connectorRepo,
		appconnector.NewProber(appconnector.ProberConfig{
			HTTPTimeout:   cfg.Connector.HTTPTimeout,
			DatabaseDelay: cfg.Connector.DatabaseDelay,
			SAPDelay:      cfg.Connector.SAPDelay,
			DefaultDelay:  cfg.Connector.DefaultDelay,
		}),
		locker,
		clock,
		eventBus,
		runtimeMetrics,
		log,
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	ginEngine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Logger:         log,
		TracingEnabled: tracerProvider.IsEnabled(),
		Meter:          meter,
		AllowOrigins:   cfg.HTTP.AllowOrigins,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Health:         systemHandler.Health,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	router.NewRouter(ginEngine, router.WithAPIVersion("v1")).
		Register(systemHandler).
		Register(handler.NewIntegrationHandler(integrationService, lifecycleService)).
		Register(handler.NewRuntimeHandler(lifecycleService, engine, monitorService)).
		Register(handler.NewConnectorHandler(connectorService, testService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openDatabase connects, instruments and migrates the store. PostgreSQL
// runs the embedded SQL migrations; SQLite uses AutoMigrate.
func openDatabase(cfg *config.Config, log *zap.Logger, meter metric.Meter) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.DBSystem = dbSystem
	if err := telemetry.NewDBTracingPlugin(tracing, log).Register(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, tracing.SlowQueryThresh)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := dbMetrics.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	migrator, err := migration.NewEmbedded(cfg.Database.DSN(), migrations.FS, log.Named("migrate"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer func() { _ = migrator.Close() }()
	if err := migrator.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newLocker picks the per-entity lock backend. The returned func releases
// any connection the backend holds.
func newLocker(cfg *config.Config, log *zap.Logger) (appruntime.Locker, func(), error) {
	if cfg.Lock.Backend != "redis" {
		log.Info("Using in-process locks")
		return lock.NewMemoryLocker(), func() {}, nil
	}

	client, err := lock.NewRedisClient(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using Redis locks", zap.String("addr", cfg.Redis.RedisAddr()))
	locker := lock.NewRedisLocker(client, lock.RedisConfig{
		TTL:   cfg.Lock.TTL,
		Retry: cfg.Lock.Retry,
	}, log)
	return locker, func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing Redis client", zap.Error(err))
		}
	}, nil
}
