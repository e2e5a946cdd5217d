// cmd/api/main.go
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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/franchise-reconcile/internal/adapters/db"
	redis_a "github.com/ammerola/franchise-reconcile/internal/adapters/redis_adapter"
	"github.com/ammerola/franchise-reconcile/internal/core/services"
	"github.com/ammerola/franchise-reconcile/internal/handlers"
	"github.com/ammerola/franchise-reconcile/internal/handlers/middleware"
	"github.com/ammerola/franchise-reconcile/internal/pkg/config"
	"github.com/ammerola/franchise-reconcile/internal/pkg/logger"
	"github.com/ammerola/franchise-reconcile/migrations"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger(logger.LogConfig{Level: "info", Format: "json"})

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name + "-api",
		ServiceVersion: Version,
	})
	slogger.Info("starting reconcile api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("environment", cfg.App.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", server.Addr),
			slog.Bool("tls", cfg.Server.TLSEnabled))

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		slogger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			_ = server.Close()
		}
		slogger.Info("server shutdown complete")
	}
}

type dependencies struct {
	database         *db.Database
	redisClient      *redis.Client
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	draftHandler     *handlers.DraftHandler
	importHandler    *handlers.ImportHandler
	reconcileHandler *handlers.ReconcileHandler
	schemaHandler    *handlers.SchemaHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqInspector != nil {
		_ = d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		_ = d.asynqClient.Close()
	}
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	database, err := db.NewDatabase(ctx, databaseConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})
	deps.redisClient = redisClient
	if err := redisClient.Ping(ctx).Err(); err != nil {
		deps.cleanup()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	asynqOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqOpt)
	deps.asynqInspector = asynq.NewInspector(asynqOpt)

	cache := redis_a.NewCache(redisClient, logger)
	drafts := redis_a.NewDraftStore(redisClient, cfg.Reconcile.DraftTTL, logger)
	snapshots := db.NewSnapshotRepository(database, logger)
	bills := db.NewBillRepository(database, logger)

	scanService := services.NewScanService(snapshots, drafts, cache, deps.asynqClient, cfg.Reconcile.SnapshotTTL, logger)
	reconcileService := services.NewReconcileService(bills, snapshots, drafts, cache, deps.asynqClient, logger)

	deps.draftHandler = handlers.NewDraftHandler(scanService, cfg.Reconcile.MaxBatchCodes, logger)
	deps.importHandler = handlers.NewImportHandler(
		scanService,
		deps.asynqClient,
		cache,
		cfg.FileProcessing.TempDir,
		int64(cfg.FileProcessing.PDFMaxSizeMB)<<20,
		int64(cfg.FileProcessing.ExcelMaxSizeMB)<<20,
		logger,
	)
	deps.reconcileHandler = handlers.NewReconcileHandler(reconcileService, logger)
	deps.schemaHandler = handlers.NewSchemaHandler(logger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg.App, logger)

	logger.Info("all dependencies initialized")
	return deps, nil
}

func databaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, cfg, deps)

	mws := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger, cfg.Security.TrustedProxies),
		middleware.Recovery(logger),
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(ctx,
			cfg.Security.RateLimitRequests,
			cfg.Security.RateLimitDuration,
			cfg.Security.TrustedProxies))
	}
	maxUpload := int64(max(cfg.FileProcessing.PDFMaxSizeMB, cfg.FileProcessing.ExcelMaxSizeMB)+1) << 20
	mws = append(mws, middleware.MaxBodySize(maxUpload))

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, deps *dependencies) {
	const apiV1 = "/api/v1"

	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	mux.HandleFunc("POST "+apiV1+"/drafts", deps.draftHandler.OpenDraft)
	mux.HandleFunc("GET "+apiV1+"/drafts/{id}", deps.draftHandler.GetDraft)
	mux.HandleFunc("DELETE "+apiV1+"/drafts/{id}", deps.draftHandler.DiscardDraft)
	mux.HandleFunc("POST "+apiV1+"/drafts/{id}/scan", deps.draftHandler.Scan)
	mux.HandleFunc("POST "+apiV1+"/drafts/{id}/submit", deps.draftHandler.SubmitDraft)
	mux.HandleFunc("DELETE "+apiV1+"/drafts/{id}/items/{variantId}", deps.draftHandler.RemoveItem)
	mux.HandleFunc("PUT "+apiV1+"/drafts/{id}/items/{variantId}/reason", deps.draftHandler.SetReason)
	mux.HandleFunc("PUT "+apiV1+"/drafts/{id}/items/{variantId}/discount", deps.draftHandler.SetDiscount)
	mux.HandleFunc("DELETE "+apiV1+"/snapshots", deps.draftHandler.InvalidateAllSnapshots)
	mux.HandleFunc("DELETE "+apiV1+"/snapshots/{locationId}", deps.draftHandler.InvalidateSnapshot)

	mux.HandleFunc("POST "+apiV1+"/drafts/{id}/import", deps.importHandler.Import)
	mux.HandleFunc("GET "+apiV1+"/imports/{jobId}", deps.importHandler.ImportStatus)

	mux.HandleFunc("GET "+apiV1+"/reconcile/{entryId}/{exitId}", deps.reconcileHandler.Diff)
	mux.HandleFunc("GET "+apiV1+"/reconcile/{entryId}/{exitId}/export", deps.reconcileHandler.Export)
	mux.HandleFunc("POST "+apiV1+"/reconcile/{entryId}/{exitId}/corrective", deps.reconcileHandler.Corrective)
	mux.HandleFunc("POST "+apiV1+"/reconcile/{entryId}/{exitId}/archive", deps.reconcileHandler.Archive)
	mux.HandleFunc("GET "+apiV1+"/reconcile/{entryId}/{exitId}/archive", deps.reconcileHandler.ArchiveURL)

	mux.HandleFunc("GET "+apiV1+"/schemas/{name}", deps.schemaHandler.Schema)

	// Reports archived on local disk are served from here when no bucket is set
	if cfg.AWS.S3Bucket == "" {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.Reconcile.ReportDir))))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		Source:      migrations.FS,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, logger, 3)
}
