// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/franchise-reconcile/internal/adapters/backend"
	"github.com/ammerola/franchise-reconcile/internal/adapters/db"
	redis_a "github.com/ammerola/franchise-reconcile/internal/adapters/redis_adapter"
	"github.com/ammerola/franchise-reconcile/internal/adapters/storage"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/core/services"
	"github.com/ammerola/franchise-reconcile/internal/pkg/config"
	"github.com/ammerola/franchise-reconcile/internal/pkg/logger"
	"github.com/ammerola/franchise-reconcile/internal/workers"
)

// Version is injected at compile time
var Version = "dev"

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
		ServiceName:    cfg.App.Name + "-worker",
		ServiceVersion: Version,
	})
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, workerDatabaseConfig(cfg), slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	fileStorage, err := newFileStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	asynqOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	asynqClient := asynq.NewClient(asynqOpt)
	defer asynqClient.Close()

	cache := redis_a.NewCache(redisClient, slogger)
	drafts := redis_a.NewDraftStore(redisClient, cfg.Reconcile.DraftTTL, slogger)
	snapshots := db.NewSnapshotRepository(database, slogger)
	bills := db.NewBillRepository(database, slogger)

	scanService := services.NewScanService(snapshots, drafts, cache, asynqClient, cfg.Reconcile.SnapshotTTL, slogger)
	reconcileService := services.NewReconcileService(bills, snapshots, drafts, cache, asynqClient, slogger)
	backendClient := backend.NewClient(backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		Token:         cfg.Backend.Token,
		SigningSecret: cfg.Backend.SigningSecret,
		Issuer:        cfg.Backend.Issuer,
		Timeout:       cfg.Backend.Timeout,
	}, nil, slogger)

	srv := asynq.NewServer(asynqOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: healthCheck,
		Logger:          newAsynqLogger(slogger),
	})

	mux := asynq.NewServeMux()

	submitProcessor := workers.NewSubmitProcessor(backendClient, slogger)
	mux.HandleFunc(workers.TypeDocumentSubmit, submitProcessor.ProcessSubmit)

	importProcessor := workers.NewImportProcessor(scanService, cache, cfg.Reconcile.MaxBatchCodes, slogger)
	mux.HandleFunc(workers.TypeBarcodeImport, importProcessor.ProcessImport)

	reportProcessor := workers.NewReportProcessor(reconcileService, fileStorage, cache, cfg.Reconcile.ReportURLExpiry, slogger)
	mux.HandleFunc(workers.TypeReconcileReport, reportProcessor.ProcessReport)

	cleanupProcessor := workers.NewCleanupProcessor(cfg.FileProcessing.TempDir, cfg.FileProcessing.TempFileMaxAge, slogger)
	mux.HandleFunc(workers.TypeCleanupTempFiles, cleanupProcessor.CleanupTempFiles)

	scheduler := asynq.NewScheduler(asynqOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   newAsynqLogger(slogger),
	})
	if _, err := scheduler.Register(cleanupSpec(cfg), workers.NewCleanupTask()); err != nil {
		slogger.Error("failed to schedule cleanup", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(mux); err != nil {
		slogger.Error("failed to start worker server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		srv.Shutdown()
		os.Exit(1)
	}

	slogger.Info("worker started",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.String("cleanup", cleanupSpec(cfg)))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func workerDatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     10,
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

// newFileStorage archives to S3 when a bucket is configured, local disk otherwise
func newFileStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	if cfg.AWS.S3Bucket == "" {
		logger.Warn("no S3 bucket configured, archiving reports locally",
			slog.String("dir", cfg.Reconcile.ReportDir))
		return storage.NewLocalStorage(cfg.Reconcile.ReportDir, cfg.Reconcile.ReportBaseURL, logger), nil
	}

	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}

func cleanupSpec(cfg *config.Config) string {
	if cfg.Asynq.CleanupCron != "" {
		return cfg.Asynq.CleanupCron
	}
	return "@every " + cfg.FileProcessing.CleanupInterval.String()
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retry", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, _ error, _ *asynq.Task) time.Duration {
	delay := time.Second * time.Duration(1<<uint(n))
	return min(delay, 10*time.Minute)
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With(slog.String("component", "asynq"))}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
