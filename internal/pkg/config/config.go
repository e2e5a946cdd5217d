// internal/pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Asynq          AsynqConfig
	AWS            AWSConfig
	Backend        BackendConfig
	Reconcile      ReconcileConfig
	FileProcessing FileProcessingConfig
	Security       SecurityConfig
	Server         ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// DatabaseConfig holds the read-model database configuration
type DatabaseConfig struct {
	Host               string `required:"true"`
	Port               string `required:"true"`
	User               string `required:"true"`
	Password           string
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	AutoMigrate        bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string `required:"true"`
	Port         string `required:"true"`
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	CleanupCron     string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string // empty keeps reports on local disk
	S3Endpoint      string // MinIO in development
	UsePathStyle    bool
	SecretName      string // Secrets Manager secret overlaid at startup
}

// BackendConfig points at the upstream ERP backend that owns persistence
type BackendConfig struct {
	BaseURL       string `required:"true"`
	Token         string
	SigningSecret string
	Issuer        string
	Timeout       time.Duration
}

// ReconcileConfig tunes drafts, snapshots and reports
type ReconcileConfig struct {
	SnapshotTTL     time.Duration
	DraftTTL        time.Duration
	ReportURLExpiry time.Duration
	ReportDir       string // local report storage when no bucket is set
	ReportBaseURL   string
	MaxBatchCodes   int
}

// FileProcessingConfig holds upload configuration
type FileProcessingConfig struct {
	PDFMaxSizeMB    int
	ExcelMaxSizeMB  int
	TempDir         string
	TempFileMaxAge  time.Duration
	CleanupInterval time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	TLSEnabled      bool
	TLSCertFile     string
	TLSKeyFile      string
}

// Load loads configuration from the environment, reading .env in development
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := FromViper(newViper(env), env)

	if cfg.AWS.SecretName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sm, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.SecretName, logger)
		if err != nil {
			return nil, err
		}
		if err := ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func newViper(env string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, env)
	return v
}

// FromViper builds a Config from environment-style keys
func FromViper(v *viper.Viper, env string) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			LogFormat:   v.GetString("LOG_FORMAT"),
			Debug:       v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSL_MODE"),
			MaxConnections:     v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections:     v.GetInt32("DB_MIN_CONNECTIONS"),
			MaxConnLifetime:    v.GetDuration("DB_CONNECTION_LIFETIME"),
			MaxConnIdleTime:    v.GetDuration("DB_IDLE_TIME"),
			HealthCheckPeriod:  v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			ConnectTimeout:     v.GetDuration("DB_CONNECT_TIMEOUT"),
			EnableQueryLogging: v.GetBool("DB_QUERY_LOGGING"),
			AutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetString("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			PoolTimeout:  v.GetDuration("REDIS_POOL_TIMEOUT"),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("ASYNQ_REDIS_DB"),
			Concurrency:     v.GetInt("ASYNQ_CONCURRENCY"),
			Queues:          parseQueues(v.GetString("ASYNQ_QUEUES")),
			StrictPriority:  v.GetBool("ASYNQ_STRICT_PRIORITY"),
			RetryMax:        v.GetInt("ASYNQ_RETRY_MAX"),
			ShutdownTimeout: v.GetDuration("ASYNQ_SHUTDOWN_TIMEOUT"),
			CleanupCron:     v.GetString("ASYNQ_CLEANUP_CRON"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:        v.GetString("AWS_S3_BUCKET"),
			S3Endpoint:      v.GetString("AWS_S3_ENDPOINT"),
			UsePathStyle:    v.GetBool("AWS_S3_PATH_STYLE"),
			SecretName:      v.GetString("AWS_SECRET_NAME"),
		},
		Backend: BackendConfig{
			BaseURL:       v.GetString("BACKEND_URL"),
			Token:         v.GetString("BACKEND_TOKEN"),
			SigningSecret: v.GetString("BACKEND_SIGNING_SECRET"),
			Issuer:        v.GetString("BACKEND_TOKEN_ISSUER"),
			Timeout:       v.GetDuration("BACKEND_TIMEOUT"),
		},
		Reconcile: ReconcileConfig{
			SnapshotTTL:     v.GetDuration("SNAPSHOT_TTL"),
			DraftTTL:        v.GetDuration("DRAFT_TTL"),
			ReportURLExpiry: v.GetDuration("REPORT_URL_EXPIRY"),
			ReportDir:       v.GetString("REPORT_DIR"),
			ReportBaseURL:   v.GetString("REPORT_BASE_URL"),
			MaxBatchCodes:   v.GetInt("IMPORT_MAX_CODES"),
		},
		FileProcessing: FileProcessingConfig{
			PDFMaxSizeMB:    v.GetInt("PDF_MAX_SIZE_MB"),
			ExcelMaxSizeMB:  v.GetInt("EXCEL_MAX_SIZE_MB"),
			TempDir:         v.GetString("TEMP_DIR"),
			TempFileMaxAge:  v.GetDuration("TEMP_FILE_MAX_AGE"),
			CleanupInterval: v.GetDuration("CLEANUP_INTERVAL"),
		},
		Security: SecurityConfig{
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitDuration: v.GetDuration("RATE_LIMIT_DURATION"),
			AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
			TrustedProxies:    splitList(v.GetString("TRUSTED_PROXIES")),
			SecureHeaders:     v.GetBool("SECURE_HEADERS"),
			RequestIDHeader:   v.GetString("REQUEST_ID_HEADER"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			MaxHeaderBytes:  v.GetInt("SERVER_MAX_HEADER_BYTES"),
			GracefulTimeout: v.GetDuration("SERVER_GRACEFUL_TIMEOUT"),
			TLSEnabled:      v.GetBool("TLS_ENABLED"),
			TLSCertFile:     v.GetString("TLS_CERT_FILE"),
			TLSKeyFile:      v.GetString("TLS_KEY_FILE"),
		},
	}
}

func setDefaults(v *viper.Viper, env string) {
	dev := env == "development" || env == "local"

	v.SetDefault("APP_NAME", "franchise-reconcile")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("APP_DEBUG", dev)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "reconcile")
	v.SetDefault("DB_PASSWORD", "reconcile_dev")
	v.SetDefault("DB_NAME", "franchise_erp")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_CONNECTION_LIFETIME", time.Hour)
	v.SetDefault("DB_IDLE_TIME", 30*time.Minute)
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", time.Minute)
	v.SetDefault("DB_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_QUERY_LOGGING", dev)
	v.SetDefault("DB_AUTO_MIGRATE", dev)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_POOL_TIMEOUT", 4*time.Second)

	v.SetDefault("ASYNQ_REDIS_DB", 1)
	v.SetDefault("ASYNQ_CONCURRENCY", 10)
	v.SetDefault("ASYNQ_QUEUES", "critical:6,default:3,low:1")
	v.SetDefault("ASYNQ_STRICT_PRIORITY", false)
	v.SetDefault("ASYNQ_RETRY_MAX", 5)
	v.SetDefault("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("ASYNQ_CLEANUP_CRON", "@hourly")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_S3_PATH_STYLE", dev)

	v.SetDefault("BACKEND_URL", "http://localhost:9000/api")
	v.SetDefault("BACKEND_TOKEN_ISSUER", "franchise-reconcile")
	v.SetDefault("BACKEND_TIMEOUT", 30*time.Second)

	v.SetDefault("SNAPSHOT_TTL", 10*time.Minute)
	v.SetDefault("DRAFT_TTL", 12*time.Hour)
	v.SetDefault("REPORT_URL_EXPIRY", 24*time.Hour)
	v.SetDefault("REPORT_DIR", os.TempDir()+"/reconcile-reports")
	v.SetDefault("IMPORT_MAX_CODES", 5000)

	v.SetDefault("PDF_MAX_SIZE_MB", 20)
	v.SetDefault("EXCEL_MAX_SIZE_MB", 20)
	v.SetDefault("TEMP_DIR", os.TempDir()+"/reconcile-uploads")
	v.SetDefault("TEMP_FILE_MAX_AGE", 24*time.Hour)
	v.SetDefault("CLEANUP_INTERVAL", time.Hour)

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", time.Minute)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("SECURE_HEADERS", env == "production")
	v.SetDefault("REQUEST_ID_HEADER", "X-Request-ID")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_MAX_HEADER_BYTES", 1<<20)
	v.SetDefault("SERVER_GRACEFUL_TIMEOUT", 30*time.Second)
	v.SetDefault("TLS_ENABLED", false)
}

// Validate runs the basic validator, plus the production one in production
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns host:port of the cache Redis
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(queuesStr, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err == nil && name != "" && priority > 0 {
			queues[name] = priority
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
