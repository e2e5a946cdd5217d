// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManager resolves secret values by key
type SecretsManager interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
	RefreshSecrets(ctx context.Context) error
}

// secretValueAPI is the part of the Secrets Manager client we call
type secretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads a JSON key/value secret from AWS Secrets Manager
type AWSSecretsManager struct {
	client     secretValueAPI
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

func newAWSSecretsManager(client secretValueAPI, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger.With(slog.String("component", "secrets")),
	}
}

// GetSecret retrieves a single secret
func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	secrets, err := sm.GetSecrets(ctx, []string{key})
	if err != nil {
		return "", err
	}
	val, ok := secrets[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found", key)
	}
	return val, nil
}

// GetSecrets retrieves the requested keys, served from cache while fresh
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	if cached, ok := sm.cached(keys); ok {
		return cached, nil
	}

	sm.logger.InfoContext(ctx, "fetching secrets from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = secretData
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	filtered := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := secretData[key]; ok {
			filtered[key] = val
		} else {
			sm.logger.WarnContext(ctx, "secret key not found in AWS Secrets Manager",
				slog.String("key", key))
		}
	}
	return filtered, nil
}

func (sm *AWSSecretsManager) cached(keys []string) (map[string]string, bool) {
	sm.cacheMu.RLock()
	defer sm.cacheMu.RUnlock()

	if len(sm.cache) == 0 || time.Since(sm.lastFetch) >= sm.ttl {
		return nil, false
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		val, ok := sm.cache[key]
		if !ok {
			return nil, false
		}
		out[key] = val
	}
	return out, true
}

// RefreshSecrets drops the cache and fetches again
func (sm *AWSSecretsManager) RefreshSecrets(ctx context.Context) error {
	sm.cacheMu.Lock()
	sm.cache = make(map[string]string)
	sm.lastFetch = time.Time{}
	sm.cacheMu.Unlock()

	_, err := sm.GetSecrets(ctx, nil)
	return err
}

// EnvSecretsManager implements secrets management using environment variables
type EnvSecretsManager struct{}

// NewEnvSecretsManager creates a new environment-based secrets manager
func NewEnvSecretsManager() *EnvSecretsManager {
	return &EnvSecretsManager{}
}

// GetSecret retrieves a secret from environment variables
func (em *EnvSecretsManager) GetSecret(_ context.Context, key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("environment variable %s not set", key)
	}
	return val, nil
}

// GetSecrets retrieves multiple secrets from environment variables
func (em *EnvSecretsManager) GetSecrets(_ context.Context, keys []string) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			secrets[key] = val
		}
	}
	return secrets, nil
}

// RefreshSecrets is a no-op for environment variables
func (em *EnvSecretsManager) RefreshSecrets(context.Context) error {
	return nil
}

// secretKeys lists the settings that may be overlaid from a secrets manager
var secretKeys = []string{
	"DB_PASSWORD",
	"REDIS_PASSWORD",
	"BACKEND_TOKEN",
	"BACKEND_SIGNING_SECRET",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
}

// ApplySecrets overwrites credential fields with values found in sm
func ApplySecrets(ctx context.Context, cfg *Config, sm SecretsManager) error {
	secrets, err := sm.GetSecrets(ctx, secretKeys)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	set := func(dst *string, key string) {
		if val, ok := secrets[key]; ok && val != "" {
			*dst = val
		}
	}
	set(&cfg.Database.Password, "DB_PASSWORD")
	set(&cfg.Redis.Password, "REDIS_PASSWORD")
	set(&cfg.Asynq.RedisPassword, "REDIS_PASSWORD")
	set(&cfg.Backend.Token, "BACKEND_TOKEN")
	set(&cfg.Backend.SigningSecret, "BACKEND_SIGNING_SECRET")
	set(&cfg.AWS.AccessKeyID, "AWS_ACCESS_KEY_ID")
	set(&cfg.AWS.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	return nil
}
