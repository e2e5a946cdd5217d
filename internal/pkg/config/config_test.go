package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newViper("development"), "development")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.Reconcile.DraftTTL)
	assert.Equal(t, 10*time.Minute, cfg.Reconcile.SnapshotTTL)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, "localhost:6379", cfg.Asynq.RedisAddr)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Security.SecureHeaders)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DRAFT_TTL", "90m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BACKEND_URL", "https://erp.example/api")

	cfg := FromViper(newViper("staging"), "staging")

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Reconcile.DraftTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "https://erp.example/api", cfg.Backend.BaseURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   string
		wantIsErr error
	}{
		{
			name:   "valid_development",
			mutate: func(*Config) {},
		},
		{
			name:      "missing_database_host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantIsErr: ErrMissingRequiredConfig,
			wantErr:   "Database.Host",
		},
		{
			name:    "relative_backend_url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "/api" },
			wantErr: "must be absolute",
		},
		{
			name:    "non_positive_draft_ttl",
			mutate:  func(c *Config) { c.Reconcile.DraftTTL = 0 },
			wantErr: "draft ttl",
		},
		{
			name: "tls_without_cert",
			mutate: func(c *Config) {
				c.Server.TLSEnabled = true
			},
			wantErr: "TLS cert",
		},
		{
			name: "production_requires_backend_credentials",
			mutate: func(c *Config) {
				c.App.Environment = "production"
			},
			wantIsErr: ErrMissingRequiredConfig,
		},
		{
			name: "production_rejects_short_signing_secret",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Backend.SigningSecret = "short"
			},
			wantErr: "at least 32",
		},
		{
			name: "production_rejects_wildcard_origin",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Backend.Token = "token"
				c.Database.SSLMode = "require"
				c.Security.SecureHeaders = true
			},
			wantErr: "wildcard",
		},
		{
			name: "production_complete",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Backend.Token = "token"
				c.Database.SSLMode = "require"
				c.Security.SecureHeaders = true
				c.Security.AllowedOrigins = []string{"https://erp.example"}
				c.AWS.S3Bucket = "reports"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromViper(newViper("development"), "development")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" && tt.wantIsErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantIsErr != nil {
				assert.ErrorIs(t, err, tt.wantIsErr)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseQueues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]int
	}{
		{name: "standard", input: "critical:6,default:3", want: map[string]int{"critical": 6, "default": 3}},
		{name: "spaces", input: " low : 1 ", want: map[string]int{"low": 1}},
		{name: "invalid_entries_skipped", input: "bad,also:x,ok:2", want: map[string]int{"ok": 2}},
		{name: "empty_falls_back", input: "", want: map[string]int{"default": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQueues(tt.input))
		})
	}
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		User: "u", Password: "p", Host: "db", Port: "5432", Name: "erp", SSLMode: "disable",
	}}
	assert.Equal(t, "postgresql://u:p@db:5432/erp?sslmode=disable", cfg.GetDatabaseURL())
}

type fakeSecretsClient struct {
	calls  int
	secret *string
	err    error
}

func (f *fakeSecretsClient) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: params.SecretId, SecretString: f.secret}, nil
}

func TestAWSSecretsManager_CachesValues(t *testing.T) {
	client := &fakeSecretsClient{secret: aws.String(`{"DB_PASSWORD":"pw","BACKEND_TOKEN":"tok"}`)}
	sm := newAWSSecretsManager(client, "reconcile/prod", testLogger())
	ctx := context.Background()

	val, err := sm.GetSecret(ctx, "DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "pw", val)

	val, err = sm.GetSecret(ctx, "BACKEND_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "tok", val)
	assert.Equal(t, 1, client.calls)

	require.NoError(t, sm.RefreshSecrets(ctx))
	assert.Equal(t, 2, client.calls)

	_, err = sm.GetSecret(ctx, "MISSING")
	assert.Error(t, err)
}

func TestAWSSecretsManager_Errors(t *testing.T) {
	t.Run("client_error", func(t *testing.T) {
		sm := newAWSSecretsManager(&fakeSecretsClient{err: errors.New("denied")}, "s", testLogger())
		_, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD"})
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("invalid_json", func(t *testing.T) {
		sm := newAWSSecretsManager(&fakeSecretsClient{secret: aws.String("not json")}, "s", testLogger())
		_, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD"})
		assert.ErrorContains(t, err, "parse secret JSON")
	})
}

func TestApplySecrets(t *testing.T) {
	client := &fakeSecretsClient{secret: aws.String(`{"DB_PASSWORD":"from-sm","REDIS_PASSWORD":"r","BACKEND_SIGNING_SECRET":"sig"}`)}
	sm := newAWSSecretsManager(client, "s", testLogger())

	cfg := FromViper(newViper("development"), "development")
	cfg.Backend.Token = "keep"

	require.NoError(t, ApplySecrets(context.Background(), cfg, sm))
	assert.Equal(t, "from-sm", cfg.Database.Password)
	assert.Equal(t, "r", cfg.Redis.Password)
	assert.Equal(t, "r", cfg.Asynq.RedisPassword)
	assert.Equal(t, "sig", cfg.Backend.SigningSecret)
	assert.Equal(t, "keep", cfg.Backend.Token)
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv("BACKEND_TOKEN", "env-token")
	sm := NewEnvSecretsManager()

	val, err := sm.GetSecret(context.Background(), "BACKEND_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "env-token", val)

	_, err = sm.GetSecret(context.Background(), "RECONCILE_UNSET_SECRET")
	assert.Error(t, err)
}
