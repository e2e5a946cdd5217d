// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// ErrMissingRequiredConfig is returned when a required setting is empty
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator checks a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max_connections must be >= min_connections")
	}
	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend url %q must be absolute", cfg.Backend.BaseURL)
	}
	if cfg.Reconcile.DraftTTL <= 0 {
		return fmt.Errorf("draft ttl must be positive")
	}
	if cfg.Reconcile.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot ttl must be positive")
	}
	if cfg.Reconcile.MaxBatchCodes <= 0 {
		return fmt.Errorf("import max codes must be positive")
	}
	if cfg.Server.TLSEnabled && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
		return fmt.Errorf("TLS cert and key files must be provided when TLS is enabled")
	}
	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Database.Password == "" || strings.Contains(cfg.Database.Password, "MISSING_") {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}
	if cfg.Backend.Token == "" && cfg.Backend.SigningSecret == "" {
		return fmt.Errorf("%w: backend token or signing secret", ErrMissingRequiredConfig)
	}
	if cfg.Backend.SigningSecret != "" && len(cfg.Backend.SigningSecret) < 32 {
		return fmt.Errorf("backend signing secret must be at least 32 characters")
	}
	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}
	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}
	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}
	if cfg.AWS.S3Bucket == "" {
		return fmt.Errorf("%w: S3 bucket for report archive", ErrMissingRequiredConfig)
	}
	return nil
}

// validateRequiredFields checks every field tagged required:"true"
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if fieldType.Tag.Get("required") == "true" && isZeroValue(field) {
			return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
		}

		if field.Kind() == reflect.Struct && field.Type().PkgPath() == t.PkgPath() {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
