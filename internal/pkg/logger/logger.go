// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID  ContextKey = "request_id"
	ContextKeyClientIP   ContextKey = "client_ip"
	ContextKeyMethod     ContextKey = "method"
	ContextKeyPath       ContextKey = "path"
	ContextKeyDraftID    ContextKey = "draft_id"
	ContextKeyLocationID ContextKey = "location_id"
	ContextKeyTaskID     ContextKey = "task_id"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text
	Output         io.Writer
	AddSource      bool
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// SetupLogger builds the process logger and installs it as slog's default
func SetupLogger(cfg LogConfig) *slog.Logger {
	logger := NewLogger(cfg)
	slog.SetDefault(logger)
	return logger
}

// NewLogger creates a logger that redacts secrets and picks up request-scoped context values
func NewLogger(cfg LogConfig) *slog.Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return replaceAttr(cfg.Format, a)
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = NewPrettyTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = NewSanitizationHandler(NewContextHandler(handler))

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service_name", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, slog.String("env", cfg.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithValue stores a loggable value in ctx
func WithValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

var contextKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyClientIP,
	ContextKeyMethod,
	ContextKeyPath,
	ContextKeyDraftID,
	ContextKeyLocationID,
	ContextKeyTaskID,
}

func extractContextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	for _, key := range contextKeys {
		val := ctx.Value(key)
		if val == nil {
			continue
		}
		k := string(key)
		switch v := val.(type) {
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(k, v))
			}
		case int64:
			attrs = append(attrs, slog.Int64(k, v))
		case int:
			attrs = append(attrs, slog.Int(k, v))
		case uuid.UUID:
			attrs = append(attrs, slog.String(k, v.String()))
		default:
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	return attrs
}

func replaceAttr(format string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
		}
	}
	if a.Key == slog.LevelKey && format == "json" {
		a.Key = "severity"
	}
	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Int64Value(d.Milliseconds())
		}
	}
	return a
}
