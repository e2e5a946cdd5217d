// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// ContextHandler adds request-scoped context values to every record
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler wraps handler
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := extractContextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// SanitizationHandler masks credentials in messages and attributes
type SanitizationHandler struct {
	handler   slog.Handler
	patterns  []*regexp.Regexp
	blacklist []string
}

// NewSanitizationHandler creates a handler that sanitizes sensitive data
func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{
		handler: handler,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(password|secret|token|api[-_]?key)\s*[:=]\s*["']?[^"'\s]+`),
			regexp.MustCompile(`(?i)(bearer)\s+[A-Za-z0-9\-_.=]+`),
		},
		blacklist: []string{
			"password", "secret", "token", "authorization", "api_key",
		},
	}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	sanitized := slog.NewRecord(record.Time, record.Level, h.sanitizeString(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

func (h *SanitizationHandler) sanitizeAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(attr.Key)
	for _, blacklisted := range h.blacklist {
		if strings.Contains(lowerKey, blacklisted) {
			return slog.String(attr.Key, "***REDACTED***")
		}
	}
	if attr.Value.Kind() == slog.KindString {
		return slog.String(attr.Key, h.sanitizeString(attr.Value.String()))
	}
	return attr
}

func (h *SanitizationHandler) sanitizeString(s string) string {
	for _, pattern := range h.patterns {
		s = pattern.ReplaceAllString(s, "$1=***REDACTED***")
	}
	return s
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.sanitizeAttr(a)
	}
	return &SanitizationHandler{
		handler:   h.handler.WithAttrs(clean),
		patterns:  h.patterns,
		blacklist: h.blacklist,
	}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{
		handler:   h.handler.WithGroup(name),
		patterns:  h.patterns,
		blacklist: h.blacklist,
	}
}

// PrettyTextHandler prints colored single-line records for local development
type PrettyTextHandler struct {
	opts  *slog.HandlerOptions
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
	w     io.Writer
}

// NewPrettyTextHandler creates a pretty text handler
func NewPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyTextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyTextHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *PrettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	level := r.Level.String()
	fmt.Fprintf(&b, "%s%s %-5s\033[0m %s",
		levelColor(r.Level),
		r.Time.Format("2006-01-02 15:04:05.000"),
		level,
		r.Message,
	)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " \033[36m%s\033[0m=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " \033[36m%s\033[0m=%v", h.qualify(a.Key), a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &next
}

func (h *PrettyTextHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *PrettyTextHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\033[31m"
	case level >= slog.LevelWarn:
		return "\033[33m"
	case level >= slog.LevelInfo:
		return "\033[34m"
	default:
		return "\033[37m"
	}
}
