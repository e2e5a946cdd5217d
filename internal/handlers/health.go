// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/pkg/config"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthHandler reports on the read-model database, Redis and the task queues
type HealthHandler struct {
	db        ports.Database
	redis     *redis.Client
	inspector *asynq.Inspector
	app       config.AppConfig
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. inspector may be nil.
func NewHealthHandler(
	database ports.Database,
	redisClient *redis.Client,
	inspector *asynq.Inspector,
	app config.AppConfig,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		inspector: inspector,
		app:       app,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the body of /health
type HealthStatus struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version"`
	Environment string                    `json:"environment"`
	Uptime      string                    `json:"uptime"`
	Timestamp   time.Time                 `json:"timestamp"`
	Services    map[string]DependencyInfo `json:"services"`
	System      SystemInfo                `json:"system"`
}

// DependencyInfo is the state of one dependency
type DependencyInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo is process-level runtime data
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.app.Version,
		Environment: h.app.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services: map[string]DependencyInfo{
			"database": h.checkDatabase(ctx),
			"redis":    h.checkRedis(ctx),
		},
		System: systemInfo(),
	}
	if h.inspector != nil {
		health.Services["queues"] = h.checkQueues(ctx)
	}

	for _, svc := range health.Services {
		if svc.Status != statusHealthy {
			health.Status = statusDegraded
		}
	}

	statusCode := http.StatusOK
	if health.Status != statusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, statusCode, health)
}

// Readiness handles GET /ready
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details := map[string]string{"database": "ready", "redis": "ready"}
	ready := true

	if h.db == nil || h.db.Ping(ctx) != nil {
		details["database"] = "not ready"
		ready = false
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		details["redis"] = "not ready"
		ready = false
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) DependencyInfo {
	if h.db == nil {
		return DependencyInfo{Status: statusUnhealthy, Message: "not configured"}
	}

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed", slog.String("error", err.Error()))
		return DependencyInfo{Status: statusUnhealthy, Message: err.Error()}
	}

	info := DependencyInfo{Status: statusHealthy, Details: h.db.Health(ctx)}
	if s, ok := info.Details["status"].(string); ok && s != statusHealthy {
		info.Status = statusUnhealthy
	}
	info.ResponseTime = time.Since(start).String()
	return info
}

func (h *HealthHandler) checkRedis(ctx context.Context) DependencyInfo {
	start := time.Now()
	pong, err := h.redis.Ping(ctx).Result()
	if err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed", slog.String("error", err.Error()))
		return DependencyInfo{Status: statusUnhealthy, Message: err.Error()}
	}

	stats := h.redis.PoolStats()
	return DependencyInfo{
		Status:       statusHealthy,
		ResponseTime: time.Since(start).String(),
		Details: map[string]interface{}{
			"ping":        pong,
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		},
	}
}

func (h *HealthHandler) checkQueues(ctx context.Context) DependencyInfo {
	start := time.Now()
	queues, err := h.inspector.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "queue health check failed", slog.String("error", err.Error()))
		return DependencyInfo{Status: statusUnhealthy, Message: err.Error()}
	}

	stats := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		q, err := h.inspector.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		stats[queue] = map[string]interface{}{
			"size":     q.Size,
			"active":   q.Active,
			"pending":  q.Pending,
			"retry":    q.Retry,
			"archived": q.Archived,
			"paused":   q.Paused,
		}
	}

	details := map[string]interface{}{"queues": stats}
	if servers, err := h.inspector.Servers(); err == nil {
		details["servers"] = len(servers)
	}

	return DependencyInfo{
		Status:       statusHealthy,
		ResponseTime: time.Since(start).String(),
		Details:      details,
	}
}

func systemInfo() SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
	}
}
