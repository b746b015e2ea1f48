package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-client/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type HealthHandler struct {
	redis     *redis.Client
	log       *logger.Logger
	startTime time.Time
}

// NewHealthHandler takes a nil redis client when the memory storage backend
// is configured.
func NewHealthHandler(redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		redis:     redisClient,
		log:       log,
		startTime: time.Now().UTC(),
	}
}

type MemoryMetrics struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

type HealthStatus struct {
	Status        string        `json:"status"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Storage       string        `json:"storage"`
	Memory        MemoryMetrics `json:"memory"`
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := HealthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Storage:       "memory",
		Memory: MemoryMetrics{
			Alloc:      mem.Alloc,
			TotalAlloc: mem.TotalAlloc,
			Sys:        mem.Sys,
			NumGC:      mem.NumGC,
		},
	}

	code := http.StatusOK
	if h.redis != nil {
		status.Storage = "redis"
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			h.log.Error("Redis health check failed", "error", err)
			status.Status = "degraded"
			status.Storage = "redis_unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	response.WriteJSON(w, code, status)
}
