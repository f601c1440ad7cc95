package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/response"
)

const healthTimeout = 2 * time.Second

// healthProbeKey is read, never written; a miss still proves the store answers.
const healthProbeKey = "health_probe"

// SystemHandler reports process and storage health.
type SystemHandler struct {
	store     repository.BlobStore
	driver    string
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(store repository.BlobStore, driver string, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		store:     store,
		driver:    driver,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthStatus struct {
	Status     string `json:"status"`
	Storage    string `json:"storage"`
	StorageOK  bool   `json:"storage_ok"`
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
}

// Health godoc
// GET /api/v1/health
// Returns 503 when the storage backend does not answer.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	status := healthStatus{
		Status:     "ok",
		Storage:    h.driver,
		StorageOK:  true,
		Uptime:     formatDuration(time.Since(h.startTime)),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
	}

	if _, err := h.store.Get(ctx, healthProbeKey); err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		h.log.Warn().Err(err).Msg("storage health check failed")
		status.Status = "degraded"
		status.StorageOK = false
		response.Success(c, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(c, http.StatusOK, status)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
