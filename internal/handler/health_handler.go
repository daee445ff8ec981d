package handler

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hakivo/podcastd/internal/database"
)

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	db        *database.MongoDB
	redis     *redis.Client
	startTime time.Time
	version   string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *database.MongoDB, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Timestamp     string `json:"timestamp"`
	MongoDB       string `json:"mongodb"`
	Redis         string `json:"redis"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	MongoDB string `json:"mongodb"`
	Redis   string `json:"redis"`
}

// Health returns the service health status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	mongoStatus := "connected"
	if err := h.db.Client.Ping(r.Context(), nil); err != nil {
		mongoStatus = "disconnected"
	}

	redisStatus := "connected"
	if err := h.redis.Ping(r.Context()).Err(); err != nil {
		redisStatus = "disconnected"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		MongoDB:       mongoStatus,
		Redis:         redisStatus,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// Ready returns the service readiness status
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	mongoStatus := "connected"
	mongoReady := true
	if err := h.db.Client.Ping(r.Context(), nil); err != nil {
		mongoStatus = "disconnected"
		mongoReady = false
	}

	redisStatus := "connected"
	redisReady := true
	if err := h.redis.Ping(r.Context()).Err(); err != nil {
		redisStatus = "disconnected"
		redisReady = false
	}

	statusCode := http.StatusOK
	if !mongoReady || !redisReady {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadyResponse{
		Ready:   mongoReady && redisReady,
		MongoDB: mongoStatus,
		Redis:   redisStatus,
	})
}
