package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	natsClient "landlord-service/internal/nats"
	redisClient "landlord-service/internal/redis"
	"landlord-service/internal/store"
)

var startTime = time.Now()

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store       store.Store
	natsClient  *natsClient.Client
	redisClient *redisClient.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// SetNATS wires the optional NATS client into the health checks
func (h *HealthHandler) SetNATS(nc *natsClient.Client) { h.natsClient = nc }

// SetRedis wires the optional Redis client into the health checks
func (h *HealthHandler) SetRedis(rc *redisClient.Client) { h.redisClient = rc }

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Service   string           `json:"service"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a health check result
type Check struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system runtime information
type SystemInfo struct {
	Goroutines  int    `json:"goroutines"`
	MemoryAlloc uint64 `json:"memory_alloc_mb"`
	MemoryTotal uint64 `json:"memory_total_mb"`
	MemorySys   uint64 `json:"memory_sys_mb"`
	NumCPU      int    `json:"num_cpu"`
	GoVersion   string `json:"go_version"`
}

// Health godoc
// @Summary Health check
// @Description Get the health status of the service with detailed information
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Service:   "landlord-service",
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Include detailed checks if requested
	if c.Query("detailed") == "true" {
		response.Checks = h.performHealthChecks(c)
		response.System = h.getSystemInfo()
	}

	c.JSON(http.StatusOK, response)
}

// performHealthChecks runs all health checks
func (h *HealthHandler) performHealthChecks(c *gin.Context) map[string]Check {
	checks := make(map[string]Check)

	checks["store"] = h.checkStore(c)
	checks["nats"] = h.checkNATS()
	checks["redis"] = h.checkRedis(c)

	return checks
}

// checkStore checks connectivity to the configured storage backend
func (h *HealthHandler) checkStore(c *gin.Context) Check {
	details := map[string]interface{}{
		"backend": h.store.Kind(),
		"durable": h.store.Durable(),
	}

	if !h.store.TestConnection(c.Request.Context()) {
		return Check{
			Status:  "unhealthy",
			Message: "Storage backend unreachable",
			Details: details,
		}
	}

	return Check{
		Status:  "healthy",
		Message: "Storage backend connected",
		Details: details,
	}
}

// checkNATS checks NATS connectivity
func (h *HealthHandler) checkNATS() Check {
	if h.natsClient == nil {
		return Check{
			Status:  "disabled",
			Message: "NATS client not configured",
		}
	}

	if !h.natsClient.Connected() {
		return Check{
			Status:  "unhealthy",
			Message: "NATS disconnected",
		}
	}

	return Check{
		Status:  "healthy",
		Message: "NATS connected",
	}
}

// checkRedis checks Redis connectivity
func (h *HealthHandler) checkRedis(c *gin.Context) Check {
	if h.redisClient == nil {
		return Check{
			Status:  "disabled",
			Message: "Redis client not configured",
		}
	}

	if err := h.redisClient.Ping(c.Request.Context()); err != nil {
		return Check{
			Status:  "unhealthy",
			Message: "Redis ping failed",
		}
	}

	return Check{
		Status:  "healthy",
		Message: "Redis connected",
	}
}

// getSystemInfo returns system runtime information
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &SystemInfo{
		Goroutines:  runtime.NumGoroutine(),
		MemoryAlloc: mem.Alloc / 1024 / 1024,      // MB
		MemoryTotal: mem.TotalAlloc / 1024 / 1024, // MB
		MemorySys:   mem.Sys / 1024 / 1024,        // MB
		NumCPU:      runtime.NumCPU(),
		GoVersion:   runtime.Version(),
	}
}

// Ready godoc
// @Summary Readiness check
// @Description Get the readiness status of the service and dependencies
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	response := HealthResponse{
		Service:   "landlord-service",
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]Check),
	}

	allReady := true

	// The API stays usable on the in-memory fallback, so only a durable
	// backend that is down blocks readiness. NATS and Redis are optional.
	storeCheck := h.checkStore(c)
	response.Checks["store"] = storeCheck
	if h.store.Durable() && storeCheck.Status != "healthy" {
		allReady = false
	}

	response.Checks["nats"] = h.checkNATS()
	response.Checks["redis"] = h.checkRedis(c)

	if allReady {
		response.Status = "ready"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}
