package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/pkg/circuit"
	"github.com/Payphone-Digital/hospital-registry/pkg/database"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
	disabled  = "disabled"
)

type pingFunc func(ctx context.Context) error

type HealthHandler struct {
	pingDatabase pingFunc
	pingRedis    pingFunc // nil when Redis is disabled
	redisStats   func() map[string]interface{}
	breakers     []*circuit.Breaker
	timeout      time.Duration
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
	Circuits  []circuit.Snapshot     `json:"circuits,omitempty"`
}

type HealthCheck struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthHandler builds the health endpoint. redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, breakers ...*circuit.Breaker) *HealthHandler {
	h := &HealthHandler{
		pingDatabase: func(ctx context.Context) error { return database.Ping(ctx, db) },
		breakers:     breakers,
		timeout:      5 * time.Second,
	}
	if redisClient != nil {
		h.pingRedis = redisClient.Ping
		h.redisStats = redisClient.PoolStats
	}
	return h
}

// HealthCheck performs comprehensive health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := HealthCheckResponse{
		Status:    healthy,
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != healthy {
		response.Status = unhealthy
	}

	// Redis only backs the revocation list; an outage degrades, it does not fail
	response.Checks["redis"] = h.checkRedis(ctx)

	response.Checks["api"] = HealthCheck{
		Status:  healthy,
		Message: "API is responsive",
	}

	for _, b := range h.breakers {
		if b != nil {
			response.Circuits = append(response.Circuits, b.Snapshot())
		}
	}

	statusCode := http.StatusOK
	if response.Status == unhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// BasicHealth returns a simple health check (for load balancers)
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    healthy,
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.pingDatabase == nil {
		return HealthCheck{
			Status:  unhealthy,
			Message: "Database connection not initialized",
		}
	}

	if err := h.pingDatabase(ctx); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{
			Status:  unhealthy,
			Message: "Database ping failed",
		}
	}

	return HealthCheck{
		Status:  healthy,
		Message: "Database connection is healthy",
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.pingRedis == nil {
		return HealthCheck{
			Status:  disabled,
			Message: "Redis is disabled, token revocation is held in memory",
		}
	}

	if err := h.pingRedis(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{
			Status:  unhealthy,
			Message: "Redis ping failed",
		}
	}

	check := HealthCheck{
		Status:  healthy,
		Message: "Redis connection is healthy",
	}
	if h.redisStats != nil {
		check.Details = h.redisStats()
	}
	return check
}
