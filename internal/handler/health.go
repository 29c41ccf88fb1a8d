package handler

import (
	"context"
	"net/http"
	"time"

	"minimart/internal/infra"
	"minimart/internal/live"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusConnected = "connected"
	statusError     = "error"
	statusDisabled  = "disabled"
)

// Health reports store connectivity and the backend circuit state.
// db and rdb are optional; a nil store is reported as disabled.
// Only a failing store makes the check fail: an open circuit means the
// backend is down, not this server.
func Health(db *gorm.DB, rdb *redis.Client, backend *infra.CircuitBreaker, hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := statusDisabled
		if db != nil {
			dbStatus = statusConnected
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = statusError
			}
		}

		redisStatus := statusDisabled
		if rdb != nil {
			redisStatus = statusConnected
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = statusError
			}
		}

		backendStatus := statusDisabled
		if backend != nil {
			backendStatus = backend.State().String()
		}

		liveClients := 0
		if hub != nil {
			liveClients = hub.Clients()
		}

		status := http.StatusOK
		if dbStatus == statusError || redisStatus == statusError {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"backend":     backendStatus,
			"liveClients": liveClients,
		})
	}
}
