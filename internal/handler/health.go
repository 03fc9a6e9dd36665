package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// The database decides the status code; Redis only backs upload history and
// is reported without degrading the service. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status, label := http.StatusOK, "OK"
		if dbStatus != "connected" {
			status, label = http.StatusServiceUnavailable, "DEGRADED"
		}

		c.JSON(status, gin.H{
			"status":    label,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbStatus,
			"redis":     redisStatus,
		})
	}
}
