package handlers

import (
	"net/http"

	"gamereview/cache"
	"gamereview/db"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness of the process and its collaborators.
func HealthCheck(c *gin.Context) {
	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": "unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"redis":  cache.IsRedisAvailable(),
	})
}
