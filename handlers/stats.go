package handlers

import (
	"net/http"
	"time"

	"gamereview/cache"
	"gamereview/concurrent"
	"gamereview/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats serves the admin dashboard. Counters are cached for a
// few minutes and recomputed concurrently on a miss.
func GetDashboardStats(c *gin.Context) {
	if cache.IsRedisAvailable() {
		cachedStats, err := cache.GetDashboardStats()
		if err == nil && cachedStats != nil {
			utils.Log.Debug("Cache HIT: dashboard stats")
			c.JSON(http.StatusOK, gin.H{"statistics": cachedStats, "cached": true})
			return
		}
		utils.Log.Debug("Cache MISS: dashboard stats")
	}

	start := time.Now()
	stats, err := concurrent.CalculateDashboardStats(5 * time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate statistics"})
		return
	}
	duration := time.Since(start)

	if cache.IsRedisAvailable() {
		cache.SetDashboardStats(stats)
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":       stats,
		"calculation_time": duration.String(),
	})
}
