package concurrent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gamereview/db"
	"gamereview/models"
)

// DashboardStats aggregates the platform counters shown on the admin
// dashboard. Each field is written by exactly one goroutine.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalGames    int64   `json:"total_games"`
	TotalReviews  int64   `json:"total_reviews"`
	TotalComments int64   `json:"total_comments"`
	AverageRating float64 `json:"average_rating"`
	TopGenre      string  `json:"top_genre"`
}

// CalculateDashboardStats runs the independent COUNT/AVG queries in
// parallel. Reads don't block each other, so fan-out cuts the dashboard
// latency to the slowest single query.
func CalculateDashboardStats(timeout time.Duration) (*DashboardStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stats := &DashboardStats{}

	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		db.DB.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers)
	}()

	go func() {
		defer wg.Done()
		db.DB.WithContext(ctx).Model(&models.Game{}).Count(&stats.TotalGames)
	}()

	go func() {
		defer wg.Done()
		db.DB.WithContext(ctx).Model(&models.Review{}).Count(&stats.TotalReviews)
	}()

	go func() {
		defer wg.Done()
		db.DB.WithContext(ctx).Model(&models.Comment{}).Count(&stats.TotalComments)
	}()

	go func() {
		defer wg.Done()
		var avg struct{ Avg float64 }
		db.DB.WithContext(ctx).Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) as avg").
			Scan(&avg)
		stats.AverageRating = avg.Avg
	}()

	go func() {
		defer wg.Done()
		var top struct {
			Genre string
			Count int64
		}
		db.DB.WithContext(ctx).Model(&models.Game{}).
			Select("genre, COUNT(*) as count").
			Where("genre <> ''").
			Group("genre").
			Order("count DESC").
			Limit(1).
			Scan(&top)
		if top.Genre != "" {
			stats.TopGenre = top.Genre
		} else {
			stats.TopGenre = "N/A"
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return stats, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("dashboard stats timed out after %v", timeout)
	}
}
