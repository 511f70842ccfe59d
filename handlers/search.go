package handlers

import (
	"net/http"
	"strings"

	"gamereview/db"
	"gamereview/models"

	"github.com/gin-gonic/gin"
)

// SearchGames does a case-insensitive substring search over name,
// description, genre and publisher. A blank query returns an empty list on
// purpose: an empty search box should show nothing, not everything.
func SearchGames(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []models.Game{})
		return
	}

	searchPattern := "%" + query + "%"

	var games []models.Game
	err := db.DB.
		Where("name ILIKE ? OR description ILIKE ? OR genre ILIKE ? OR publisher ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern).
		Order("name ASC").
		Find(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while searching for games"})
		return
	}

	c.JSON(http.StatusOK, games)
}
