package handlers

import (
	"net/http"
	"time"

	"gamereview/cache"
	"gamereview/db"
	"gamereview/models"
	"gamereview/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetGames returns the whole catalog ordered by name, with Redis caching.
func GetGames(c *gin.Context) {
	if cache.IsRedisAvailable() {
		cachedGames, err := cache.GetGames()
		if err == nil && cachedGames != nil {
			utils.Log.Debug("Cache HIT: games list")
			c.JSON(http.StatusOK, cachedGames)
			return
		}
		utils.Log.Debug("Cache MISS: games list")
	}

	var games []models.Game
	if err := db.DB.Order("name ASC").Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}

	if cache.IsRedisAvailable() {
		cache.SetGames(games)
	}

	c.JSON(http.StatusOK, games)
}

func GetGameByID(c *gin.Context) {
	id := c.Param("id")
	var game models.Game
	if err := db.DB.First(&game, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, game)
}

// parseReleaseDate turns the incoming release date string into a nullable
// timestamp: blank means NULL, anything unparseable is rejected so an
// invalid date never reaches the database.
func parseReleaseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &time.ParseError{Layout: "2006-01-02", Value: s}
}

func gameFromInput(input models.GameInput, releaseDate *time.Time) models.Game {
	return models.Game{
		Name:          input.Name,
		Description:   input.Description,
		Genre:         input.Genre,
		Platform:      input.Platform,
		Publisher:     input.Publisher,
		GameMode:      input.GameMode,
		Theme:         input.Theme,
		ReleaseDate:   releaseDate,
		AverageRating: input.AverageRating,
		ImageURL:      input.ImageURL,
	}
}

// CreateGame adds a catalog entry. Role enforcement happens in the
// AdminOnly middleware upstream.
func CreateGame(c *gin.Context) {
	var input models.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	releaseDate, err := parseReleaseDate(input.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid release date"})
		return
	}

	game := gameFromInput(input, releaseDate)
	if err := db.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	if cache.IsRedisAvailable() {
		cache.InvalidateGamesList()
	}

	c.JSON(http.StatusOK, game)
}

// UpdateGame replaces all mutable fields of a catalog entry.
func UpdateGame(c *gin.Context) {
	id := c.Param("id")
	var game models.Game
	if err := db.DB.First(&game, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input models.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	releaseDate, err := parseReleaseDate(input.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid release date"})
		return
	}

	updated := gameFromInput(input, releaseDate)
	updated.ID = game.ID
	updated.CreatedAt = game.CreatedAt
	if err := db.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
		return
	}

	if cache.IsRedisAvailable() {
		cache.InvalidateGamesList()
		cache.InvalidateGame(updated.ID)
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteGame cascades: comments under the game's reviews, the reviews, then
// the game, all inside one transaction so no partial cascade is observable.
func DeleteGame(c *gin.Context) {
	id := c.Param("id")
	var game models.Game
	if err := db.DB.First(&game, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("game_id = ?", game.ID)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&game).Error
	})
	if err != nil {
		utils.Log.Error("Failed to delete game: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}

	go func(gID uint) {
		if cache.IsRedisAvailable() {
			cache.InvalidateGamesList()
			cache.InvalidateGame(gID)
			cache.InvalidateReviews(gID)
		}
	}(game.ID)

	c.Status(http.StatusNoContent)
}
