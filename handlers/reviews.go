package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gamereview/cache"
	"gamereview/db"
	"gamereview/models"
	"gamereview/monitoring"
	"gamereview/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// selectAuthor restricts preloaded users to their display name. Password is
// excluded from serialization at the model level; email must never ride
// along on a review or comment author.
func selectAuthor(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "username")
}

// coerceRating accepts what browser clients actually send - a JSON number
// or a numeric string - and rejects everything else before persistence.
func coerceRating(v interface{}) (int, error) {
	var rating int
	switch val := v.(type) {
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("rating must be a whole number")
		}
		rating = int(val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("rating must be a whole number")
		}
		rating = int(n)
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("rating must be a number")
		}
		rating = n
	default:
		return 0, fmt.Errorf("rating must be a number")
	}
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("rating must be between 1 and 5")
	}
	return rating, nil
}

// GetMyReviews returns the caller's reviews with their game and comment
// threads, newest first.
func GetMyReviews(c *gin.Context) {
	claims := CurrentUser(c)

	var reviews []models.Review
	err := db.DB.
		Where("user_id = ?", claims.ID).
		Preload("Game").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("comments.created_at DESC") }).
		Preload("Comments.User", selectAuthor).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetGameReviews returns all reviews on a game with author names and
// comment threads, newest first, with Redis caching per game.
func GetGameReviews(c *gin.Context) {
	id := c.Param("id")
	gID, err := strconv.Atoi(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	if cache.IsRedisAvailable() {
		cachedReviews, err := cache.GetReviews(uint(gID))
		if err == nil && cachedReviews != nil {
			utils.Log.Debug(fmt.Sprintf("Cache HIT: reviews for game %d", gID))
			c.JSON(http.StatusOK, cachedReviews)
			return
		}
		utils.Log.Debug(fmt.Sprintf("Cache MISS: reviews for game %d", gID))
	}

	var reviews []models.Review
	err = db.DB.
		Where("game_id = ?", gID).
		Preload("User", selectAuthor).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("comments.created_at DESC") }).
		Preload("Comments.User", selectAuthor).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	if cache.IsRedisAvailable() {
		cache.SetReviews(uint(gID), reviews)
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview posts the caller's review on a game. The one-review-per-
// user-per-game rule is the composite unique index: under two concurrent
// creates exactly one insert wins and the loser surfaces as a conflict.
func CreateReview(c *gin.Context) {
	claims := CurrentUser(c)

	id := c.Param("id")
	var game models.Game
	if err := db.DB.First(&game, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}
	rating, err := coerceRating(input.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		Content: input.Content,
		Rating:  rating,
		UserID:  claims.ID,
		GameID:  game.ID,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this game"})
			return
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		utils.Log.Error("Failed to create review: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	review.User = &models.User{ID: claims.ID, Username: claims.Username}
	monitoring.ReviewsCreated.Inc()

	go func(gID uint) {
		if cache.IsRedisAvailable() {
			cache.InvalidateReviews(gID)
			utils.Log.Info(fmt.Sprintf("Reviews cache invalidated for game %d (ASYNC)", gID))
		}
	}(review.GameID)

	c.JSON(http.StatusOK, review)
}

// UpdateReview mutates a review owned by the caller. The write itself
// carries the owner predicate so it stays atomic against concurrent
// deletes; the prior read only picks 404 vs 403 for the response.
func UpdateReview(c *gin.Context) {
	claims := CurrentUser(c)
	id := c.Param("id")

	var review models.Review
	if err := db.DB.First(&review, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != claims.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}
	rating, err := coerceRating(input.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Model(&models.Review{}).
		Where("id = ? AND user_id = ?", review.ID, claims.ID).
		Updates(map[string]interface{}{"content": input.Content, "rating": rating})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	review.Content = input.Content
	review.Rating = rating

	go func(gID uint) {
		if cache.IsRedisAvailable() {
			cache.InvalidateReviews(gID)
		}
	}(review.GameID)

	c.JSON(http.StatusOK, review)
}

// DeleteReview removes a review owned by the caller together with its
// comment thread, in one transaction.
func DeleteReview(c *gin.Context) {
	claims := CurrentUser(c)
	id := c.Param("id")

	var review models.Review
	if err := db.DB.First(&review, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != claims.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", review.ID, claims.ID).Delete(&models.Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		utils.Log.Error("Failed to delete review: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	go func(gID uint) {
		if cache.IsRedisAvailable() {
			cache.InvalidateReviews(gID)
			utils.Log.Info(fmt.Sprintf("Reviews cache invalidated for game %d (ASYNC)", gID))
		}
	}(review.GameID)

	c.Status(http.StatusNoContent)
}
