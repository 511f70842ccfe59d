package handlers

import (
	"errors"
	"net/http"

	"gamereview/cache"
	"gamereview/db"
	"gamereview/models"
	"gamereview/monitoring"
	"gamereview/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetReviewComments returns the thread under a review, newest first.
func GetReviewComments(c *gin.Context) {
	id := c.Param("id")

	var comments []models.Comment
	err := db.DB.
		Where("review_id = ?", id).
		Preload("User", selectAuthor).
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// GetMyComments returns the caller's comments, each with the parent review
// and the name of the game it discusses.
func GetMyComments(c *gin.Context) {
	claims := CurrentUser(c)

	var comments []models.Comment
	err := db.DB.
		Where("user_id = ?", claims.ID).
		Preload("Review").
		Preload("Review.Game", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name") }).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment attaches a comment to an existing review.
func CreateComment(c *gin.Context) {
	claims := CurrentUser(c)

	id := c.Param("id")
	var review models.Review
	if err := db.DB.First(&review, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	comment := models.Comment{
		Content:  input.Content,
		UserID:   claims.ID,
		ReviewID: review.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		utils.Log.Error("Failed to create comment: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	comment.User = &models.User{ID: claims.ID, Username: claims.Username}
	monitoring.CommentsCreated.Inc()

	go func(gID uint) {
		if cache.IsRedisAvailable() {
			cache.InvalidateReviews(gID)
		}
	}(review.GameID)

	c.JSON(http.StatusOK, comment)
}

// UpdateComment mutates a comment owned by the caller; the owner predicate
// rides on the UPDATE itself.
func UpdateComment(c *gin.Context) {
	claims := CurrentUser(c)
	id := c.Param("id")

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.UserID != claims.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	result := db.DB.Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", comment.ID, claims.ID).
		Update("content", input.Content)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	comment.Content = input.Content
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment owned by the caller.
func DeleteComment(c *gin.Context) {
	claims := CurrentUser(c)
	id := c.Param("id")

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.UserID != claims.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	result := db.DB.Where("id = ? AND user_id = ?", comment.ID, claims.ID).Delete(&models.Comment{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.Status(http.StatusNoContent)
}
