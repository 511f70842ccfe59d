package handlers

import (
	"net/http"

	"gamereview/db"
	"gamereview/models"
	"gamereview/utils"

	"github.com/gin-gonic/gin"
)

// UserSummary is the directory row: public identity plus how many reviews
// the user owns. Password hashes never leave the store.
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ReviewCount int64  `json:"reviewCount"`
}

// GetUsers lists all users with their review counts, ordered by username.
// Reached only through AuthMiddleware + AdminOnly.
func GetUsers(c *gin.Context) {
	var users []UserSummary
	err := db.DB.Model(&models.User{}).
		Select("users.id, users.username, users.email, users.role, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.user_id = users.id").
		Group("users.id").
		Order("users.username ASC").
		Scan(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUserRole reassigns a user's role. The change only reaches issued
// tokens once the user logs in again.
func UpdateUserRole(c *gin.Context) {
	id := c.Param("id")

	var input models.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Role = input.Role
	if err := db.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
