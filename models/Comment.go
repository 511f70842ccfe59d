package models

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	UserID    uint      `gorm:"not null" json:"userId"`
	ReviewID  uint      `gorm:"not null" json:"reviewId"`
	User      *User     `json:"user,omitempty"`
	Review    *Review   `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,min=1"`
}
