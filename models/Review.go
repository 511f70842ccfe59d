package models

import "time"

// Review is unique per (user, game). The composite index is what keeps
// concurrent duplicate creates out, not the handler-level existence check.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_game" json:"userId"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_game" json:"gameId"`
	User      *User     `json:"user,omitempty"`
	Game      *Game     `gorm:"constraint:OnDelete:CASCADE" json:"game,omitempty"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewInput - rating stays untyped so both numbers and numeric strings
// can be coerced, which is what browser clients actually send.
type ReviewInput struct {
	Content string      `json:"content" validate:"required,min=3"`
	Rating  interface{} `json:"rating"`
}
