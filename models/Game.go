package models

import "time"

type Game struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   string     `json:"description"`
	Genre         string     `json:"genre"`
	Platform      string     `json:"platform"`
	Publisher     string     `json:"publisher"`
	GameMode      string     `json:"game_mode"`
	Theme         string     `json:"theme"`
	ReleaseDate   *time.Time `json:"release_date"`
	AverageRating *float64   `json:"average_rating"`
	ImageURL      string     `json:"image_url"`
	CreatedAt     time.Time  `json:"-"`
}

// GameInput carries the mutable catalog fields. ReleaseDate arrives as a
// string and is parsed before persistence; blank means NULL.
type GameInput struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Genre         string   `json:"genre"`
	Platform      string   `json:"platform"`
	Publisher     string   `json:"publisher"`
	GameMode      string   `json:"game_mode"`
	Theme         string   `json:"theme"`
	ReleaseDate   string   `json:"release_date"`
	AverageRating *float64 `json:"average_rating"`
	ImageURL      string   `json:"image_url"`
}
