package main

import (
	"log"
	"time"

	"gamereview/db"
	"gamereview/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatal("bad seed date:", s)
	}
	return &t
}

func rating(v float64) *float64 { return &v }

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatal("failed to hash seed password:", err)
	}
	return string(h)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db.InitDB()

	log.Println("Starting seed...")

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Clear existing data, children first
		for _, model := range []interface{}{&models.Comment{}, &models.Review{}, &models.Game{}, &models.User{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		users := []models.User{
			{Username: "admin", Email: "admin@example.com", Password: hash("admin123"), Role: "admin"},
			{Username: "user", Email: "user@example.com", Password: hash("user123"), Role: "user"},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		games := []models.Game{
			{
				Name:          "Halo 3",
				Description:   "First-person shooter closing out the original trilogy, balancing weapons, grenades and melee across foot and vehicle combat.",
				Genre:         "Shooter",
				Platform:      "Xbox 360",
				Publisher:     "Microsoft",
				GameMode:      "Single player, Multi-player",
				Theme:         "Sci-Fi",
				ReleaseDate:   date("2007-09-25"),
				AverageRating: rating(4.7),
				ImageURL:      "https://upload.wikimedia.org/wikipedia/en/b/b4/Halo_3_final_boxshot.JPG",
			},
			{
				Name:          "Halo",
				Description:   "Marooned on the ring-world Halo, Master Chief wages a guerilla war against the Covenant to lure the alien fleet away from Earth.",
				Genre:         "Shooter",
				Platform:      "Xbox",
				Publisher:     "Microsoft",
				GameMode:      "Single player, Multi-player",
				Theme:         "Sci-Fi",
				ReleaseDate:   date("2001-11-15"),
				AverageRating: rating(4.6),
				ImageURL:      "https://upload.wikimedia.org/wikipedia/en/8/80/Halo_-_Combat_Evolved_%28XBox_version_-_box_art%29.jpg",
			},
			{
				Name:          "The Witcher 3: Wild Hunt",
				Description:   "Open-world RPG following monster hunter Geralt of Rivia in search of his adopted daughter across a war-torn continent.",
				Genre:         "RPG",
				Platform:      "PC, PlayStation 4, Xbox One",
				Publisher:     "CD Projekt",
				GameMode:      "Single player",
				Theme:         "Fantasy",
				ReleaseDate:   date("2015-05-19"),
				AverageRating: rating(4.9),
				ImageURL:      "https://upload.wikimedia.org/wikipedia/en/0/0c/Witcher_3_cover_art.jpg",
			},
			{
				Name:        "Stardew Valley",
				Description: "Farming simulation where an inherited plot grows into a thriving homestead, with fishing, mining and a village of neighbors.",
				Genre:       "Simulation",
				Platform:    "PC, Switch",
				Publisher:   "ConcernedApe",
				GameMode:    "Single player, Multi-player",
				Theme:       "Farming",
				ReleaseDate: date("2016-02-26"),
				ImageURL:    "https://upload.wikimedia.org/wikipedia/en/f/fd/Logo_of_Stardew_Valley.png",
			},
		}
		return tx.Create(&games).Error
	})
	if err != nil {
		log.Fatal("seed failed:", err)
	}

	log.Println("Seed complete")
}
