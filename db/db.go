package db

import (
	"log"
	"os"

	"gamereview/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres dbname=gamereview password=postgres sslmode=disable"
	}

	var openErr error
	// TranslateError maps postgres unique/FK violations onto
	// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated so the handlers can
	// answer 409/404 without parsing driver errors.
	DB, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if openErr != nil {
		log.Fatal("failed to connect to the database:", openErr)
	}

	migrateErr := DB.AutoMigrate(&models.User{}, &models.Game{}, &models.Review{}, &models.Comment{})
	if migrateErr != nil {
		log.Fatal("failed to migrate:", migrateErr)
	}

	log.Println("Database connected and migrated")
}
