package config

import (
	"os"

	"github.com/krammy-app/krammy-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Database *gorm.DB

func Connect() error {
	var err error
	dbURL := os.Getenv("DB_URL")
	Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = Migrate(Database)
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}

// Migrate runs the schema migration for all Krammy models. Split out of
// Connect so tests can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Deck{},
		&models.Flashcard{},
		&models.CardToDeck{},
		&models.SharedDeck{},
		&models.SharedDeckUser{},
		&models.DeckMetric{},
	)
}
