package database

import (
	"fmt"
	"log"

	"studysphere_backend/internal/config"
	"studysphere_backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.Port,
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate applies schema migrations. Skipped in release mode unless forced
// from the command line.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.FlashcardSet{},
		&model.Flashcard{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
