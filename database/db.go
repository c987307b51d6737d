package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edemey4711/MID/models"
)

var DB *gorm.DB

func Connect(path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&models.Image{}, &models.User{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	DB = db
	log.Info("database connection established")
	return nil
}
