package database

import (
	"log"

	"node-cache-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the SQLite file at path and runs migrations
func InitDB(path string) {
	var err error

	// glebarez/sqlite is pure Go, no CGO required
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	log.Printf("Database %s connected and migrated", path)
}

// Migrate creates or updates the tables for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Node{},
	)
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
