package database

import (
	"log"

	"hobbymatch-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// defaultHobbies seeds the selectable hobby list on first boot.
var defaultHobbies = []string{
	"Hiking", "Photography", "Cooking", "Board Games", "Climbing",
	"Running", "Painting", "Cycling", "Reading", "Gardening",
}

// InitDB initializes the database connection and runs migrations
func InitDB(path string) {
	var err error

	// Open SQLite database file (will be created if it doesn't exist initially)
	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Hobby{},
		&models.Swipe{},
		&models.Match{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Event{},
		&models.EventMember{},
		&models.JoinRequest{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
	)

	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	SeedHobbies(DB)

	log.Println("Database connected and migrated successfully!!!")
}

// SeedHobbies inserts the default hobby list if the table is empty.
func SeedHobbies(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Hobby{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	for _, name := range defaultHobbies {
		db.Create(&models.Hobby{ID: uuid.NewString(), Name: name})
	}
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
