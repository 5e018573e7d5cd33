package services

import (
	"testing"

	"github.com/godocompany/roomchat-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomUser{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser registers a user through the users service.
func createTestUser(t *testing.T, users *UsersService, email, name, password string) *models.User {
	t.Helper()

	user, err := users.CreateUser(email, name, password)
	if err != nil {
		t.Fatalf("failed to create test user %q: %v", email, err)
	}
	return user
}
