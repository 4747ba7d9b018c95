package app

import (
	"path/filepath"
	"testing"

	"github.com/gymfeetrack/gymfeetrack/internal/db"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/security"
)

func TestCreateAdminUser_SetsAdminProfile(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "gymfeetrack-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errCreate := CreateAdminUser(conn, "owner", "password"); errCreate != nil {
		t.Fatalf("CreateAdminUser: %v", errCreate)
	}

	var user models.User
	if errFind := conn.First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if user.Username != "owner" {
		t.Fatalf("expected username=owner, got %q", user.Username)
	}
	if !security.CheckPassword(user.Password, "password") {
		t.Fatalf("expected stored hash to match password")
	}

	var profiles []models.UserProfile
	if errFind := conn.Where("user_id = ?", user.ID).Find(&profiles).Error; errFind != nil {
		t.Fatalf("find profiles: %v", errFind)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(profiles))
	}
	if !profiles[0].IsGymAdmin {
		t.Fatalf("expected seeded profile to be gym admin")
	}
}

func TestCreateAdminUser_DuplicateUsername(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "gymfeetrack-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errCreate := CreateAdminUser(conn, "owner", "password"); errCreate != nil {
		t.Fatalf("CreateAdminUser: %v", errCreate)
	}
	if errCreate := CreateAdminUser(conn, "owner", "other"); errCreate == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}

	var count int64
	if errCount := conn.Model(&models.User{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one user after duplicate rejection, got %d", count)
	}
}
