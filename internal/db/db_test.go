package db

import (
	"path/filepath"
	"testing"

	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

func TestOpenMigrate_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "gymfeetrack-test.db")
	conn, err := Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	// Migrations are idempotent.
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("second migrate: %v", errMigrate)
	}

	for _, model := range []any{
		&models.User{}, &models.UserProfile{}, &models.MembershipPlan{},
		&models.MemberSubscription{}, &models.Payment{},
	} {
		if !conn.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
	if !IsSQLite(conn) {
		t.Fatalf("expected sqlite dialect, got %q", DialectName(conn))
	}
}

func TestIsSQLiteDSN(t *testing.T) {
	for dsn, want := range map[string]bool{
		"file:/tmp/gym.db":           true,
		":memory:":                   true,
		"gym.db":                     true,
		"postgres://host:5432/gym":   false,
		"host=localhost user=gym":    false,
		"postgresql://host:5432/gym": false,
	} {
		if got := isSQLiteDSN(dsn); got != want {
			t.Fatalf("isSQLiteDSN(%q)=%v, want %v", dsn, got, want)
		}
	}
}

func TestCaseInsensitiveLikeExpr(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "gymfeetrack-test.db")
	conn, err := Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if expr := CaseInsensitiveLikeExpr(conn, "users.username"); expr != "LOWER(users.username) LIKE ?" {
		t.Fatalf("unexpected sqlite expr: %q", expr)
	}
	if pattern := NormalizeLikePattern(conn, "%Ali%"); pattern != "%ali%" {
		t.Fatalf("unexpected sqlite pattern: %q", pattern)
	}
}
