package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/studyhub/api/internal/model"
)

var testCounter int64

// GenerateUniquePrefix returns a prefix unique across parallel test runs
func GenerateUniquePrefix() string {
	count := atomic.AddInt64(&testCounter, 1)
	return uuid.New().String()[:8] + "_" + time.Now().Format("150405") + "_" + string(rune(count%26+'a'))
}

// SetupIsolatedTestDB connects to the local test database and hands out a
// unique data prefix. Tests are skipped when the database is unreachable.
func SetupIsolatedTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=studyhub_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	return db, GenerateUniquePrefix()
}

// CleanupTestDataByPrefix removes only the rows created under the given
// prefix, in foreign key dependency order.
func CleanupTestDataByPrefix(t *testing.T, db *sqlx.DB, prefix string) {
	t.Helper()

	ctx := context.Background()

	_, _ = db.ExecContext(ctx, "DELETE FROM posts WHERE room_id IN (SELECT room_id FROM study_rooms WHERE name LIKE $1)", prefix+"%")
	_, _ = db.ExecContext(ctx, "DELETE FROM study_rooms WHERE name LIKE $1", prefix+"%")
	_, _ = db.ExecContext(ctx, "DELETE FROM study_rooms WHERE creator_id IN (SELECT id FROM users WHERE username LIKE $1)", prefix+"%")
	_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE username LIKE $1", prefix+"%")
}

// CreateIsolatedTestUser inserts a user under the test prefix
func CreateIsolatedTestUser(t *testing.T, db *sqlx.DB, prefix, username string) *model.User {
	t.Helper()

	userRepo := NewUserRepository(db)
	user := &model.User{
		Username:     prefix + "_" + username,
		Email:        prefix + "_" + username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
