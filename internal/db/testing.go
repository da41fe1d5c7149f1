package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

func migrationsPath() string {
	if path := os.Getenv("TEST_MIGRATIONS_PATH"); path != "" {
		return path
	}
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// CreateTestPool connects to TEST_POSTGRESQL_URL, the test is skipped when
// it is not set.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	if err := ApplyMigrations(migrationsPath(), connString); err != nil {
		panic(err.Error())
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE \"user\", reminder RESTART IDENTITY CASCADE")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}

// CreateTestUser inserts a user with a fixed ID for repository tests.
func CreateTestUser(pool *pgxpool.Pool, id int64, telegramID int64) {
	_, err := pool.Exec(
		context.Background(),
		`INSERT INTO "user" (id, username, telegram_id, created_at) VALUES ($1, $2, $3, now())`,
		id,
		fmt.Sprintf("user%d", id),
		telegramID,
	)
	if err != nil {
		panic(fmt.Sprintf("Could not create test user %v.", err))
	}
}
