package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ApplyMigrations brings the schema at connString up to date with the
// migrations found in path.
func ApplyMigrations(path string, connString string) error {
	m, err := migrate.New("file://"+path, connString)
	if err != nil {
		return fmt.Errorf("could not connect to DB for applying migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if !errors.Is(err, migrate.ErrNoChange) && err != nil {
		return fmt.Errorf("could not apply DB migrations: %w", err)
	}
	return nil
}
