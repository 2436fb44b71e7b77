package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// RunMigrations applies every pending migration. migrationsPath is either a
// directory or a migrate source URL.
func RunMigrations(databaseURL, migrationsPath string) error {
	return withMigrate(databaseURL, migrationsPath, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// RunMigrationsDown rolls back the most recent migration.
func RunMigrationsDown(databaseURL, migrationsPath string) error {
	return withMigrate(databaseURL, migrationsPath, func(m *migrate.Migrate) error {
		return m.Steps(-1)
	})
}

func withMigrate(databaseURL, migrationsPath string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL(migrationsPath), databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", migrationsPath, err)
	}
	m.Log = migrateLogger{}
	defer m.Close()

	err = step(m)
	if errors.Is(err, migrate.ErrNoChange) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, dirty, verr := m.Version()
	switch {
	case errors.Is(verr, migrate.ErrNilVersion):
		log.Info().Msg("database schema is empty")
	case verr == nil:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("database schema migrated")
	}
	return nil
}

func sourceURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// migrateLogger forwards migrate's progress lines to the global zerolog logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Debug().Str("component", "migrate").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrateLogger) Verbose() bool { return false }
