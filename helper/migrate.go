package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"condo/config"
	"condo/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const MigrationsDir = "migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// MigrationDSN is the write DSN with golang-migrate's bookkeeping table appended.
func MigrationDSN(cfg *config.Config) string {
	pg := cfg.DB.Postgres
	dsn := postgres.DSN(postgres.Endpoint(pg.Write), pg.Prefix)

	if pg.MigrationTable == "" {
		return dsn
	}

	return dsn + "&x-migrations-table=" + url.QueryEscape(pg.MigrationTable)
}

func Runner(cfg *config.Config, action string) error {
	return Migrate(MigrationDSN(cfg), MigrationsDir, action)
}

// Migrate applies action to the database at dsn using the SQL files in dir.
func Migrate(dsn, dir, action string) error {
	steps := map[string]func(*migrate.Migrate) error{
		ActionUp:     (*migrate.Migrate).Up,
		ActionDrop:   (*migrate.Migrate).Down,
		ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
		ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	}

	step, ok := steps[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrator")
		}
	}()

	if err := step(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}
