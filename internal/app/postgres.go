package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/iosplus-extract/config"
	"github.com/guttosm/iosplus-extract/db/migrations"
	"github.com/guttosm/iosplus-extract/internal/logger"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const pingTimeout = 5 * time.Second

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens the extract journal database.
//
// Behavior:
//   - Uses cfg.Postgres.URL, or builds the DSN from the individual fields
//     when URL is empty.
//   - Caps the pool at 4 open connections.
//   - Pings within 5 seconds; a handle that fails to ping is closed.
//
// Returns:
//   - *sql.DB: an open database connection pool (safe for concurrent use).
//   - error: if opening or pinging the database fails.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dsn := cfg.Postgres.URL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.DBName,
			cfg.Postgres.SSLMode,
		)
	}

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// MigrateJournal applies the embedded extract_log migrations.
func MigrateJournal(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migrate extract_log: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err == nil {
		logger.L().Debug().Int64("version", v).Msg("extract journal migrated")
	}
	return nil
}

// postgresOpener is an indirection used by the initializers; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres

// journalMigrator is an indirection used by the initializers; overridden in tests.
var journalMigrator = MigrateJournal
