package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:gradecurve.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/gradecurve?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// grading_runs keeps one audit row per grading run: aggregates only,
// never marks or rendered reports.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS grading_runs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL DEFAULT '',
  policy TEXT NOT NULL,              -- fixed_grading | relative_grading
  outcome TEXT NOT NULL,             -- fixed | adaptive | adaptive_fallback
  fallback_reason TEXT NOT NULL DEFAULT '',
  records INTEGER NOT NULL,
  present INTEGER NOT NULL,
  average REAL NOT NULL DEFAULT 0,
  grade_counts TEXT NOT NULL,        -- JSON {"O":3,...}
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS grading_runs_created_at ON grading_runs (created_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS grading_runs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL DEFAULT '',
  policy TEXT NOT NULL,
  outcome TEXT NOT NULL,
  fallback_reason TEXT NOT NULL DEFAULT '',
  records INTEGER NOT NULL,
  present INTEGER NOT NULL,
  average DOUBLE PRECISION NOT NULL DEFAULT 0,
  grade_counts TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS grading_runs_created_at ON grading_runs (created_at);
`
