package sqlstore

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

var (
	//go:embed schema_sqlite.sql
	sqliteSchema string

	//go:embed schema_postgres.sql
	postgresSchema string
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the database and creates the schema if necessary. For
// SQLite, source is a file path (or ":memory:"); for Postgres it is a DSN.
//
// SQLite is limited to a single connection so every write goes through one
// writer.
func Open(ctx context.Context, driver, source string) (*sqlx.DB, error) {
	dsn := source
	if driver == DriverSQLite {
		dsn = source + "?" + sqlitePragmas
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the songs and plays tables. It is safe to run against an
// already initialized database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}
