// Package postgres provides the PostgreSQL backend of storage.Storage,
// using pgx through its database/sql adapter.
package postgres

import (
	"context"

	"github.com/aanand-mishra/student-registry/internal/config"
	"github.com/aanand-mishra/student-registry/internal/storage/sqldb"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect describes PostgreSQL to package sqldb. Unquoted column names
// fold to lower case, which is fine as long as every query leaves them
// unquoted too.
var Dialect = sqldb.Dialect{
	Name:       "postgres",
	DriverName: "pgx",
	Schema: `
		CREATE TABLE IF NOT EXISTS students (
			id        BIGSERIAL   PRIMARY KEY,
			firstName TEXT        NOT NULL,
			lastName  TEXT        NOT NULL,
			email     TEXT        NOT NULL,
			phone     TEXT,
			course    TEXT        NOT NULL,
			createdAt TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`,
	Placeholder: sqldb.DollarN,
	ReturningID: true,
}

// New connects to the database described by cfg.Storage and creates the
// students table when missing.
func New(ctx context.Context, cfg *config.Config) (*sqldb.Store, error) {
	return sqldb.Open(ctx, Dialect, cfg.Storage.DSN(), sqldb.Options{
		ReuseConnections: cfg.Storage.ReuseConnections,
	})
}
