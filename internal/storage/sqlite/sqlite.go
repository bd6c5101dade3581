// Package sqlite provides the SQLite backend of storage.Storage.
//
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver, which makes it the default backend.
//
// The blank import below registers the "sqlite3" driver with
// database/sql; the queries themselves live in package sqldb.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"

	"github.com/aanand-mishra/student-registry/internal/config"
	"github.com/aanand-mishra/student-registry/internal/storage/sqldb"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeout makes a writer wait for a competing write lock instead of
// failing immediately with SQLITE_BUSY.
const busyTimeout = "_busy_timeout=5000"

// Dialect describes SQLite to package sqldb.
//
// Schema:
//
//	id        — integer primary key, auto-incremented by SQLite
//	firstName, lastName, email, course — required text
//	phone     — optional text (NULL when absent)
//	createdAt — set by SQLite when the row is inserted
var Dialect = sqldb.Dialect{
	Name:       "sqlite",
	DriverName: "sqlite3",
	Schema: `
		CREATE TABLE IF NOT EXISTS students (
			id        INTEGER   PRIMARY KEY AUTOINCREMENT,
			firstName TEXT      NOT NULL,
			lastName  TEXT      NOT NULL,
			email     TEXT      NOT NULL,
			phone     TEXT,
			course    TEXT      NOT NULL,
			createdAt TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`,
	Placeholder: sqldb.QuestionMark,
}

// New opens the SQLite database file named by cfg.Storage.Path, creating
// the file and the students table when they do not exist yet.
func New(ctx context.Context, cfg *config.Config) (*sqldb.Store, error) {
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Annotate(err, "sqlite: create storage directory")
		}
	}

	return sqldb.Open(ctx, Dialect, dsn(cfg.Storage.Path), sqldb.Options{
		ReuseConnections: cfg.Storage.ReuseConnections,
	})
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + busyTimeout
	}
	return path + "?" + busyTimeout
}
