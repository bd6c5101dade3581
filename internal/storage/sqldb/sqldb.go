// Package sqldb implements storage.Storage on top of database/sql for
// any driver described by a Dialect.
//
// CONNECTION DISCIPLINE
// ─────────────────────
// Every operation acquires a dedicated *sql.Conn, runs exactly one
// statement on it and releases it with a deferred Close, whatever the
// outcome. Mutating statements run inside a transaction on that
// connection: commit on success, rollback on any error.
//
// Unless ReuseConnections is set, the pool keeps no idle connections, so
// releasing a connection also closes the physical database connection.
// That gives every operation a fresh connection of its own.
package sqldb

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Dialect captures the few places where SQL drivers disagree.
type Dialect struct {
	// Name is used in log lines and error annotations.
	Name string

	// DriverName is the name the driver registered with database/sql.
	DriverName string

	// Schema creates the students table if it does not exist yet.
	Schema string

	// Placeholder returns the bind parameter for the n-th argument
	// (1-based). Queries in this package are written with "?" and
	// rewritten through it.
	Placeholder func(n int) string

	// ReturningID reports whether INSERT must use "RETURNING id" to learn
	// the generated key (the driver does not support LastInsertId).
	ReturningID bool
}

// QuestionMark is the placeholder style of SQLite and MySQL.
func QuestionMark(int) string { return "?" }

// DollarN is the placeholder style of PostgreSQL.
func DollarN(n int) string { return "$" + strconv.Itoa(n) }

// Options tunes how the Store manages connections.
type Options struct {
	// ReuseConnections keeps released connections open for later
	// operations.
	ReuseConnections bool
}

// Store is a storage.Storage backed by a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens the database with the dialect's driver, verifies it is
// reachable and creates the students table when missing.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, errors.Annotatef(err, "%s: open db", dialect.Name)
	}

	if !opts.ReuseConnections {
		db.SetMaxIdleConns(0)
	}

	s := &Store{db: db, dialect: dialect}

	err = s.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, dialect.Schema)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Annotatef(err, "%s: create table", dialect.Name)
	}

	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats exposes the database/sql pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

// Ping acquires a connection and checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
	return errors.Annotatef(err, "%s: ping", s.dialect.Name)
}

// withConn runs fn on a dedicated connection and always releases it.
func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return errors.Annotate(err, "acquire connection")
	}
	defer conn.Close()

	return fn(conn)
}

// withTx runs fn inside a transaction on a dedicated connection. The
// transaction is committed when fn succeeds and rolled back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return errors.Annotate(err, "begin transaction")
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to rollback transaction",
					slog.String("driver", s.dialect.Name),
					slog.String("error", rbErr.Error()))
			}
			return err
		}

		return errors.Annotate(tx.Commit(), "commit transaction")
	})
}

// rebind rewrites "?" placeholders into the dialect's style.
func (s *Store) rebind(query string) string {
	if s.dialect.Placeholder == nil {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
