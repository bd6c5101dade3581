// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers and the registry service depend only on this interface, so a
// backend can be swapped (SQLite, PostgreSQL) by changing one line in
// main.go, and tests can pass a mock instead of a real database.
//
// ERROR CONTRACT
// ──────────────
// Every implementation reports a missing row with an error satisfying
// errors.Is(err, errors.NotFound) from github.com/juju/errors. Any other
// non-nil error is a storage failure.
package storage

import (
	"context"

	"github.com/aanand-mishra/student-registry/internal/types"
)

//go:generate go run go.uber.org/mock/mockgen -package registry -destination ../registry/storage_mock_test.go github.com/aanand-mishra/student-registry/internal/storage Storage

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new student record and returns the
	// generated primary-key ID.
	CreateStudent(ctx context.Context, in types.StudentInput) (int64, error)

	// GetStudentByID fetches a single student by their primary key.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student, newest (highest ID) first.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID overwrites all mutable fields of an existing
	// student. It never inserts a row.
	UpdateStudentByID(ctx context.Context, id int64, in types.StudentInput) error

	// DeleteStudentByID removes a student record permanently.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}
