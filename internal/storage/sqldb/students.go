package sqldb

import (
	"context"
	"database/sql"

	"github.com/juju/errors"

	"github.com/aanand-mishra/student-registry/internal/types"
)

// Explicit column lists; the Scan order in scanStudent must match.
const selectStudents = `SELECT id, firstName, lastName, email, phone, course, createdAt FROM students`

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row inside a transaction and returns the
// generated ID.
//
// Values travel as bind parameters, never as part of the SQL text. No
// field is checked here: empty strings are stored as given, and any
// constraint violation surfaces as a storage error after the transaction
// is rolled back.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) CreateStudent(ctx context.Context, in types.StudentInput) (int64, error) {
	query := `INSERT INTO students (firstName, lastName, email, phone, course) VALUES (?, ?, ?, ?, ?)`
	if s.dialect.ReturningID {
		query += ` RETURNING id`
	}
	query = s.rebind(query)

	args := []any{in.FirstName, in.LastName, in.Email, nullIfEmpty(in.Phone), in.Course}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return errors.Annotate(err, "prepare")
		}
		defer stmt.Close()

		if s.dialect.ReturningID {
			return errors.Annotate(stmt.QueryRowContext(ctx, args...).Scan(&id), "exec")
		}

		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return errors.Annotate(err, "exec")
		}
		id, err = result.LastInsertId()
		return errors.Annotate(err, "last insert id")
	})
	if err != nil {
		return 0, errors.Annotate(err, "CreateStudent")
	}

	return id, nil
}

// GetStudentByID fetches exactly one row by primary key.
func (s *Store) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	query := s.rebind(selectStudents + ` WHERE id = ?`)

	var student types.Student
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		stmt, err := conn.PrepareContext(ctx, query)
		if err != nil {
			return errors.Annotate(err, "prepare")
		}
		defer stmt.Close()

		student, err = scanStudent(stmt.QueryRowContext(ctx, id))
		if errors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundf("student with id %d", id)
		}
		return errors.Annotate(err, "scan")
	})
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return types.Student{}, err
		}
		return types.Student{}, errors.Annotate(err, "GetStudentByID")
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents returns all rows ordered by ID, newest first.
//
// Rows are collected fully before returning; an error half-way through
// iteration discards what was read so far.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	query := selectStudents + ` ORDER BY id DESC`

	students := make([]types.Student, 0)
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return errors.Annotate(err, "query")
		}
		defer rows.Close()

		for rows.Next() {
			student, err := scanStudent(rows)
			if err != nil {
				return errors.Annotate(err, "scan row")
			}
			students = append(students, student)
		}
		return errors.Annotate(rows.Err(), "rows iteration")
	})
	if err != nil {
		return nil, errors.Annotate(err, "GetStudents")
	}

	return students, nil
}

// UpdateStudentByID overwrites every mutable column of the row. Zero
// affected rows means the ID does not exist; nothing is inserted.
func (s *Store) UpdateStudentByID(ctx context.Context, id int64, in types.StudentInput) error {
	query := s.rebind(`UPDATE students SET firstName = ?, lastName = ?, email = ?, phone = ?, course = ? WHERE id = ?`)

	affected, err := s.execAffecting(ctx, query,
		in.FirstName, in.LastName, in.Email, nullIfEmpty(in.Phone), in.Course, id)
	if err != nil {
		return errors.Annotate(err, "UpdateStudentByID")
	}
	if affected == 0 {
		return errors.NotFoundf("student with id %d", id)
	}
	return nil
}

// DeleteStudentByID removes the row. Zero affected rows means the ID
// does not exist.
func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	query := s.rebind(`DELETE FROM students WHERE id = ?`)

	affected, err := s.execAffecting(ctx, query, id)
	if err != nil {
		return errors.Annotate(err, "DeleteStudentByID")
	}
	if affected == 0 {
		return errors.NotFoundf("student with id %d", id)
	}
	return nil
}

// execAffecting runs one prepared statement in a transaction and returns
// the number of rows it touched, read before the commit.
func (s *Store) execAffecting(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return errors.Annotate(err, "prepare")
		}
		defer stmt.Close()

		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return errors.Annotate(err, "exec")
		}
		affected, err = result.RowsAffected()
		return errors.Annotate(err, "rows affected")
	})
	return affected, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (types.Student, error) {
	var (
		student types.Student
		phone   sql.NullString
	)
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&phone,
		&student.Course,
		&student.CreatedAt,
	)
	student.Phone = phone.String
	return student, err
}

// nullIfEmpty stores absent optional values as NULL.
func nullIfEmpty(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
