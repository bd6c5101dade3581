// Package registry is the student record service: the five operations
// clients can perform on registration records.
//
// Every operation returns an Outcome. Validation failures, missing rows
// and storage failures are all caught here and turned into an Outcome of
// the matching Kind; no error escapes to the caller. How an Outcome is
// serialized (JSON body, HTML page, status code) is up to the transport.
package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"

	"github.com/aanand-mishra/student-registry/internal/storage"
	"github.com/aanand-mishra/student-registry/internal/types"
)

// Outcome statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Kind classifies a failed Outcome.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
)

// Outcome is the structured result of every operation.
//
// Only the fields relevant to the operation are set: ID for Create,
// Student for Get, Students for List (never nil on success).
type Outcome struct {
	Status   string
	Kind     Kind
	Message  string
	ID       int64
	Student  *types.Student
	Students []types.Student
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Observer is notified once per finished operation. *metrics.Collector
// satisfies it.
type Observer interface {
	Observe(operation, outcome string, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) Observe(string, string, time.Duration) {}

// Service runs registry operations against a storage backend.
type Service struct {
	storage  storage.Storage
	validate *validator.Validate
	observer Observer
}

// New returns a Service backed by store. observer may be nil.
func New(store storage.Storage, observer Observer) *Service {
	if observer == nil {
		observer = nopObserver{}
	}

	validate := validator.New()
	// Report fields by their JSON names so messages match what clients send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		storage:  store,
		validate: validate,
		observer: observer,
	}
}

// Create registers a new student.
//
// No required-field check happens here, unlike Update: whatever the
// client sent goes to storage, and storage constraints decide.
func (s *Service) Create(ctx context.Context, in types.StudentInput) Outcome {
	start := time.Now()

	id, err := s.storage.CreateStudent(ctx, in)
	if err != nil {
		return s.done("create", start, failure(KindStorage,
			fmt.Sprintf("Error registering the student: %s", err.Error())))
	}

	return s.done("create", start, Outcome{
		Status:  StatusSuccess,
		Message: "Student registered successfully.",
		ID:      id,
	})
}

// List returns every student, newest first.
func (s *Service) List(ctx context.Context) Outcome {
	start := time.Now()

	students, err := s.storage.GetStudents(ctx)
	if err != nil {
		return s.done("list", start, failure(KindStorage, err.Error()))
	}
	if students == nil {
		students = make([]types.Student, 0)
	}

	return s.done("list", start, Outcome{Status: StatusSuccess, Students: students})
}

// Get returns one student by ID.
func (s *Service) Get(ctx context.Context, id int64) Outcome {
	start := time.Now()

	student, err := s.storage.GetStudentByID(ctx, id)
	if err != nil {
		return s.done("get", start, storageFailure(err))
	}

	return s.done("get", start, Outcome{Status: StatusSuccess, Student: &student})
}

// Update overwrites the mutable fields of an existing student.
// firstName, lastName, email and course must be non-empty; otherwise the
// operation fails before storage is touched.
func (s *Service) Update(ctx context.Context, id int64, in types.StudentInput) Outcome {
	start := time.Now()

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return s.done("update", start, failure(KindValidation, missingFieldsMessage(fieldErrs)))
		}
		return s.done("update", start, failure(KindValidation, err.Error()))
	}

	if err := s.storage.UpdateStudentByID(ctx, id, in); err != nil {
		return s.done("update", start, storageFailure(err))
	}

	return s.done("update", start, Outcome{
		Status:  StatusSuccess,
		Message: "Student updated successfully.",
	})
}

// Delete removes a student permanently.
func (s *Service) Delete(ctx context.Context, id int64) Outcome {
	start := time.Now()

	if err := s.storage.DeleteStudentByID(ctx, id); err != nil {
		return s.done("delete", start, storageFailure(err))
	}

	return s.done("delete", start, Outcome{
		Status:  StatusSuccess,
		Message: "Student deleted successfully.",
	})
}

// Ping reports whether storage is reachable.
func (s *Service) Ping(ctx context.Context) Outcome {
	if err := s.storage.Ping(ctx); err != nil {
		return failure(KindStorage, err.Error())
	}
	return Outcome{Status: StatusSuccess}
}

func (s *Service) done(operation string, start time.Time, o Outcome) Outcome {
	outcome := string(o.Kind)
	if o.OK() {
		outcome = StatusSuccess
	}
	s.observer.Observe(operation, outcome, time.Since(start))
	return o
}

func failure(kind Kind, message string) Outcome {
	return Outcome{Status: StatusError, Kind: kind, Message: message}
}

// storageFailure separates a missing row from every other storage error.
func storageFailure(err error) Outcome {
	if errors.Is(err, errors.NotFound) {
		return failure(KindNotFound, "Student not found.")
	}
	return failure(KindStorage, err.Error())
}

func missingFieldsMessage(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field())
	}
	return "Missing required fields: " + strings.Join(fields, ", ")
}
