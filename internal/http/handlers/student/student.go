// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives the dependencies once, at route
// registration, and returns the http.HandlerFunc that runs on every
// request:
//
//	r.Post("/", student.New(registry, page))
//
// The handlers only translate HTTP into registry calls and registry
// Outcomes back into HTTP; all decisions about the records themselves
// are made by the registry service.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/student-registry/internal/registry"
	"github.com/aanand-mishra/student-registry/internal/types"
	"github.com/aanand-mishra/student-registry/internal/utils/response"
)

// maxFormMemory bounds multipart form parsing.
const maxFormMemory = 1 << 20

// Registry is the subset of the registry service the handlers use.
type Registry interface {
	Create(ctx context.Context, in types.StudentInput) registry.Outcome
	List(ctx context.Context) registry.Outcome
	Get(ctx context.Context, id int64) registry.Outcome
	Update(ctx context.Context, id int64, in types.StudentInput) registry.Outcome
	Delete(ctx context.Context, id int64) registry.Outcome
}

// Renderer re-renders the registration page for form submissions.
type Renderer interface {
	Render(w http.ResponseWriter, status int, result *registry.Outcome, in types.StudentInput) error
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Registers a new student.
//
// JSON request body:
//
//	{ "firstName": "Ana", "lastName": "Lopez", "email": "a@x.com", "course": "Math" }
//
// The response is always 200; the body's status tells success from error:
//
//	{ "status": "success", "message": "...", "id": 1 }
//	{ "status": "error", "message": "Error registering the student: ..." }
//
// A body that is not JSON is read as a form (url-encoded or multipart)
// and gets the registration page back with the outcome shown above the
// form.
// ─────────────────────────────────────────────────────────────────────────────
func New(reg Registry, page Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student", requestID(r))

		if !isJSON(r) {
			status := http.StatusOK
			in, err := decodeForm(r)

			var out registry.Outcome
			if err != nil {
				status = http.StatusBadRequest
				out = registry.Outcome{
					Status:  registry.StatusError,
					Kind:    registry.KindValidation,
					Message: "Invalid form submission: " + err.Error(),
				}
			} else {
				out = reg.Create(r.Context(), in)
			}
			logOutcome("create", r, out)

			if err := page.Render(w, status, &out, in); err != nil {
				slog.Error("failed to render registration page",
					requestID(r), slog.String("error", err.Error()))
			}
			return
		}

		in, ok := decodeJSON(w, r)
		if !ok {
			return
		}

		out := reg.Create(r.Context(), in)
		logOutcome("create", r, out)

		response.WriteOutcome(w, http.StatusOK, out)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns every student, newest first:
//
//	{ "status": "success", "students": [ { "id": 2, ... }, { "id": 1, ... } ] }
//
// An empty table gives "students": [] (not null).
// ─────────────────────────────────────────────────────────────────────────────
func GetList(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students", requestID(r))

		out := reg.List(r.Context())
		logOutcome("list", r, out)

		response.WriteOutcome(w, response.StatusCode(out), out)
	}
}

// GetByID handles GET /api/students/{id}
//
//	200 { "status": "success", "student": { "id": 1, ... } }
//	404 student not found, 500 storage error
func GetByID(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", requestID(r), slog.Int64("id", id))

		out := reg.Get(r.Context(), id)
		logOutcome("get", r, out)

		response.WriteOutcome(w, response.StatusCode(out), out)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL mutable fields of an existing student. The body may be
// JSON or a form.
//
//	200 { "status": "success", "message": "Student updated successfully." }
//	400 missing required fields, 404 student not found, 500 storage error
// ─────────────────────────────────────────────────────────────────────────────
func Update(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", requestID(r), slog.Int64("id", id))

		var in types.StudentInput
		if isJSON(r) {
			if in, ok = decodeJSON(w, r); !ok {
				return
			}
		} else {
			var err error
			if in, err = decodeForm(r); err != nil {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
		}

		out := reg.Update(r.Context(), id, in)
		logOutcome("update", r, out)

		response.WriteOutcome(w, response.StatusCode(out), out)
	}
}

// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
func Delete(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", requestID(r), slog.Int64("id", id))

		out := reg.Delete(r.Context(), id)
		logOutcome("delete", r, out)

		response.WriteOutcome(w, response.StatusCode(out), out)
	}
}

// parseID reads the {id} path segment. On failure it writes a 400 and
// returns false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeJSON reads a StudentInput from a JSON body. On failure it writes
// a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var in types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	return in, true
}

func decodeForm(r *http.Request) (types.StudentInput, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return types.StudentInput{}, err
	}

	return types.StudentInput{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Email:     r.PostFormValue("email"),
		Phone:     r.PostFormValue("phone"),
		Course:    r.PostFormValue("course"),
	}, nil
}

// isJSON reports whether the body is JSON. Everything else, including a
// missing Content-Type, is treated as a form.
func isJSON(r *http.Request) bool {
	// ParseMediaType still returns the media type when only a parameter is bad.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func requestID(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.GetReqID(r.Context()))
}

func logOutcome(operation string, r *http.Request, out registry.Outcome) {
	switch out.Kind {
	case registry.KindNone:
		slog.Info("student "+operation+" succeeded", requestID(r), slog.Int64("id", out.ID))
	case registry.KindStorage:
		slog.Error("student "+operation+" failed",
			requestID(r), slog.String("error", out.Message))
	default:
		slog.Warn("student "+operation+" rejected",
			requestID(r), slog.String("kind", string(out.Kind)), slog.String("message", out.Message))
	}
}
