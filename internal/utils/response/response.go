// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every JSON body this application sends has a "status" key set to
// "success" or "error". Errors carry a human-readable "message"; success
// bodies add whatever the operation produced (id, student, students).
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/student-registry/internal/registry"
)

// Response is the envelope for errors raised by the transport itself
// (bad path parameters, undecodable bodies), before any registry
// operation runs:
//
//	{ "status": "error", "message": "invalid id: must be an integer" }
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status:  registry.StatusError,
		Message: err.Error(),
	}
}

// StatusCode maps an Outcome to the HTTP status code that reports it.
func StatusCode(o registry.Outcome) int {
	switch o.Kind {
	case registry.KindNone:
		return http.StatusOK
	case registry.KindValidation:
		return http.StatusBadRequest
	case registry.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Body converts an Outcome into the JSON body sent to clients. Only the
// keys the operation produced are present, except that a successful
// listing always has "students", even when empty.
func Body(o registry.Outcome) map[string]any {
	body := map[string]any{"status": o.Status}
	if o.Message != "" {
		body["message"] = o.Message
	}
	if o.ID != 0 {
		body["id"] = o.ID
	}
	if o.Student != nil {
		body["student"] = o.Student
	}
	if o.Students != nil {
		body["students"] = o.Students
	}
	return body
}

// WriteOutcome writes o as JSON with the given status code.
func WriteOutcome(w http.ResponseWriter, status int, o registry.Outcome) error {
	return WriteJSON(w, status, Body(o))
}
