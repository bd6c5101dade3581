package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLoggerLogsAtInfo(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	c.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/students", nil))

	var line map[string]any
	c.Assert(json.Unmarshal(buf.Bytes(), &line), qt.IsNil)
	c.Assert(line["level"], qt.Equals, "INFO")
	c.Assert(line["msg"], qt.Equals, "request")
	c.Assert(line["method"], qt.Equals, http.MethodPost)
	c.Assert(line["path"], qt.Equals, "/api/students")
	c.Assert(line["status"], qt.Equals, float64(http.StatusCreated))
}
