// Package page renders the HTML registration form, the entry point for
// browsers that submit plain forms instead of JSON.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-registry/internal/registry"
	"github.com/aanand-mishra/student-registry/internal/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page renders the registration form, optionally with the outcome of the
// last submission.
type Page struct {
	tmpl *template.Template
}

type data struct {
	Result *registry.Outcome
	Input  types.StudentInput
}

// New parses the embedded templates.
func New() (*Page, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/registration.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl}, nil
}

// Index handles GET /: the empty registration form.
func (p *Page) Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Render(w, http.StatusOK, nil, types.StudentInput{}); err != nil {
			slog.Error("failed to render registration page", slog.String("error", err.Error()))
		}
	}
}

// Render writes the registration page with status. When result is set it
// is shown above the form; the submitted input is kept in the form
// unless the submission succeeded.
func (p *Page) Render(w http.ResponseWriter, status int, result *registry.Outcome, in types.StudentInput) error {
	d := data{Result: result}
	if result == nil || !result.OK() {
		d.Input = in
	}

	// Render into a buffer so a template error can still become a 500.
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, d); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
