// Package router wires every HTTP route of the service.
//
// Route table:
//
//	GET    /                    → registration page (HTML)
//	GET    /healthz             → storage health check
//	GET    /metrics             → Prometheus metrics
//	POST   /api/students        → create a new student (JSON or form)
//	GET    /api/students        → list all students
//	GET    /api/students/{id}   → get one student by ID
//	PUT    /api/students/{id}   → update a student
//	DELETE /api/students/{id}   → delete a student
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-registry/internal/http/handlers/page"
	"github.com/aanand-mishra/student-registry/internal/http/handlers/student"
	"github.com/aanand-mishra/student-registry/internal/http/handlers/system"
	"github.com/aanand-mishra/student-registry/internal/http/middleware"
)

// Service is everything the routes need from the registry service.
type Service interface {
	student.Registry
	system.Pinger
}

// New returns the root handler. gatherer supplies the /metrics endpoint.
func New(svc Service, pg *page.Page, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", pg.Index())
	r.Get("/healthz", system.Health(svc))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/students", func(r chi.Router) {
		r.Post("/", student.New(svc, pg))
		r.Get("/", student.GetList(svc))
		r.Get("/{id}", student.GetByID(svc))
		r.Put("/{id}", student.Update(svc))
		r.Delete("/{id}", student.Delete(svc))
	})

	return r
}
