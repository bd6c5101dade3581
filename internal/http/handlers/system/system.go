// Package system holds operational endpoints that are not part of the
// student resource.
package system

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-registry/internal/registry"
	"github.com/aanand-mishra/student-registry/internal/utils/response"
)

// Pinger checks that storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) registry.Outcome
}

// Health handles GET /healthz. It answers 200 when storage responds to a
// ping and 500 otherwise.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := p.Ping(r.Context())
		if !out.OK() {
			slog.Error("health check failed", slog.String("error", out.Message))
		}
		response.WriteOutcome(w, response.StatusCode(out), out)
	}
}
