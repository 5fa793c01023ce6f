// Package httpapi exposes solving and feasibility checking over HTTP.
//
// The server is deliberately small: two JSON POST endpoints, a health
// probe, and a Prometheus metrics endpoint. Problems travel in the same
// JSON schema the dataset package writes to disk, so anything prepared
// offline can be posted as-is.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/openfleet/vrpkit/internal/log"
)

const defaultSolveTimeout = 30 * time.Second

// Server routes solve and feasibility requests to the solver.
type Server struct {
	router       chi.Router
	log          zerolog.Logger
	metrics      *metrics
	solveTimeout time.Duration
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithLogger attaches a structured logger for request and solve logs.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithSolveTimeout caps how long a single solve request may run. The
// solver also honors any explicit time limit in the request body, so
// this is the outer bound.
func WithSolveTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.solveTimeout = d
		}
	}
}

// NewServer assembles the router and all middleware.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		log:          zerolog.Nop(),
		metrics:      newMetrics(),
		solveTimeout: defaultSolveTimeout,
	}
	for _, apply := range opts {
		apply(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	r.Post("/v1/solve", s.handleSolve)
	r.Post("/v1/feasibility", s.handleFeasibility)

	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger tags every request with a job ID, echoes it back in the
// X-Job-ID header, and logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobID := uuid.NewString()
		ctx := log.ContextWithJobID(r.Context(), jobID)
		w.Header().Set("X-Job-ID", jobID)

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		s.log.Info().
			Str("job_id", jobID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
