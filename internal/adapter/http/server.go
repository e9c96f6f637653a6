package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runner performs one scrape run.
type Runner interface {
	RunOnce(ctx context.Context) (domain.RunResult, error)
}

// Server exposes the run trigger alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the trigger routes (/ and /run) plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, runner Runner, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// A run includes a fetch of up to FETCH_TIMEOUT plus two uploads.
			WriteTimeout: 3 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	run := RunHandler(runner)
	for _, pattern := range []string{"GET /{$}", "POST /{$}", "GET /run", "POST /run"} {
		mux.Handle(pattern, run)
	}
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// errorResponse is the body of a failed run.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// RunHandler triggers one run per request. The request body and query are
// ignored. Success responds 200 with the run result; any failure responds 500
// with the error message and its kind.
func RunHandler(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := runner.RunOnce(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: err.Error(),
				Kind:  domain.ErrorKind(err),
			})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
