package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/manager"
)

// Locker defines the interface the server needs from the lock manager.
type Locker interface {
	Lock(name string, owner int64) bool
	Unlock(name string, owner int64) bool
	Upgrade(name string, owner int64) bool
	Node(name string) (manager.NodeInfo, bool)
	Snapshot() []manager.NodeInfo
}

// Server exposes the lock manager as a JSON API.
type Server struct {
	locker Locker
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the lock manager.
func NewHandler(locker Locker, opts ...Option) http.Handler {
	s := &Server{
		locker: locker,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/lock", s.operation(s.locker.Lock))
		r.Post("/unlock", s.operation(s.locker.Unlock))
		r.Post("/upgrade", s.operation(s.locker.Upgrade))
		r.Get("/nodes", s.listNodes)
		r.Get("/nodes/{name}", s.getNode)
	})
	return r
}

type operationRequest struct {
	Node  string `json:"node"`
	Owner int64  `json:"owner"`
}

type operationResponse struct {
	OK bool `json:"ok"`
}

// operation adapts one manager call to a POST endpoint. The boolean outcome
// is part of the response body, not the status code: a denied lock is a
// normal result, not an HTTP error.
func (s *Server) operation(call func(string, int64) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body operationRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if body.Node == "" {
			http.Error(w, "Missing node name", http.StatusBadRequest)
			return
		}

		ok := call(body.Node, body.Owner)
		s.logger.Debug("operation handled",
			"path", r.URL.Path,
			"node", body.Node,
			"owner", body.Owner,
			"ok", ok,
		)
		s.writeJSON(w, operationResponse{OK: ok})
	}
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.locker.Snapshot())
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, found := s.locker.Node(name)
	if !found {
		http.Error(w, "Unknown node", http.StatusNotFound)
		return
	}
	s.writeJSON(w, info)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
