package server

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API of the cluster index.
type Server struct {
	router   chi.Router
	index    atomic.Pointer[cluster.Cluster]
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// New creates the server, cluster endpoints answer 503 until SetIndex is called.
func New(m *metrics.Metrics, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		metrics:  m,
		gatherer: gatherer,
		log:      log,
	}
	s.setupRoutes()
	return s
}

// SetIndex publishes a built index to the handlers.
func (s *Server) SetIndex(c *cluster.Cluster) {
	s.index.Store(c)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/clusters", s.handleClusters)
		r.Post("/viewport", s.handleViewport)

		r.Route("/clusters/{clusterID}", func(r chi.Router) {
			r.Get("/children", s.handleChildren)
			r.Get("/leaves", s.handleLeaves)
			r.Get("/expansion-zoom", s.handleExpansionZoom)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.index.Load()
	if c == nil {
		jsonError(w, "index is not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "points": c.Len()})
}

// ready returns the published index or answers 503
func (s *Server) ready(w http.ResponseWriter) (*cluster.Cluster, bool) {
	c := s.index.Load()
	if c == nil {
		jsonError(w, "index is not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	return c, true
}
