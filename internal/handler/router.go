package handler

import (
	"net/http"

	"github.com/hakivo/podcastd/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	podcastHandler *PodcastHandler
	episodeHandler *EpisodeHandler
	healthHandler  *HealthHandler
	corsConfig     middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	podcastHandler *PodcastHandler,
	episodeHandler *EpisodeHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		podcastHandler: podcastHandler,
		episodeHandler: episodeHandler,
		healthHandler:  healthHandler,
		corsConfig:     corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// Job endpoints
	mux.HandleFunc("/submit-job", rt.handleSubmit)
	mux.HandleFunc("/job-status/", rt.handleStatus)
	mux.HandleFunc("/process-queue", rt.handleProcessQueue)

	// Episode endpoints
	mux.HandleFunc("/episodes", rt.episodeHandler.List)
	mux.HandleFunc("/episodes/", rt.episodeHandler.Get)

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rt.podcastHandler.Submit(w, r)
}

func (rt *Router) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rt.podcastHandler.Status(w, r)
}

func (rt *Router) handleProcessQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rt.podcastHandler.ProcessQueue(w, r)
}
