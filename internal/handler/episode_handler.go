package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hakivo/podcastd/internal/database"
	"github.com/hakivo/podcastd/internal/model"
)

// EpisodeHandler serves persisted podcast episodes
type EpisodeHandler struct {
	episodes *database.EpisodeRepository
}

// NewEpisodeHandler creates an episode handler
func NewEpisodeHandler(episodes *database.EpisodeRepository) *EpisodeHandler {
	return &EpisodeHandler{episodes: episodes}
}

// EpisodeListResponse is a paginated list of episodes
type EpisodeListResponse struct {
	Episodes []model.Episode `json:"episodes"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// List handles GET /episodes?userId=...&page=...&limit=...
func (h *EpisodeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	episodes, total, err := h.episodes.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if episodes == nil {
		episodes = []model.Episode{}
	}

	writeJSON(w, http.StatusOK, EpisodeListResponse{
		Episodes: episodes,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// Get handles GET /episodes/{jobId}
func (h *EpisodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/episodes/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	episode, err := h.episodes.GetByJobID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, episode)
}
