package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/queue"
	"github.com/hakivo/podcastd/internal/service"
	"github.com/hakivo/podcastd/internal/status"
)

// InternalSecretHeader authenticates internal service-to-service calls
const InternalSecretHeader = "X-Internal-Secret"

// PodcastHandler handles job submission, status polling, and the manual
// queue processor endpoint.
type PodcastHandler struct {
	submitter      *service.Submitter
	statuses       status.Store
	jobs           queue.Queue
	processor      *service.Processor
	internalSecret string
}

// NewPodcastHandler creates a podcast handler
func NewPodcastHandler(
	submitter *service.Submitter,
	statuses status.Store,
	jobs queue.Queue,
	processor *service.Processor,
	internalSecret string,
) *PodcastHandler {
	return &PodcastHandler{
		submitter:      submitter,
		statuses:       statuses,
		jobs:           jobs,
		processor:      processor,
		internalSecret: internalSecret,
	}
}

// SubmitRequest represents the submit-job request body
type SubmitRequest struct {
	JobID     string   `json:"jobId,omitempty"`
	UserID    string   `json:"userId"`
	Type      string   `json:"type"`
	BillCount int      `json:"billCount,omitempty"`
	Topics    []string `json:"topics,omitempty"`
}

// SubmitResponse represents the submit-job response body
type SubmitResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
}

// Submit handles POST /submit-job
func (h *PodcastHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	kind, err := model.ParseJobKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := h.submitter.Submit(r.Context(), service.SubmitRequest{
		JobID:     req.JobID,
		UserID:    req.UserID,
		Kind:      kind,
		BillCount: req.BillCount,
		Topics:    req.Topics,
	})
	if err != nil {
		if service.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, JobID: jobID})
}

// StatusResponse is the polling payload returned for a job
type StatusResponse struct {
	JobID    string `json:"jobId"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Status handles GET /job-status/{jobId}?userId=...
func (h *PodcastHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/job-status/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	st, err := h.statuses.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The owner's slot may already belong to a newer job
	if st.JobID != jobID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		JobID:    st.JobID,
		Status:   string(st.State),
		Progress: st.Progress,
		Message:  st.Message,
		AudioURL: st.AudioURL,
		Duration: st.Duration,
		Error:    st.Error,
	})
}

// ProcessQueueResponse summarizes the single job processed
type ProcessQueueResponse struct {
	JobID   string `json:"jobId"`
	UserID  string `json:"userId"`
	Attempt int    `json:"attempt"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// ProcessQueue handles POST /process-queue. It dequeues and processes one
// eligible job synchronously. Internal use only, authenticated by the
// shared-secret header.
func (h *PodcastHandler) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	if h.internalSecret == "" ||
		subtle.ConstantTimeCompare([]byte(r.Header.Get(InternalSecretHeader)), []byte(h.internalSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "Invalid internal secret")
		return
	}

	job, err := h.jobs.TryDequeue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No jobs to process"})
		return
	}

	resp := ProcessQueueResponse{
		JobID:   job.ID,
		UserID:  job.UserID,
		Attempt: job.Attempt,
		Status:  string(model.StateComplete),
	}
	if err := h.processor.Process(r.Context(), job); err != nil {
		resp.Status = string(model.StateFailed)
		resp.Error = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}
