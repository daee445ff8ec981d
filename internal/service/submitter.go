package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/queue"
	"github.com/hakivo/podcastd/internal/status"
)

// SubmitRequest carries the inputs for a new generation job
type SubmitRequest struct {
	JobID     string
	UserID    string
	Kind      model.JobKind
	BillCount int
	Topics    []string
}

// Submitter accepts generation requests, enqueues them, and seeds the
// status slot. It performs none of the generation work itself, so callers
// return well under a second.
type Submitter struct {
	jobs     queue.Queue
	statuses status.Store
}

// NewSubmitter creates a submitter
func NewSubmitter(jobs queue.Queue, statuses status.Store) *Submitter {
	return &Submitter{
		jobs:     jobs,
		statuses: statuses,
	}
}

// Submit validates the request, enqueues the job, and writes the initial
// queued status. The status record is written only after a successful
// enqueue, so an enqueue failure leaves nothing dangling.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	job := model.Job{
		ID:        req.JobID,
		UserID:    req.UserID,
		Kind:      req.Kind,
		Params:    model.JobParams{BillCount: req.BillCount, Topics: req.Topics},
		CreatedAt: time.Now().UTC(),
		Attempt:   1,
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	if err := job.Validate(); err != nil {
		return "", NewValidationError(err)
	}

	if err := s.jobs.Enqueue(ctx, job); err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	st := model.JobStatus{
		JobID:    job.ID,
		UserID:   job.UserID,
		State:    model.StateQueued,
		Progress: model.ProgressQueued,
		Message:  "Queued for generation",
		Attempt:  job.Attempt,
	}
	if err := s.statuses.Put(ctx, st); err != nil {
		// The job is already queued; the worker's first status write
		// will repair the slot.
		slog.Error("Failed to write initial job status",
			"job_id", job.ID,
			"user_id", job.UserID,
			"error", err,
		)
	}

	slog.Info("Job submitted",
		"job_id", job.ID,
		"user_id", job.UserID,
		"kind", job.Kind,
	)

	return job.ID, nil
}
