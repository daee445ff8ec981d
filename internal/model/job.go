package model

import (
	"errors"
	"fmt"
	"time"
)

// JobKind identifies the type of podcast a job produces
type JobKind string

const (
	KindDailyBrief  JobKind = "daily-brief"
	KindWeeklyBrief JobKind = "weekly-brief"
	KindNewsAudio   JobKind = "news-audio"
)

// ParseJobKind normalizes HTTP-facing aliases to a JobKind
func ParseJobKind(s string) (JobKind, error) {
	switch s {
	case "daily", "daily-brief":
		return KindDailyBrief, nil
	case "weekly", "weekly-brief":
		return KindWeeklyBrief, nil
	case "news", "news-audio":
		return KindNewsAudio, nil
	}
	return "", fmt.Errorf("invalid job type: %s (must be 'daily', 'weekly', or 'news')", s)
}

// JobParams holds the generation inputs for a job
type JobParams struct {
	BillCount int      `json:"bill_count,omitempty"`
	Topics    []string `json:"topics,omitempty"`
}

const (
	DefaultBillCount = 5
	MaxBillCount     = 20
)

// Job represents one audio-generation request. It is the payload carried
// by the queue, JSON-encoded.
type Job struct {
	ID        string    `json:"job_id"`
	UserID    string    `json:"user_id"`
	Kind      JobKind   `json:"kind"`
	Params    JobParams `json:"params"`
	CreatedAt time.Time `json:"created_at"`
	Attempt   int       `json:"attempt"`
}

// Validate validates a job before submission
func (j *Job) Validate() error {
	if j.ID == "" {
		return errors.New("job ID is required")
	}
	if j.UserID == "" {
		return errors.New("user ID is required")
	}
	switch j.Kind {
	case KindDailyBrief, KindWeeklyBrief, KindNewsAudio:
	default:
		return fmt.Errorf("invalid job kind: %s", j.Kind)
	}
	if j.Params.BillCount < 0 || j.Params.BillCount > MaxBillCount {
		return fmt.Errorf("bill count must be between 1 and %d", MaxBillCount)
	}
	if j.Params.BillCount == 0 {
		j.Params.BillCount = DefaultBillCount
	}
	return nil
}

// JobState is one of the four states a job's status moves through
type JobState string

const (
	StateQueued     JobState = "queued"
	StateProcessing JobState = "processing"
	StateComplete   JobState = "complete"
	StateFailed     JobState = "failed"
)

// Terminal reports whether the state admits no further transitions
// within the current attempt.
func (s JobState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// CanTransitionTo reports whether the state machine allows moving from s
// to next. failed → queued is the retry edge; the caller is responsible
// for checking the retry budget.
func (s JobState) CanTransitionTo(next JobState) bool {
	switch s {
	case StateQueued:
		return next == StateProcessing
	case StateProcessing:
		return next == StateComplete || next == StateFailed
	case StateFailed:
		return next == StateQueued
	}
	return false
}

// Progress checkpoints reported after each pipeline stage
const (
	ProgressQueued      = 0
	ProgressFetched     = 20
	ProgressScripted    = 40
	ProgressSynthesized = 60
	ProgressUploaded    = 80
	ProgressComplete    = 100
)

// MaxAttempts is the retry ceiling for a job
const MaxAttempts = 3

// JobStatus is the mutable projection of a job's progress, keyed by owner.
// It is written only by the worker processing the job (and once by the
// submitter) and read by everyone else.
type JobStatus struct {
	JobID     string    `json:"jobId"`
	UserID    string    `json:"userId"`
	State     JobState  `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Attempt   int       `json:"attempt"`
	AudioURL  string    `json:"audioUrl,omitempty"`
	Duration  int       `json:"duration,omitempty"` // seconds
	SourceIDs []string  `json:"sourceIds,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
