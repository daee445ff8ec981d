package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hakivo/podcastd/internal/model"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	st := model.JobStatus{
		JobID:   "job-1",
		UserID:  "user-1",
		State:   model.StateQueued,
		Attempt: 1,
	}
	if err := s.Put(ctx, st); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.JobID != "job-1" || got.State != model.StateQueued {
		t.Fatalf("got %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be stamped on write")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	if _, err := s.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestMemoryStoreStaleAttempt checks that a late write from an abandoned
// attempt cannot clobber the status of a newer attempt of the same job.
func TestMemoryStoreStaleAttempt(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, model.JobStatus{JobID: "job-1", UserID: "u", Attempt: 2, State: model.StateProcessing}); err != nil {
		t.Fatalf("put attempt 2: %v", err)
	}
	err := s.Put(ctx, model.JobStatus{JobID: "job-1", UserID: "u", Attempt: 1, State: model.StateFailed})
	if !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("err = %v, want ErrStaleAttempt", err)
	}

	got, err := s.Get(ctx, "u")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Attempt != 2 || got.State != model.StateProcessing {
		t.Fatalf("stale write clobbered slot: %+v", got)
	}
}

// TestMemoryStoreNewJobTakesSlot checks that a fresh submission replaces
// the previous job's slot regardless of attempt numbers.
func TestMemoryStoreNewJobTakesSlot(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, model.JobStatus{JobID: "job-1", UserID: "u", Attempt: 3, State: model.StateFailed}); err != nil {
		t.Fatalf("put job-1: %v", err)
	}
	if err := s.Put(ctx, model.JobStatus{JobID: "job-2", UserID: "u", Attempt: 1, State: model.StateQueued}); err != nil {
		t.Fatalf("put job-2: %v", err)
	}

	got, err := s.Get(ctx, "u")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.JobID != "job-2" {
		t.Fatalf("slot holds %s, want job-2", got.JobID)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, model.JobStatus{JobID: "job-1", UserID: "u", Attempt: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := s.Get(ctx, "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after expiry", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, model.JobStatus{JobID: "job-1", UserID: "u", Attempt: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(ctx, "u"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}
