package queue

import (
	"context"
	"testing"
	"time"

	"github.com/hakivo/podcastd/internal/model"
)

func TestMemoryEnqueueDequeue(t *testing.T) {
	q := NewMemory(4)
	defer q.Close()
	ctx := context.Background()

	job := model.Job{ID: "job-1", UserID: "u", Kind: model.KindDailyBrief, Attempt: 1}
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got.ID != "job-1" || got.Attempt != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryTryDequeueEmpty(t *testing.T) {
	q := NewMemory(4)
	defer q.Close()

	got, err := q.TryDequeue(context.Background())
	if err != nil {
		t.Fatalf("try dequeue: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil on empty queue", got)
	}
}

func TestMemoryEnqueueFull(t *testing.T) {
	q := NewMemory(1)
	defer q.Close()
	ctx := context.Background()

	if err := q.Enqueue(ctx, model.Job{ID: "a"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, model.Job{ID: "b"}); err == nil {
		t.Fatal("expected error on full queue")
	}
}

// TestMemoryEnqueueDelayed checks that a delayed job is invisible before
// its delay elapses and visible after.
func TestMemoryEnqueueDelayed(t *testing.T) {
	q := NewMemory(4)
	defer q.Close()
	ctx := context.Background()

	if err := q.EnqueueDelayed(ctx, model.Job{ID: "later", Attempt: 2}, 20*time.Millisecond); err != nil {
		t.Fatalf("enqueue delayed: %v", err)
	}

	got, err := q.TryDequeue(ctx)
	if err != nil {
		t.Fatalf("try dequeue: %v", err)
	}
	if got != nil {
		t.Fatalf("delayed job visible early: %+v", got)
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	got, err = q.Dequeue(waitCtx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got.ID != "later" || got.Attempt != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryDequeueContextCancel(t *testing.T) {
	q := NewMemory(4)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("expected context error on empty queue")
	}
}

func TestMemoryClosedRejectsEnqueue(t *testing.T) {
	q := NewMemory(4)
	q.Close()

	if err := q.Enqueue(context.Background(), model.Job{ID: "a"}); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if err := q.EnqueueDelayed(context.Background(), model.Job{ID: "a"}, time.Millisecond); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
