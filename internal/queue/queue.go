package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hakivo/podcastd/internal/model"
)

// ErrClosed is returned when operating on a closed queue
var ErrClosed = errors.New("queue is closed")

// Queue is an at-least-once delivery channel carrying job payloads to
// workers. Delayed enqueue is how failed attempts are rescheduled: the
// retried job re-enters the queue after its backoff delay with the
// attempt count embedded in the payload.
type Queue interface {
	// Enqueue makes the job immediately available to workers
	Enqueue(ctx context.Context, job model.Job) error
	// EnqueueDelayed makes the job available after the given delay
	EnqueueDelayed(ctx context.Context, job model.Job, delay time.Duration) error
	// Dequeue blocks until a job is available or the context is done
	Dequeue(ctx context.Context) (*model.Job, error)
	// TryDequeue returns the next job, or nil when the queue is empty
	TryDequeue(ctx context.Context) (*model.Job, error)
}

// Memory is a channel-backed in-process queue. It backs single-process
// deployments and tests; production uses the Redis queue.
type Memory struct {
	jobs   chan model.Job
	mu     sync.Mutex
	timers []*time.Timer
	closed bool
}

// NewMemory creates an in-memory queue with the given capacity
func NewMemory(capacity int) *Memory {
	return &Memory{
		jobs: make(chan model.Job, capacity),
	}
}

// Enqueue adds a job to the queue without blocking. A full queue is an
// enqueue failure, not a wait.
func (q *Memory) Enqueue(ctx context.Context, job model.Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("queue is full")
	}
}

// EnqueueDelayed schedules the job to enter the queue after delay
func (q *Memory) EnqueueDelayed(ctx context.Context, job model.Job, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}

	timer := time.AfterFunc(delay, func() {
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return
		}
		select {
		case q.jobs <- job:
		default:
			// Full queue drops the retry; the status record already
			// reflects the failed attempt.
		}
	})
	q.timers = append(q.timers, timer)

	return nil
}

// Dequeue blocks until a job is available or the context is done
func (q *Memory) Dequeue(ctx context.Context) (*model.Job, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return nil, ErrClosed
		}
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryDequeue returns the next job, or nil when the queue is empty
func (q *Memory) TryDequeue(ctx context.Context) (*model.Job, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return nil, ErrClosed
		}
		return &job, nil
	default:
		return nil, nil
	}
}

// Close stops pending delayed enqueues. Jobs already in the queue remain
// readable.
func (q *Memory) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for _, t := range q.timers {
		t.Stop()
	}
}
