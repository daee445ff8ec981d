package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/queue"
)

// ProcessFunc runs one attempt of a job's pipeline
type ProcessFunc func(ctx context.Context, job *model.Job) error

// Pool runs a fixed number of worker goroutines, each consuming jobs from
// the queue one at a time. Pool size is the only cross-job concurrency
// bound; jobs themselves are strictly sequential inside.
type Pool struct {
	workers int
	jobs    queue.Queue
	process ProcessFunc
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a worker pool
func NewPool(workers int, jobs queue.Queue, process ProcessFunc) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    jobs,
		process: process,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	slog.Info("Starting worker pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the pool. Workers finish the job they are on; queued jobs
// stay in the queue for the next start.
func (p *Pool) Stop() {
	slog.Info("Stopping worker pool")

	p.cancel()
	p.wg.Wait()

	slog.Info("Worker pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)

	for {
		job, err := p.jobs.Dequeue(p.ctx)
		if err != nil {
			if p.ctx.Err() != nil {
				slog.Debug("Worker stopped", "worker_id", id)
				return
			}
			slog.Error("Failed to dequeue job", "worker_id", id, "error", err)
			continue
		}

		slog.Debug("Worker picked up job",
			"worker_id", id,
			"job_id", job.ID,
			"attempt", job.Attempt,
		)

		// Process errors are already recorded in the status slot; the
		// pool only keeps consuming.
		if err := p.process(p.ctx, job); err != nil {
			slog.Debug("Job attempt failed",
				"worker_id", id,
				"job_id", job.ID,
				"error", err,
			)
		}
	}
}
