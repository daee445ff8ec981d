package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hakivo/podcastd/internal/model"
)

// Redis is a Redis-backed job queue. Ready jobs live in a list consumed
// with BRPOP; delayed jobs live in a sorted set scored by their due time
// and are moved onto the list by a background mover loop.
type Redis struct {
	client    *redis.Client
	queue     string
	delaySet  string
	moverTick time.Duration
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewRedis creates a Redis queue and starts its delayed-job mover
func NewRedis(client *redis.Client, name string) *Redis {
	q := &Redis{
		client:    client,
		queue:     name,
		delaySet:  name + ":delayed",
		moverTick: time.Second,
		stop:      make(chan struct{}),
	}
	q.wg.Add(1)
	go q.runMover()
	return q
}

// Enqueue pushes a job onto the ready list
func (q *Redis) Enqueue(ctx context.Context, job model.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// EnqueueDelayed schedules a job to become ready after the given delay
func (q *Redis) EnqueueDelayed(ctx context.Context, job model.Job, delay time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	due := float64(time.Now().Add(delay).UnixMilli())
	if err := q.client.ZAdd(ctx, q.delaySet, &redis.Z{Score: due, Member: payload}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue delayed job: %w", err)
	}
	return nil
}

// Dequeue blocks until a job is available or the context is done.
// BRPOP uses a short timeout so context cancellation is observed
// promptly.
func (q *Redis) Dequeue(ctx context.Context) (*model.Job, error) {
	for {
		vals, err := q.client.BRPop(ctx, time.Second, q.queue).Result()
		if err == redis.Nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				continue
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to dequeue job: %w", err)
		}
		if len(vals) < 2 {
			return nil, fmt.Errorf("unexpected BRPOP response: %v", vals)
		}
		return unmarshalJob(vals[1])
	}
}

// TryDequeue returns the next ready job, or nil when the list is empty
func (q *Redis) TryDequeue(ctx context.Context) (*model.Job, error) {
	val, err := q.client.RPop(ctx, q.queue).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}
	return unmarshalJob(val)
}

// Close stops the delayed-job mover
func (q *Redis) Close() {
	close(q.stop)
	q.wg.Wait()
}

// runMover periodically promotes due members of the delay set onto the
// ready list.
func (q *Redis) runMover() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.moverTick)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			q.moveDue(context.Background())
		}
	}
}

func (q *Redis) moveDue(ctx context.Context) {
	now := fmt.Sprintf("%d", time.Now().UnixMilli())

	members, err := q.client.ZRangeByScore(ctx, q.delaySet, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		slog.Error("Failed to read delayed jobs", "error", err)
		return
	}

	for _, member := range members {
		// ZREM first so only one pod promotes each member
		removed, err := q.client.ZRem(ctx, q.delaySet, member).Result()
		if err != nil {
			slog.Error("Failed to remove delayed job", "error", err)
			continue
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, q.queue, member).Err(); err != nil {
			slog.Error("Failed to promote delayed job", "error", err)
		}
	}
}

func unmarshalJob(payload string) (*model.Job, error) {
	var job model.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	return &job, nil
}
