package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hakivo/podcastd/internal/model"
)

// RedisStore is a Redis-backed status store. Each owner's slot is a JSON
// value under a single key with the retention window as its TTL, so
// abandoned records age out on their own.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisStore creates a Redis status store
func NewRedisStore(client *redis.Client, prefix string, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    prefix,
		retention: retention,
	}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + ":status:" + userID
}

// Put overwrites the owner's status slot, enforcing the attempt token
func (s *RedisStore) Put(ctx context.Context, st model.JobStatus) error {
	key := s.key(st.UserID)

	// Read-check-write; the single-writer-per-job assumption makes a
	// transaction unnecessary here.
	cur, err := s.Get(ctx, st.UserID)
	if err != nil && err != ErrNotFound {
		return err
	}
	if cur != nil && cur.JobID == st.JobID && st.Attempt < cur.Attempt {
		return ErrStaleAttempt
	}

	st.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal job status: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, s.retention).Err(); err != nil {
		return fmt.Errorf("failed to write job status: %w", err)
	}
	return nil
}

// Get returns the owner's current status or ErrNotFound
func (s *RedisStore) Get(ctx context.Context, userID string) (*model.JobStatus, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job status: %w", err)
	}

	var st model.JobStatus
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job status: %w", err)
	}
	return &st, nil
}

// Delete removes the owner's status slot
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete job status: %w", err)
	}
	return nil
}
