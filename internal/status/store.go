package status

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hakivo/podcastd/internal/model"
)

var (
	// ErrNotFound is returned when no status exists for the owner
	ErrNotFound = errors.New("job status not found")
	// ErrStaleAttempt is returned when a write carries a lower attempt
	// number than the stored record. A late update from an abandoned
	// attempt must not clobber a newer one.
	ErrStaleAttempt = errors.New("stale attempt")
)

// Store holds the current job status per owner. Exactly one in-flight
// slot exists per owner; a new submission overwrites the previous slot.
type Store interface {
	// Put overwrites the owner's status slot. Writes from an older
	// attempt than the stored one fail with ErrStaleAttempt.
	Put(ctx context.Context, st model.JobStatus) error
	// Get returns the owner's current status or ErrNotFound
	Get(ctx context.Context, userID string) (*model.JobStatus, error)
	// Delete removes the owner's status slot
	Delete(ctx context.Context, userID string) error
}

type entry struct {
	status    model.JobStatus
	expiresAt time.Time
}

// MemoryStore is an in-memory status store with a janitor that sweeps
// expired entries. It serves tests and single-process deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	retention time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryStore creates a memory store whose entries expire after
// retention.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:   make(map[string]entry),
		retention: retention,
		stop:      make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put overwrites the owner's status slot, enforcing the attempt token
func (s *MemoryStore) Put(_ context.Context, st model.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[st.UserID]; ok && time.Now().Before(cur.expiresAt) {
		// A fresh job for the same owner legitimately takes the slot;
		// only a stale write for the same job is rejected.
		if cur.status.JobID == st.JobID && st.Attempt < cur.status.Attempt {
			return ErrStaleAttempt
		}
	}

	st.UpdatedAt = time.Now().UTC()
	s.entries[st.UserID] = entry{
		status:    st,
		expiresAt: time.Now().Add(s.retention),
	}
	return nil
}

// Get returns the owner's current status or ErrNotFound
func (s *MemoryStore) Get(_ context.Context, userID string) (*model.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.entries[userID]
	if !ok || time.Now().After(cur.expiresAt) {
		return nil, ErrNotFound
	}
	st := cur.status
	return &st, nil
}

// Delete removes the owner's status slot
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// Close stops the janitor
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for userID, cur := range s.entries {
				if now.After(cur.expiresAt) {
					delete(s.entries, userID)
				}
			}
			s.mu.Unlock()
		}
	}
}
