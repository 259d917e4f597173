package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultHistory = 8

// MemoryStore keeps the most recent snapshots in memory, dropping the oldest
// once the history bound is reached.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []Snapshot // oldest first
	history   int
	now       func() time.Time
}

// NewMemoryStore creates an in-memory store retaining 8 snapshots by default.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{history: defaultHistory, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.StoredAt.IsZero() {
		snap.StoredAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	if over := len(s.snapshots) - s.history; over > 0 {
		// Copy down so evicted snapshots can be collected.
		s.snapshots = append(s.snapshots[:0:0], s.snapshots[over:]...)
	}
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].ID == id {
			return s.snapshots[i], nil
		}
	}
	return Snapshot{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, n int) ([]Summary, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, min(n, len(s.snapshots)))
	for i := len(s.snapshots) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.snapshots[i].Summary())
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
