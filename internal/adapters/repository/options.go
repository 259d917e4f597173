package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithHistory bounds how many snapshots the MemoryStore retains.
func WithHistory(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.history = n
		}
	}
}

// WithClock overrides the time source used to stamp saved snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
