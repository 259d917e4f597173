// Package dedupe tracks keys already taken so repeated catalog items can be
// dropped while paging a list that shifts underneath the reader.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys.
type Deduper[K comparable] interface {
	// SeenAndRecord atomically checks whether key was seen and records it if
	// not. It returns true when key was already recorded.
	SeenAndRecord(ctx context.Context, key K) bool

	Size() int64
}

// inMemoryDeduper keeps every key for the lifetime of one fetch.
type inMemoryDeduper[K comparable] struct {
	mu   sync.Mutex
	seen map[K]struct{}
}

// NewInMemoryDeduper creates an empty in-memory deduper.
func NewInMemoryDeduper[K comparable]() Deduper[K] {
	return &inMemoryDeduper[K]{seen: make(map[K]struct{})}
}

func (d *inMemoryDeduper[K]) SeenAndRecord(_ context.Context, key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper[K]) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
