// Package repository stores catalog snapshots: the rows and lookup tables
// produced by one build.
package repository

import (
	"context"
	"time"

	"github.com/okian/instock/internal/domain/model"

	"github.com/google/uuid"
)

// Snapshot is one loaded or built catalog.
type Snapshot struct {
	ID       uuid.UUID
	BuiltAt  string
	StoredAt time.Time
	// Source names where the snapshot came from (artifact dir/URL, "build").
	Source string
	Items  []model.Row
	Names  model.NameMap
	Terms  model.SearchTerms
}

// NewSnapshot stamps a new snapshot with a random id.
func NewSnapshot(source, builtAt string, items []model.Row, names model.NameMap, terms model.SearchTerms) Snapshot {
	return Snapshot{
		ID:      uuid.New(),
		BuiltAt: builtAt,
		Source:  source,
		Items:   items,
		Names:   names,
		Terms:   terms,
	}
}

// Store provides read/write access to catalog snapshots.
type Store interface {
	// Save records s as the newest snapshot.
	Save(ctx context.Context, s Snapshot) error
	// Latest returns the newest snapshot or ErrNotFound.
	Latest(ctx context.Context) (Snapshot, error)
	// Get returns the snapshot with the given id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	// List returns up to n snapshot summaries, newest first.
	// Returns ErrInvalidLimit when n <= 0.
	List(ctx context.Context, n int) ([]Summary, error)
	// Count returns the number of retained snapshots.
	Count(ctx context.Context) int
}

// Summary describes a snapshot without its payload.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	BuiltAt  string    `json:"builtAt"`
	StoredAt time.Time `json:"storedAt"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
}

// Summary returns the payload-free description of s.
func (s Snapshot) Summary() Summary {
	return Summary{ID: s.ID, BuiltAt: s.BuiltAt, StoredAt: s.StoredAt, Source: s.Source, Rows: len(s.Items)}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
