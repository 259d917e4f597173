package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_snapshots (
	id           uuid PRIMARY KEY,
	built_at     text NOT NULL,
	stored_at    timestamptz NOT NULL DEFAULT now(),
	source       text NOT NULL DEFAULT '',
	row_count    integer NOT NULL,
	items        jsonb NOT NULL,
	name_map     jsonb,
	search_terms jsonb
);
CREATE INDEX IF NOT EXISTS catalog_snapshots_stored_at_idx ON catalog_snapshots (stored_at DESC);
`

const selectSnapshot = `
SELECT id::text, built_at, stored_at, source, items, name_map, search_terms
FROM catalog_snapshots`

// PostgresStore persists snapshots in PostgreSQL. Rows and lookup tables are
// stored as jsonb.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping snapshot database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.StoredAt.IsZero() {
		snap.StoredAt = time.Now().UTC()
	}
	items, err := json.Marshal(snap.Items)
	if err != nil {
		return fmt.Errorf("encode snapshot items: %w", err)
	}
	names, err := nullableJSON(snap.Names)
	if err != nil {
		return fmt.Errorf("encode snapshot name map: %w", err)
	}
	terms, err := nullableJSON(snap.Terms)
	if err != nil {
		return fmt.Errorf("encode snapshot search terms: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO catalog_snapshots (id, built_at, stored_at, source, row_count, items, name_map, search_terms)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)`,
		snap.ID.String(), snap.BuiltAt, snap.StoredAt, snap.Source, len(snap.Items), items, names, terms)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, selectSnapshot+` ORDER BY stored_at DESC LIMIT 1`)
	return scanSnapshot(row)
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, selectSnapshot+` WHERE id = $1::uuid`, id.String())
	return scanSnapshot(row)
}

func (s *PostgresStore) List(ctx context.Context, n int) ([]Summary, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx, `
SELECT id::text, built_at, stored_at, source, row_count
FROM catalog_snapshots ORDER BY stored_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, n)
	for rows.Next() {
		var (
			sum Summary
			id  string
		)
		if err := rows.Scan(&id, &sum.BuiltAt, &sum.StoredAt, &sum.Source, &sum.Rows); err != nil {
			return nil, fmt.Errorf("scan snapshot summary: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse snapshot id: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Count returns 0 when the database cannot be queried.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM catalog_snapshots`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snap                Snapshot
		id                  string
		items, names, terms []byte
	)
	if err := row.Scan(&id, &snap.BuiltAt, &snap.StoredAt, &snap.Source, &items, &names, &terms); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	var err error
	if snap.ID, err = uuid.Parse(id); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot id: %w", err)
	}
	if err := json.Unmarshal(items, &snap.Items); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot items: %w", err)
	}
	if len(names) > 0 {
		if err := json.Unmarshal(names, &snap.Names); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot name map: %w", err)
		}
	}
	if len(terms) > 0 {
		if err := json.Unmarshal(terms, &snap.Terms); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot search terms: %w", err)
		}
	}
	return snap, nil
}

// nullableJSON encodes v, mapping nil maps to SQL NULL.
func nullableJSON[M ~map[K]V, K comparable, V any](v M) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
