// Package service owns the query service's application state: the catalog
// snapshot currently being served and the reload lifecycle around it.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/instock/internal/adapters/artifacts"
	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/adapters/repository"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/query"
	"github.com/okian/instock/pkg/logger"
	"github.com/okian/instock/pkg/metrics"

	"github.com/google/uuid"
)

const defaultDebounce = 500 * time.Millisecond

// catalog is one immutable view of the served data. It is replaced whole on
// reload and never modified in place.
type catalog struct {
	snapshot  repository.Snapshot
	talents   []string
	degraded  []string
	loadedAt  time.Time
	artifacts map[string][]byte
	// restored is set when the catalog came from the store instead of the
	// artifacts.
	restored bool
}

// Result is the answer to a Query.
type Result struct {
	Items   []model.Row
	Total   int
	BuiltAt string
	Query   query.Query
}

// Service serves the current catalog and reloads it on request.
type Service struct {
	mu      sync.RWMutex
	current *catalog

	// reloadMu serialises reloads so snapshots are swapped in load order.
	reloadMu sync.Mutex

	loader    *artifacts.Loader
	store     repository.Store
	debounce  time.Duration
	debouncer *Debouncer
	now       func() time.Time

	started  bool
	lifetime context.Context //nolint:containedctx // cancels debounced reloads on Stop
	cancel   context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Without WithLoader it reads the "data" directory;
// without WithStore it keeps snapshots in memory.
func New(opts ...Option) *Service {
	s := &Service{
		loader:   artifacts.NewLoader(artifacts.WithDir("data")),
		debounce: defaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.debouncer = NewDebouncer(s.debounce)
	return s
}

// Start performs the initial load. When the primary artifact cannot be read
// the newest stored snapshot is served instead; with no snapshot the load
// error is returned and the service stays stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "starting catalog service...", logger.String("source", s.loader.Source()))

	if err := s.Reload(ctx); err != nil {
		if rerr := s.restoreLatest(ctx); rerr != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifetime, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.logger.Info(ctx, "catalog service started")
	return nil
}

// Stop cancels any pending reload.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.debouncer.Cancel()
	s.cancel()
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

// Reload loads the artifacts, saves them as a snapshot, and swaps them in.
// On error the previous catalog keeps being served.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	log := s.logger
	start := time.Now()

	bundle, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordReload("error")
		log.Error(ctx, "catalog reload failed", logger.Error(err))
		return fmt.Errorf("reload catalog: %w", err)
	}
	bundle = artifacts.Apply(bundle)

	snap := repository.NewSnapshot(s.loader.Source(), bundle.BuiltAt, bundle.Items, bundle.Names, bundle.Terms)
	snap.StoredAt = s.now().UTC()
	if err := s.store.Save(ctx, snap); err != nil {
		// The catalog is still served; only its history entry is lost.
		log.Warn(ctx, "failed to save snapshot", logger.Error(err))
	}

	next, err := newCatalog(snap, bundle.Degraded, s.now())
	if err != nil {
		metrics.RecordReload("error")
		return fmt.Errorf("reload catalog: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	metrics.RecordReload("ok")
	metrics.UpdateCatalogSize(len(snap.Items), len(next.talents))
	if t, ok := model.ParseDate(snap.BuiltAt); ok {
		metrics.UpdateCatalogBuiltAt(t.Unix())
	}
	log.Info(ctx, "catalog loaded",
		logger.String("snapshot", snap.ID.String()),
		logger.Int("rows", len(snap.Items)),
		logger.Int("talents", len(next.talents)),
		logger.String("builtAt", snap.BuiltAt),
		logger.Any("degraded", bundle.Degraded),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// restoreLatest serves the newest snapshot in the store.
func (s *Service) restoreLatest(ctx context.Context) error {
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return err
	}
	next, err := newCatalog(snap, nil, s.now())
	if err != nil {
		return err
	}
	next.restored = true

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	metrics.UpdateCatalogSize(len(snap.Items), len(next.talents))
	s.logger.Warn(ctx, "artifacts unavailable, serving stored snapshot",
		logger.String("snapshot", snap.ID.String()),
		logger.String("builtAt", snap.BuiltAt),
		logger.Int("rows", len(snap.Items)))
	return nil
}

// ScheduleReload requests a reload after the debounce period. Requests
// arriving while one is pending replace it.
func (s *Service) ScheduleReload(ctx context.Context) {
	s.mu.RLock()
	base := s.lifetime
	s.mu.RUnlock()
	if base == nil {
		base = context.WithoutCancel(ctx)
	}

	if s.debouncer.Trigger(func() {
		if base.Err() != nil {
			return
		}
		_ = s.Reload(base)
	}) {
		metrics.RecordReloadCoalesced()
		s.logger.Debug(ctx, "pending reload replaced")
	}
}

// Query evaluates q against the current catalog.
func (s *Service) Query(ctx context.Context, q query.Query) (Result, error) {
	c := s.view()
	if c == nil {
		return Result{}, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	items := query.Evaluate(c.snapshot.Items, q, c.snapshot.Terms)
	metrics.RecordQuery(float64(time.Since(start).Microseconds())/1000, len(items))

	return Result{
		Items:   items,
		Total:   len(c.snapshot.Items),
		BuiltAt: c.snapshot.BuiltAt,
		Query:   q,
	}, nil
}

// Talents returns the sorted distinct talents of the current catalog.
func (s *Service) Talents(_ context.Context) ([]string, error) {
	c := s.view()
	if c == nil {
		return nil, ErrNotLoaded
	}
	return append([]string(nil), c.talents...), nil
}

// Terms returns the search terms of the current catalog.
func (s *Service) Terms(_ context.Context) (model.SearchTerms, error) {
	c := s.view()
	if c == nil {
		return nil, ErrNotLoaded
	}
	return c.snapshot.Terms, nil
}

// Artifact returns the encoded artifact file with the given name, as served
// from /data.
func (s *Service) Artifact(_ context.Context, name string) ([]byte, error) {
	switch name {
	case export.ItemsFile, export.NameMapFile, export.SearchTermsFile:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}
	c := s.view()
	if c == nil {
		return nil, ErrNotLoaded
	}
	b, ok := c.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
	return b, nil
}

// Snapshots lists up to n stored snapshots, newest first.
func (s *Service) Snapshots(ctx context.Context, n int) ([]repository.Summary, error) {
	return s.store.List(ctx, n)
}

// Snapshot describes one stored snapshot.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (repository.Summary, error) {
	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return repository.Summary{}, err
	}
	return snap.Summary(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	c := s.current
	s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	stats := map[string]interface{}{
		"started":       started,
		"source":        s.loader.Source(),
		"reloadPending": s.debouncer.Pending(),
		"snapshots":     s.store.Count(context.Background()),
		"goroutines":    goroutines,
	}
	if c != nil {
		stats["snapshot"] = c.snapshot.ID.String()
		stats["rows"] = len(c.snapshot.Items)
		stats["talents"] = len(c.talents)
		stats["builtAt"] = c.snapshot.BuiltAt
		stats["loadedAt"] = c.loadedAt.UTC().Format(time.RFC3339)
		stats["degraded"] = c.degraded
		stats["restored"] = c.restored
	}
	return stats
}

func (s *Service) view() *catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// newCatalog pre-encodes the artifacts so /data serves bytes without
// re-encoding per request.
func newCatalog(snap repository.Snapshot, degraded []string, loadedAt time.Time) (*catalog, error) {
	c := &catalog{
		snapshot:  snap,
		talents:   query.Talents(snap.Items),
		degraded:  append([]string{}, degraded...),
		loadedAt:  loadedAt,
		artifacts: make(map[string][]byte, 3),
	}

	encode := func(name string, v any) error {
		b, err := export.Encode(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		c.artifacts[name] = b
		return nil
	}
	if err := encode(export.ItemsFile, model.Export{Items: snap.Items, BuiltAt: snap.BuiltAt}); err != nil {
		return nil, err
	}
	if snap.Names != nil {
		if err := encode(export.NameMapFile, snap.Names); err != nil {
			return nil, err
		}
	}
	if snap.Terms != nil {
		if err := encode(export.SearchTermsFile, snap.Terms); err != nil {
			return nil, err
		}
	}
	return c, nil
}
