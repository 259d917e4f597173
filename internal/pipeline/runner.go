// Package pipeline runs one catalog build: acquire the catalog, report stock,
// build variant rows, and export the artifacts the query service reads.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/adapters/repository"
	"github.com/okian/instock/internal/adapters/source"
	"github.com/okian/instock/internal/domain/catalog"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/query"
	"github.com/okian/instock/internal/domain/stock"
	"github.com/okian/instock/internal/domain/talent"
	"github.com/okian/instock/pkg/logger"
	"github.com/okian/instock/pkg/metrics"

	"github.com/google/uuid"
)

// Fetcher pages through the remote catalog.
type Fetcher interface {
	FetchAll(ctx context.Context) (source.Result, error)
}

// PhysicalFilter keeps products that have no digital component.
type PhysicalFilter interface {
	FilterPhysical(ctx context.Context, products []model.Product) ([]model.Product, error)
}

// Runner executes builds. A zero Runner is not usable; create one with New.
type Runner struct {
	fetcher  Fetcher
	physical PhysicalFilter
	store    repository.Store
	builder  *catalog.Builder
	now      func() time.Time
	log      logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithFetcher sets the remote catalog source.
func WithFetcher(f Fetcher) Option {
	return func(r *Runner) { r.fetcher = f }
}

// WithPhysicalFilter sets the filter used by Config.PhysicalOnly.
func WithPhysicalFilter(f PhysicalFilter) Option {
	return func(r *Runner) { r.physical = f }
}

// WithStore persists every completed build as a snapshot.
func WithStore(s repository.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithBuilder overrides the row builder.
func WithBuilder(b *catalog.Builder) Option {
	return func(r *Runner) {
		if b != nil {
			r.builder = b
		}
	}
}

// WithClock overrides the time source for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		builder: catalog.NewBuilder(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.Named("pipeline")
	return r
}

// Run executes the complete build described by cfg.
func (r *Runner) Run(ctx context.Context, cfg *Config) (*Stats, error) {
	runID := uuid.New()
	log := r.log.With(logger.String("run", runID.String()))
	stats := &Stats{StartTime: r.now()}

	log.Info(ctx, "starting catalog build",
		logger.String("fromFile", cfg.FromFile),
		logger.Bool("reportOnly", cfg.ReportOnly),
		logger.Bool("physicalOnly", cfg.PhysicalOnly),
		logger.String("outputJson", cfg.OutputJSON))

	// Step 1: Acquire the catalog
	raw, base, err := r.acquire(ctx, cfg, stats)
	if err != nil {
		return stats, err
	}

	// Step 2: Decode products, keeping their raw form for re-export
	products, items := decode(ctx, log, raw, stats)

	// Step 3: Stock report and split files
	report := stock.Analyze(products)
	stats.InStock = len(report.InStock)
	stats.OutOfStock = len(report.OutOfStock)
	log.Info(ctx, "stock report",
		logger.Int("inStock", stats.InStock),
		logger.Int("outOfStock", stats.OutOfStock),
		logger.Int("total", report.Total()))
	if cfg.ReportOnly {
		return r.finish(ctx, log, stats), nil
	}

	inPath := base
	if !export.IsSplitPath(base) {
		var outPath string
		inPath, outPath = export.SplitPaths(base)
		if err := r.writeSplit(inPath, pick(items, report.InStockIdx), stats); err != nil {
			return stats, err
		}
		if err := r.writeSplit(outPath, pick(items, report.OutOfStockIdx), stats); err != nil {
			return stats, err
		}
	}

	// Step 4: Narrow to paid, optionally physical, products
	selected := catalog.FilterPaid(report.InStock)
	stats.Unpaid = len(report.InStock) - len(selected)
	if stats.Unpaid > 0 {
		log.Info(ctx, "filtered out unpriced products", logger.Int("removed", stats.Unpaid), logger.Int("remaining", len(selected)))
	}
	if cfg.PhysicalOnly && r.physical != nil {
		before := len(selected)
		if selected, err = r.physical.FilterPhysical(ctx, selected); err != nil {
			return stats, fmt.Errorf("physical-only filter: %w", err)
		}
		stats.NotPhysical = before - len(selected)
	}

	// Step 5: Build rows and tables
	rows := r.builder.BuildAll(selected)
	stats.Rows = len(rows)
	stats.Talents = len(query.Talents(rows))
	metrics.RecordRowsBuilt(len(rows))
	log.Info(ctx, "rows built", logger.Int("rows", len(rows)), logger.Int("products", len(selected)))

	md, html, err := export.WriteTables(inPath, rows)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	stats.FilesWritten = append(stats.FilesWritten, md, html)

	// Step 6: Service artifacts
	builtAt := cfg.BuiltAt
	if builtAt == "" {
		builtAt = export.BuildTimestamp(r.now())
	}
	names := r.builder.Talents().NameMap()
	terms := talent.BuildSearchTerms(names, rowTalents(rows))
	if cfg.OutputJSON != "" {
		if err := r.writeArtifacts(cfg.OutputJSON, rows, builtAt, names, terms, stats); err != nil {
			return stats, err
		}
	}

	// Step 7: Snapshot
	if r.store != nil {
		snap := repository.NewSnapshot("build:"+runID.String(), builtAt, rows, names, terms)
		snap.StoredAt = r.now().UTC()
		if err := r.store.Save(ctx, snap); err != nil {
			log.Warn(ctx, "failed to store snapshot", logger.Error(err))
		} else {
			stats.SnapshotStored = true
			log.Info(ctx, "snapshot stored", logger.String("snapshot", snap.ID.String()))
		}
	}

	return r.finish(ctx, log, stats), nil
}

// acquire loads or fetches the raw catalog items and returns the path the
// split files are derived from.
func (r *Runner) acquire(ctx context.Context, cfg *Config, stats *Stats) ([]json.RawMessage, string, error) {
	if cfg.FromFile != "" {
		r.log.Info(ctx, "loading catalog from file", logger.String("path", cfg.FromFile))
		doc, err := source.LoadFile(cfg.FromFile)
		if err != nil {
			return nil, "", fmt.Errorf("load catalog: %w", err)
		}
		stats.Fetched = len(doc.Data.Items)
		return doc.Data.Items, cfg.FromFile, nil
	}
	if r.fetcher == nil {
		return nil, "", ErrNoCatalogSource
	}

	res, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch catalog: %w", err)
	}
	stats.Fetched = len(res.Items)
	stats.Pages = res.Pages
	stats.Duplicates = res.Duplicates

	if !cfg.ReportOnly && cfg.CatalogPath != "" {
		if err := export.WriteDocument(cfg.CatalogPath, res.Document()); err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrWrite, err)
		}
		stats.FilesWritten = append(stats.FilesWritten, cfg.CatalogPath)
	}
	base := cfg.CatalogPath
	if base == "" {
		base = DefaultCatalogPath
	}
	return res.Items, base, nil
}

// writeSplit writes a split document; empty splits are skipped.
func (r *Runner) writeSplit(path string, items []json.RawMessage, stats *Stats) error {
	if len(items) == 0 || path == "" {
		return nil
	}
	if err := export.WriteDocument(path, model.NewDocument(items)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	stats.FilesWritten = append(stats.FilesWritten, path)
	return nil
}

func (r *Runner) writeArtifacts(
	itemsPath string, rows []model.Row, builtAt string,
	names model.NameMap, terms model.SearchTerms, stats *Stats,
) error {
	dir := filepath.Dir(itemsPath)
	if err := export.WriteItems(itemsPath, rows, builtAt); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := export.WriteNameMap(dir, names); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := export.WriteSearchTerms(dir, terms); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	stats.FilesWritten = append(stats.FilesWritten,
		itemsPath,
		filepath.Join(dir, export.NameMapFile),
		filepath.Join(dir, export.SearchTermsFile))
	return nil
}

func (r *Runner) finish(ctx context.Context, log logger.Logger, stats *Stats) *Stats {
	stats.EndTime = r.now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	metrics.RecordBuildDuration(stats.Duration.Seconds())
	displayFinalStats(ctx, log, stats)
	return stats
}

// decode keeps well-formed products and the raw item each came from, in
// input order.
func decode(ctx context.Context, log logger.Logger, raw []json.RawMessage, stats *Stats) ([]model.Product, []json.RawMessage) {
	products := make([]model.Product, 0, len(raw))
	items := make([]json.RawMessage, 0, len(raw))
	for i, item := range raw {
		p, err := model.DecodeProduct(item)
		if err != nil {
			stats.Malformed++
			metrics.RecordProductMalformed()
			log.Warn(ctx, "skipping malformed product", logger.Int("index", i), logger.Error(err))
			continue
		}
		products = append(products, p)
		items = append(items, item)
	}
	return products, items
}

func pick(items []json.RawMessage, idx []int) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

func rowTalents(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Talent)
	}
	return out
}

// displayFinalStats logs the final build statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("fetched", stats.Fetched),
		logger.Int("pages", stats.Pages),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("malformed", stats.Malformed),
		logger.Int("inStock", stats.InStock),
		logger.Int("outOfStock", stats.OutOfStock),
		logger.Int("unpaid", stats.Unpaid),
		logger.Int("notPhysical", stats.NotPhysical),
		logger.Int("rows", stats.Rows),
		logger.Int("talents", stats.Talents),
		logger.Any("files", stats.FilesWritten),
		logger.Bool("snapshotStored", stats.SnapshotStored),
		logger.Duration("duration", stats.Duration))
}
