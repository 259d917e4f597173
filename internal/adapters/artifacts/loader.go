// Package artifacts loads the build outputs the query service serves, from a
// directory or over HTTP.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/talent"
	"github.com/okian/instock/pkg/logger"
	"github.com/okian/instock/pkg/metrics"
)

const (
	defaultTimeout = 30 * time.Second
	maxArtifactLen = 64 << 20
)

// Bundle is one consistent set of artifacts.
type Bundle struct {
	Items   []model.Row
	BuiltAt string
	// Names and Terms are nil when their artifact could not be loaded.
	Names model.NameMap
	Terms model.SearchTerms
	// Degraded lists the auxiliary artifacts that failed to load.
	Degraded []string
}

// Loader reads artifacts from a directory or a base URL.
type Loader struct {
	dir     string
	baseURL string
	http    *http.Client
}

// NewLoader creates a Loader. A base URL, when set, takes precedence over
// the directory.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source describes where artifacts are read from.
func (l *Loader) Source() string {
	if l.baseURL != "" {
		return l.baseURL
	}
	return l.dir
}

// Load reads all three artifacts. Failing to read items.json is fatal;
// failing to read a lookup table only degrades the bundle.
func (l *Loader) Load(ctx context.Context) (Bundle, error) {
	if l.baseURL == "" && l.dir == "" {
		return Bundle{}, ErrNoSource
	}
	log := logger.Get().Named("artifacts")

	var primary model.Export
	if err := l.read(ctx, export.ItemsFile, &primary); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrPrimaryArtifact, err)
	}
	b := Bundle{Items: primary.Items, BuiltAt: primary.BuiltAt}
	if b.Items == nil {
		b.Items = []model.Row{}
	}

	var names model.NameMap
	if err := l.read(ctx, export.NameMapFile, &names); err != nil {
		b.degrade(ctx, log, export.NameMapFile, err)
	} else {
		b.Names = names
	}

	var terms model.SearchTerms
	if err := l.read(ctx, export.SearchTermsFile, &terms); err != nil {
		b.degrade(ctx, log, export.SearchTermsFile, err)
	} else {
		b.Terms = terms
	}
	return b, nil
}

func (b *Bundle) degrade(ctx context.Context, log logger.Logger, name string, err error) {
	b.Degraded = append(b.Degraded, name)
	metrics.RecordArtifactDegraded(name)
	log.Warn(ctx, "auxiliary artifact unavailable", logger.String("artifact", name), logger.Error(err))
}

func (l *Loader) read(ctx context.Context, name string, v any) error {
	var (
		raw []byte
		err error
	)
	if l.baseURL != "" {
		raw, err = l.fetch(ctx, name)
	} else {
		raw, err = os.ReadFile(filepath.Join(l.dir, name))
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.JoinPath(l.baseURL, name)
	if err != nil {
		return nil, fmt.Errorf("artifact url %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", name, err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Warn(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %s", name, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactLen))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return body, nil
}

// Apply normalises row talents through the loaded name table and fills in
// search terms when that artifact was missing, so every displayed talent is
// matchable by its own name. The input rows are not modified.
func Apply(b Bundle) Bundle {
	out := b
	out.Items = make([]model.Row, len(b.Items))
	copy(out.Items, b.Items)

	seen := make([]string, 0, len(out.Items))
	for i := range out.Items {
		r := &out.Items[i]
		if en, ok := b.Names[r.Talent]; ok && r.Talent != "" {
			r.Talent = en
		}
		seen = append(seen, r.Talent)
	}
	if out.Terms == nil {
		out.Terms = talent.BuildSearchTerms(b.Names, seen)
	}
	return out
}

// IsPrimary reports whether err came from the primary artifact.
func IsPrimary(err error) bool { return errors.Is(err, ErrPrimaryArtifact) }
