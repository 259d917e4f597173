package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/stock"
	"github.com/okian/instock/pkg/logger"
	"github.com/okian/instock/pkg/metrics"
)

const (
	defaultInfoURL    = "https://d2z3u0bdyw6j8v.cloudfront.net/info"
	defaultProbeEvery = 25
	defaultProbeDelay = 100 * time.Millisecond
)

// Probe outcomes recorded in metrics.
const (
	ProbePhysical = "physical"
	ProbeDigital  = "digital"
	ProbeError    = "error"
	ProbeSkipped  = "skipped"
)

// InfoProbe asks the per-variant info endpoint whether a variant ships
// downloadable files. An empty file list means the product is physical.
type InfoProbe struct {
	http       *http.Client
	baseURL    string
	delayEvery int
	delay      time.Duration
}

// NewInfoProbe creates a probe. Empty baseURL selects the storefront's
// endpoint; a nil client gets a 30s timeout.
func NewInfoProbe(baseURL string, hc *http.Client) *InfoProbe {
	if baseURL == "" {
		baseURL = defaultInfoURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &InfoProbe{http: hc, baseURL: baseURL, delayEvery: defaultProbeEvery, delay: defaultProbeDelay}
}

// WithDelay returns a copy of p that sleeps d after every `every` probes.
func (p *InfoProbe) WithDelay(d time.Duration, every int) *InfoProbe {
	cp := *p
	cp.delay = d
	cp.delayEvery = every
	return &cp
}

// PhysicalOnly reports whether the variant has no downloadable files.
func (p *InfoProbe) PhysicalOnly(ctx context.Context, productID, variantID int64) (bool, error) {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	q.Set("variantId", strconv.FormatInt(variantID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("build info request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch info %d/%d: %w", productID, variantID, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Warn(ctx, "failed to close response body", logger.Error(err))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: %d for info %d/%d", ErrHTTPStatus, resp.StatusCode, productID, variantID)
	}

	var files []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return false, fmt.Errorf("decode info %d/%d: %w", productID, variantID, err)
	}
	return files != nil && len(files) == 0, nil
}

// FilterPhysical keeps products whose first orderable variant is physical.
// Probes run sequentially; a failed probe counts as not physical. Only
// context cancellation aborts the run.
func (p *InfoProbe) FilterPhysical(ctx context.Context, products []model.Product) ([]model.Product, error) {
	log := logger.Get().Named("info-probe")
	out := make([]model.Product, 0, len(products))
	for i, prod := range products {
		if i > 0 && p.delayEvery > 0 && i%p.delayEvery == 0 {
			if err := sleep(ctx, p.delay); err != nil {
				return nil, err
			}
		}
		variantID, ok := firstOrderableVariant(prod)
		if prod.ID == 0 || !ok {
			metrics.RecordInfoProbe(ProbeSkipped)
			continue
		}
		physical, err := p.PhysicalOnly(ctx, prod.ID, variantID)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			metrics.RecordInfoProbe(ProbeError)
			log.Warn(ctx, "info probe failed", logger.Int64("productId", prod.ID), logger.Error(err))
		case physical:
			metrics.RecordInfoProbe(ProbePhysical)
			out = append(out, prod)
		default:
			metrics.RecordInfoProbe(ProbeDigital)
		}
	}
	log.Info(ctx, "physical-only filter finished",
		logger.Int("probed", len(products)),
		logger.Int("physical", len(out)))
	return out, nil
}

func firstOrderableVariant(p model.Product) (int64, bool) {
	for _, v := range p.Variants {
		if stock.IsOrderable(v.Available) {
			return v.ID, true
		}
	}
	return 0, false
}
