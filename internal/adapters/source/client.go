// Package source reads the raw catalog, either by paging the remote search
// API or from a catalog document on disk.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/okian/instock/internal/domain/dedupe"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/pkg/logger"
	"github.com/okian/instock/pkg/metrics"
)

const (
	defaultBaseURL    = "https://svc-3-usf.hotyon.com/search"
	defaultCollection = "432790438108"
	defaultPageSize   = 100
	defaultTimeout    = 30 * time.Second
	acceptLanguage    = "en-US,en;q=0.9"
)

// Client pages through the remote catalog one request at a time.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	collection string
	country    string
	locale     string
	pageSize   int
	pageDelay  time.Duration
	delayEvery int
}

// NewClient creates a Client. An API key must be supplied with WithAPIKey
// before FetchAll can run.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		collection: defaultCollection,
		country:    "US",
		locale:     "en",
		pageSize:   defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a full fetch.
type Result struct {
	// Items are the unique raw products in the order they were received.
	Items []json.RawMessage
	// Declared is the total reported by the first page.
	Declared   int
	Pages      int
	Duplicates int
}

// Document wraps the fetched items as a catalog document.
func (r Result) Document() model.Document { return model.NewDocument(r.Items) }

// FetchAll requests pages sorted newest first until a short page arrives or
// the declared total has been received. Products repeated across pages are
// dropped. Any failed request aborts the fetch; there is no retry.
func (c *Client) FetchAll(ctx context.Context) (Result, error) {
	if c.apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}
	log := logger.Get().Named("source")
	seen := dedupe.NewInMemoryDeduper[int64]()

	var (
		res      Result
		received int
	)
	for skip := 0; ; skip += c.pageSize {
		start := time.Now()
		page, err := c.fetchPage(ctx, skip)
		if err != nil {
			return Result{}, err
		}
		metrics.RecordPageFetched(float64(time.Since(start).Microseconds()) / 1000)
		res.Pages++

		items := page.Data.Items
		if res.Pages == 1 {
			res.Declared = page.Data.Total
			log.Info(ctx, "catalog fetch started",
				logger.String("collection", c.collection),
				logger.Int("declared", res.Declared))
		}
		received += len(items)
		metrics.RecordProductsFetched(len(items))

		for _, item := range items {
			if id, ok := productID(item); ok && seen.SeenAndRecord(ctx, id) {
				res.Duplicates++
				metrics.RecordProductDuplicate()
				continue
			}
			res.Items = append(res.Items, item)
		}
		log.Debug(ctx, "catalog page fetched",
			logger.Int("skip", skip),
			logger.Int("got", len(items)),
			logger.Int("received", received))

		if len(items) < c.pageSize {
			break
		}
		if res.Declared > 0 && received >= res.Declared {
			break
		}
		if c.delayEvery > 0 && res.Pages%c.delayEvery == 0 {
			if err := sleep(ctx, c.pageDelay); err != nil {
				return Result{}, err
			}
		}
	}

	log.Info(ctx, "catalog fetch finished",
		logger.Int("pages", res.Pages),
		logger.Int("items", len(res.Items)),
		logger.Int64("unique", seen.Size()),
		logger.Int("duplicates", res.Duplicates))
	return res, nil
}

func (c *Client) fetchPage(ctx context.Context, skip int) (model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(skip), nil)
	if err != nil {
		return model.Document{}, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Document{}, fmt.Errorf("fetch page skip=%d: %w", skip, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Warn(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Document{}, fmt.Errorf("%w: %d for page skip=%d", ErrHTTPStatus, resp.StatusCode, skip)
	}

	var doc model.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return model.Document{}, fmt.Errorf("decode page skip=%d: %w", skip, err)
	}
	if doc.Data.Items == nil {
		return model.Document{}, fmt.Errorf("%w: page skip=%d", ErrUnexpectedShape, skip)
	}
	return doc, nil
}

func (c *Client) pageURL(skip int) string {
	q := url.Values{}
	q.Set("q", "")
	q.Set("apiKey", c.apiKey)
	q.Set("country", c.country)
	q.Set("locale", c.locale)
	q.Set("getProductDescription", "0")
	q.Set("collection", c.collection)
	q.Set("skip", strconv.Itoa(skip))
	q.Set("take", strconv.Itoa(c.pageSize))
	q.Set("sort", "-date")
	return c.baseURL + "?" + q.Encode()
}

// productID peeks at an item's numeric id without decoding the rest.
func productID(item json.RawMessage) (int64, bool) {
	var probe struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(item, &probe); err != nil || probe.ID == nil {
		return 0, false
	}
	return *probe.ID, true
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (model.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Document{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if doc.Data.Items == nil {
		return model.Document{}, fmt.Errorf("%w: %s has no data.items array", ErrUnexpectedShape, path)
	}
	return doc, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
