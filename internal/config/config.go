// Package config defines process configuration shared by the build CLI and
// the query service.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - All future functions must accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is where the build writes artifacts and the service reads them.
	DataDir string `koanf:"data_dir"`

	// ArtifactsURL, when set, makes the service fetch artifacts over HTTP
	// instead of reading DataDir.
	ArtifactsURL string `koanf:"artifacts_url"`

	// APIURL is the remote catalog search endpoint.
	APIURL string `koanf:"api_url"`

	// APIKey authenticates against the remote catalog API.
	APIKey string `koanf:"api_key"`

	// Collection is the remote collection id to page through.
	Collection string `koanf:"collection"`

	// PageSize is the take= parameter per catalog page.
	PageSize int `koanf:"page_size"`

	// PageDelayMS is slept every DelayEvery pages.
	PageDelayMS int `koanf:"page_delay_ms"`
	DelayEvery  int `koanf:"delay_every"`

	// HTTPTimeoutMS bounds each outbound request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// ProductBaseURL prefixes a product's urlName to form its link.
	ProductBaseURL string `koanf:"product_base_url"`

	// InfoURL is the per-variant info endpoint used by physical-only probing.
	InfoURL string `koanf:"info_url"`

	// DatabaseURL enables the Postgres snapshot store when non-empty.
	DatabaseURL string `koanf:"database_url"`

	// ReloadDebounceMS coalesces bursts of reload requests.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// SnapshotHistory bounds the in-memory snapshot store.
	SnapshotHistory int `koanf:"snapshot_history"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DataDir:          "data",
		APIURL:           "https://svc-3-usf.hotyon.com/search",
		Collection:       "432790438108",
		PageSize:         100,
		PageDelayMS:      250,
		DelayEvery:       10,
		HTTPTimeoutMS:    30_000,
		ProductBaseURL:   "https://shop.hololivepro.com/en/products/",
		InfoURL:          "https://d2z3u0bdyw6j8v.cloudfront.net/info",
		ReloadDebounceMS: 500,
		SnapshotHistory:  8,
	}
}

// PageDelay returns PageDelayMS as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// ReloadDebounce returns ReloadDebounceMS as a duration.
func (c *Config) ReloadDebounce() time.Duration {
	return time.Duration(c.ReloadDebounceMS) * time.Millisecond
}
