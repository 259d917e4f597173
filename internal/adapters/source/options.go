package source

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the search endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithAPIKey sets the API key sent with every page request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithCollection sets the collection id to page through.
func WithCollection(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.collection = id
		}
	}
}

// WithPageSize sets the take= page size.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPageDelay sleeps d after every `every` pages. every <= 0 disables it.
func WithPageDelay(d time.Duration, every int) Option {
	return func(c *Client) {
		c.pageDelay = d
		c.delayEvery = every
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMarket sets the country and locale query parameters.
func WithMarket(country, locale string) Option {
	return func(c *Client) {
		if country != "" {
			c.country = country
		}
		if locale != "" {
			c.locale = locale
		}
	}
}
