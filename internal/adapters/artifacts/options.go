package artifacts

import "net/http"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDir reads artifacts from a local directory.
func WithDir(dir string) Option {
	return func(l *Loader) { l.dir = dir }
}

// WithBaseURL fetches artifacts with GET requests below base.
func WithBaseURL(base string) Option {
	return func(l *Loader) { l.baseURL = base }
}

// WithHTTPClient sets the client used for remote artifacts.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) {
		if hc != nil {
			l.http = hc
		}
	}
}
