package source

import "errors"

var (
	// ErrHTTPStatus is returned when the remote answers with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrUnexpectedShape is returned when a document has no data.items array.
	ErrUnexpectedShape = errors.New("unexpected catalog document shape")
	// ErrMissingAPIKey is returned by FetchAll when no API key is configured.
	ErrMissingAPIKey = errors.New("catalog api key is not configured")
)
