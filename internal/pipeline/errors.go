package pipeline

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoCatalogSource = errors.New("no catalog source: set a fetcher or a file to load")
	ErrWrite           = errors.New("write artifact failed")
)
