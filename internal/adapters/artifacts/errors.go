package artifacts

import "errors"

var (
	// ErrPrimaryArtifact wraps any failure to load items.json.
	ErrPrimaryArtifact = errors.New("primary artifact unavailable")
	// ErrNoSource is returned when neither a directory nor a base URL is set.
	ErrNoSource = errors.New("no artifact source configured")
)
