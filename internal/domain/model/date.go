package model

import "time"

// dateLayouts are tried in order when parsing a product date.
var dateLayouts = []string{ //nolint:gochecknoglobals // fixed table
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or timestamp as found in catalog data.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
