package pipeline

import "time"

// DefaultCatalogPath is where a fetched catalog is written, and the base of
// the split files when no catalog path is set.
const DefaultCatalogPath = "data/catalog.json"

// Config holds the options of one build run.
type Config struct {
	FromFile     string // load the catalog from this file instead of fetching it
	CatalogPath  string // where a fetched catalog is written
	ReportOnly   bool   // stop after the stock report and write nothing
	PhysicalOnly bool   // keep only products the info endpoint reports as physical
	OutputJSON   string // items.json path; the lookup tables are written next to it
	BuiltAt      string // build timestamp; empty means now
	LogFile      string // tee logs to this file when set
}

// Stats holds the counters of one build run.
type Stats struct {
	Fetched        int
	Pages          int
	Duplicates     int
	Malformed      int
	InStock        int
	OutOfStock     int
	Unpaid         int
	NotPhysical    int
	Rows           int
	Talents        int
	FilesWritten   []string
	SnapshotStored bool
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
