package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/instock/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging initialises the global logger in the given format, teeing to
// logFile when one is set. The returned close func releases the file.
func SetupLogging(format, logFile string) (func(), error) {
	if logFile == "" {
		if err := logger.Init(logger.WithFormat(format), logger.WithWriter(os.Stderr)); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return func() {}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithWriter(io.MultiWriter(os.Stderr, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return func() { _ = file.Close() }, nil
}

// ShowHelp prints usage information for the build tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `instock catalog build
=====================

Fetches the shop catalog (or loads a saved one), reports stock, and exports
one row per orderable variant for the query service.

Usage:
  go run ./cmd/build [options]

Options:
  -from-file string
        Load the catalog from a saved document instead of fetching it
  -catalog string
        Where a fetched catalog is written (default "data/catalog.json")
  -report-only
        Print the stock report and write nothing
  -physical-only
        Keep only products the info endpoint reports as physical
  -output-json string
        Write items.json here, plus the talent lookup tables next to it
        (default "data/items.json"; "-" disables)
  -log string
        Also write logs to this file
  -help
        Show this help message

Configuration (env, prefix INSTOCK_, or a YAML file named by INSTOCK_CONFIG):
  INSTOCK_API_KEY       catalog API key (required when fetching)
  INSTOCK_DATABASE_URL  also store each build as a snapshot in Postgres
  BUILD_TIMESTAMP       builtAt value written to items.json

Examples:
  # Fetch, report, build tables and items.json
  INSTOCK_API_KEY=... go run ./cmd/build

  # Rebuild from a saved catalog, physical products only
  go run ./cmd/build -from-file data/catalog.json -physical-only

  # Stock report only
  go run ./cmd/build -from-file data/catalog.json -report-only
`)
}
