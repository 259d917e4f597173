// Package export writes the build artifacts: the row list consumed by the
// query service, the talent lookup tables, catalog documents and the
// Markdown/HTML table views.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/okian/instock/internal/domain/model"
)

// Artifact file names.
const (
	ItemsFile       = "items.json"
	NameMapFile     = "talent-jp-to-en.json"
	SearchTermsFile = "talent-search-terms.json"
)

// BuildTimestampEnv overrides the builtAt stamp for reproducible builds.
const BuildTimestampEnv = "BUILD_TIMESTAMP"

const (
	dirPermission  = 0o750
	filePermission = 0o644
	isoMillis      = "2006-01-02T15:04:05.000Z07:00"
)

// BuildTimestamp returns BUILD_TIMESTAMP when set, otherwise now in UTC with
// millisecond precision.
func BuildTimestamp(now time.Time) string {
	if v := strings.TrimSpace(os.Getenv(BuildTimestampEnv)); v != "" {
		return v
	}
	return now.UTC().Format(isoMillis)
}

// WriteItems writes {items, builtAt} to path.
func WriteItems(path string, rows []model.Row, builtAt string) error {
	if rows == nil {
		rows = []model.Row{}
	}
	return writeJSON(path, model.Export{Items: rows, BuiltAt: builtAt})
}

// WriteNameMap writes the localized name table into dir.
func WriteNameMap(dir string, names model.NameMap) error {
	if names == nil {
		names = model.NameMap{}
	}
	return writeJSON(filepath.Join(dir, NameMapFile), names)
}

// WriteSearchTerms writes the talent search terms into dir.
func WriteSearchTerms(dir string, terms model.SearchTerms) error {
	if terms == nil {
		terms = model.SearchTerms{}
	}
	return writeJSON(filepath.Join(dir, SearchTermsFile), terms)
}

// WriteDocument writes a catalog document to path.
func WriteDocument(path string, doc model.Document) error {
	if doc.Data.Items == nil {
		doc = model.NewDocument(nil)
	}
	return writeJSON(path, doc)
}

// Encode renders v as indented JSON without HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	b, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, b)
}

// writeFile replaces path atomically so readers never see a partial file.
func writeFile(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, filePermission); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

//nolint:gochecknoglobals // compiled once
var (
	jsonSuffix    = regexp.MustCompile(`(?i)\.json$`)
	inStockSuffix = regexp.MustCompile(`-in-stock$`)
	splitSuffix   = regexp.MustCompile(`(?i)-(in|out-of)-stock\.json$`)
)

// TablePaths derives the Markdown and HTML table paths for a catalog input:
// data/catalog-in-stock.json -> data/catalog-in-stock-table.{md,html}.
func TablePaths(input string) (string, string) {
	base := inStockSuffix.ReplaceAllString(jsonSuffix.ReplaceAllString(input, ""), "") + "-in-stock-table"
	return base + ".md", base + ".html"
}

// SplitPaths derives the in-stock and out-of-stock document paths for a
// catalog file: data/catalog.json -> data/catalog-{in,out-of}-stock.json.
func SplitPaths(catalog string) (string, string) {
	base := jsonSuffix.ReplaceAllString(catalog, "")
	return base + "-in-stock.json", base + "-out-of-stock.json"
}

// IsSplitPath reports whether path already names an in-stock or
// out-of-stock split.
func IsSplitPath(path string) bool {
	return splitSuffix.MatchString(path)
}
