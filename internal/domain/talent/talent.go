// Package talent resolves the canonical display name of the talent a product
// is merchandised for, and builds the reverse index used to match localized
// names in free text.
package talent

import (
	"sort"
	"strings"

	"github.com/okian/instock/internal/domain/model"

	"golang.org/x/text/cases"
)

// Unknown is returned when no talent can be derived.
const Unknown = "—"

const (
	defaultTagPrefix     = "Talent_"
	defaultGenericVendor = "hololive production official shop"
)

// separators split "English / 日本語" style composite names. Order matters:
// the first separator found past index 0 wins.
var separators = []string{" / ", "／", "（", " ("} //nolint:gochecknoglobals // fixed table

// Normalizer resolves talent names. It is immutable after construction and
// safe for concurrent use.
type Normalizer struct {
	names          model.NameMap
	genericVendors []string // case-folded
	tagPrefix      string
}

// NewNormalizer creates a Normalizer with the built-in name table, the
// storefront's generic vendor string and the Talent_ tag prefix.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		names:          DefaultNameMap(),
		genericVendors: []string{fold(defaultGenericVendor)},
		tagPrefix:      defaultTagPrefix,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Resolve returns the canonical talent for a product:
//  1. a non-generic vendor is used as the raw name;
//  2. otherwise the first tag carrying the talent prefix, falling back to the vendor;
//  3. composite bilingual names are cut to their first segment;
//  4. the name table maps localized names to English.
//
// The result is Unknown when nothing usable is found.
func (n *Normalizer) Resolve(vendor string, tags []string) string {
	v := strings.TrimSpace(vendor)
	var raw string
	if v != "" && !n.isGeneric(v) {
		raw = EnglishOnly(v)
	} else {
		raw = v
		for _, tag := range tags {
			if strings.HasPrefix(tag, n.tagPrefix) {
				raw = strings.TrimSpace(strings.TrimPrefix(tag, n.tagPrefix))
				break
			}
		}
		raw = EnglishOnly(raw)
	}
	if raw == "" {
		return Unknown
	}
	return n.Canonical(raw)
}

// Canonical maps name through the name table, returning it unchanged when
// there is no entry.
func (n *Normalizer) Canonical(name string) string {
	if en, ok := n.names[name]; ok {
		return en
	}
	return name
}

// NameMap returns a copy of the name table.
func (n *Normalizer) NameMap() model.NameMap {
	out := make(model.NameMap, len(n.names))
	for k, v := range n.names {
		out[k] = v
	}
	return out
}

func (n *Normalizer) isGeneric(vendor string) bool {
	f := fold(vendor)
	for _, g := range n.genericVendors {
		if strings.Contains(f, g) {
			return true
		}
	}
	return false
}

// EnglishOnly returns the first segment of a composite "English / 日本語" or
// "English（日本語）" name, trimmed. Names without a separator are returned
// trimmed.
func EnglishOnly(s string) string {
	t := strings.TrimSpace(s)
	for _, sep := range separators {
		if i := strings.Index(t, sep); i > 0 {
			return strings.TrimSpace(t[:i])
		}
	}
	return t
}

// BuildSearchTerms inverts names into English -> {English, aliases...} and
// guarantees every name in seen at least a self-only entry. Alias lists are
// sorted after the English name so output is deterministic.
func BuildSearchTerms(names model.NameMap, seen []string) model.SearchTerms {
	aliases := make(map[string][]string)
	for local, en := range names {
		aliases[en] = append(aliases[en], local)
	}

	terms := make(model.SearchTerms, len(aliases)+len(seen))
	for en, locals := range aliases {
		sort.Strings(locals)
		terms[en] = append([]string{en}, locals...)
	}
	for _, name := range seen {
		if name == "" {
			continue
		}
		if _, ok := terms[name]; !ok {
			terms[name] = []string{name}
		}
	}
	return terms
}

func fold(s string) string {
	return cases.Fold().String(s)
}
