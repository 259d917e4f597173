// Package query evaluates filter, search and sort requests over catalog rows.
// Every function is pure: inputs are never mutated and identical inputs yield
// identical output.
package query

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/okian/instock/internal/domain/model"

	"golang.org/x/text/cases"
)

//nolint:gochecknoglobals // compiled once
var (
	voiceText       = regexp.MustCompile(`(?i)\b(voice|asmr|audio\s*book|audiobook|drama\s*cd)\b|ボイス|朗読|オーディオブック`)
	madeToOrderText = regexp.MustCompile(`(?i)受注生産|made[\s-]to[\s-]order`)
)

// Predicate is the set of row filters. The zero value passes every row.
type Predicate struct {
	// Talent matches Row.Talent case-insensitively, or any search term of
	// that talent found in the row's title or item.
	Talent             string
	ExcludeDigital     bool
	ExcludePreorder    bool
	ExcludeMadeToOrder bool
	// Search is free text matched against title, item and talent.
	Search string
}

// IsZero reports whether p filters nothing.
func (p Predicate) IsZero() bool { return p == Predicate{} }

// Filter returns the rows that satisfy every predicate, in input order.
func Filter(rows []model.Row, p Predicate, terms model.SearchTerms) []model.Row {
	m := newMatcher(p, terms)
	out := make([]model.Row, 0, len(rows))
	for i := range rows {
		if m.match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// matcher holds the per-evaluation state derived from a predicate.
type matcher struct {
	p           Predicate
	talentFold  string
	talentTerms []string
	search      string
	fold        cases.Caser
}

func newMatcher(p Predicate, terms model.SearchTerms) *matcher {
	m := &matcher{p: p, fold: cases.Fold()}
	if t := strings.TrimSpace(p.Talent); t != "" {
		m.talentFold = m.fold.String(t)
		m.talentTerms = lookupTerms(terms, t, m.talentFold, m.fold)
	}
	m.search = strings.TrimSpace(p.Search)
	return m
}

func (m *matcher) match(r *model.Row) bool {
	if m.p.ExcludeDigital && (r.IsDigital || voiceText.MatchString(r.Title+" "+r.Item)) {
		return false
	}
	if m.p.ExcludePreorder && r.IsPreorder {
		return false
	}
	if m.p.ExcludeMadeToOrder && (r.IsMadeToOrder || madeToOrderText.MatchString(r.Title)) {
		return false
	}
	if m.talentFold != "" && !m.matchTalent(r) {
		return false
	}
	if m.search != "" &&
		!m.contains(r.Title, m.search) && !m.contains(r.Item, m.search) && !m.contains(r.Talent, m.search) {
		return false
	}
	return true
}

func (m *matcher) matchTalent(r *model.Row) bool {
	if m.fold.String(strings.TrimSpace(r.Talent)) == m.talentFold {
		return true
	}
	for _, term := range m.talentTerms {
		if term == "" {
			continue
		}
		if m.contains(r.Item, term) || m.contains(r.Title, term) {
			return true
		}
	}
	return false
}

// contains matches CJK needles as exact substrings and everything else
// case-insensitively.
func (m *matcher) contains(haystack, needle string) bool {
	if hasCJK(needle) {
		return strings.Contains(haystack, needle)
	}
	return strings.Contains(m.fold.String(haystack), m.fold.String(needle))
}

// lookupTerms finds the search terms for a talent, preferring an exact key.
func lookupTerms(terms model.SearchTerms, name, folded string, fold cases.Caser) []string {
	if list, ok := terms[name]; ok {
		return list
	}
	for k, list := range terms {
		if fold.String(k) == folded {
			return list
		}
	}
	return nil
}

func hasCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}
