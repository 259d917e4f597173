package query

import (
	"net/url"
	"sort"
	"strings"

	"github.com/okian/instock/internal/domain/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// URL parameter names.
const (
	ParamSearch      = "q"
	ParamTalent      = "talent"
	ParamDigital     = "digital"
	ParamPreorder    = "preorder"
	ParamMadeToOrder = "madeToOrder"
	ParamSort        = "sort"
	ParamDir         = "dir"

	dirAsc  = "asc"
	dirDesc = "desc"
)

// Query is a complete evaluation request: which rows, in which order.
type Query struct {
	Predicate
	SortKey   SortKey
	Ascending bool
}

// Default returns the query applied when nothing is requested: every row,
// newest first.
func Default() Query {
	return Query{SortKey: SortByDate}
}

// Evaluate filters rows with q's predicate, then orders them.
func Evaluate(rows []model.Row, q Query, terms model.SearchTerms) []model.Row {
	key := q.SortKey
	if key == "" {
		key = SortByDate
	}
	return Sort(Filter(rows, q.Predicate, terms), key, q.Ascending)
}

// ParseValues reads a Query from URL parameters. Booleans are "1" or "0";
// unknown or malformed values leave the default in place.
func ParseValues(v url.Values) Query {
	q := Default()
	q.Search = v.Get(ParamSearch)
	q.Talent = v.Get(ParamTalent)
	parseFlag(v, ParamDigital, &q.ExcludeDigital)
	parseFlag(v, ParamPreorder, &q.ExcludePreorder)
	parseFlag(v, ParamMadeToOrder, &q.ExcludeMadeToOrder)
	if k, ok := ParseSortKey(v.Get(ParamSort)); ok {
		q.SortKey = k
	}
	switch strings.ToLower(v.Get(ParamDir)) {
	case dirAsc:
		q.Ascending = true
	case dirDesc:
		q.Ascending = false
	}
	return q
}

// Values encodes q as URL parameters, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Talent != "" {
		v.Set(ParamTalent, q.Talent)
	}
	setFlag(v, ParamDigital, q.ExcludeDigital)
	setFlag(v, ParamPreorder, q.ExcludePreorder)
	setFlag(v, ParamMadeToOrder, q.ExcludeMadeToOrder)
	if q.SortKey != "" && q.SortKey != SortByDate {
		v.Set(ParamSort, string(q.SortKey))
	}
	if q.Ascending {
		v.Set(ParamDir, dirAsc)
	}
	return v
}

func parseFlag(v url.Values, name string, dst *bool) {
	switch v.Get(name) {
	case "1":
		*dst = true
	case "0":
		*dst = false
	}
}

func setFlag(v url.Values, name string, on bool) {
	if on {
		v.Set(name, "1")
	}
}

// Talents lists the distinct talents of rows for a picker: names equal
// ignoring case collapse to one title-cased entry, ordered by collation.
func Talents(rows []model.Row) []string {
	fold := cases.Fold()
	title := cases.Title(language.English)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range rows {
		t := strings.Join(strings.Fields(rows[i].Talent), " ")
		if t == "" {
			continue
		}
		k := fold.String(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, title.String(t))
	}
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i], out[j]) < 0 })
	return out
}
