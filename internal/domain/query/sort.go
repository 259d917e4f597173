package query

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/instock/internal/domain/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names the row field rows are ordered by.
type SortKey string

// Recognized sort keys.
const (
	SortByPrice    SortKey = "price"
	SortByDate     SortKey = "date"
	SortByStock    SortKey = "stock"
	SortByTitle    SortKey = "title"
	SortByItem     SortKey = "item"
	SortByTalent   SortKey = "talent"
	SortByItemType SortKey = "itemType"
)

// ParseSortKey returns the key named by s, or false if s names no key.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortByPrice, SortByDate, SortByStock, SortByTitle, SortByItem, SortByTalent, SortByItemType:
		return k, true
	}
	return "", false
}

// Sort returns a copy of rows ordered by key. Numeric keys compare parsed
// values: price from its display string, date from dateRaw (epoch when
// missing), stock with unlimited as +Inf. Text keys use English collation
// ignoring case and diacritics. Equal rows keep their input order.
func Sort(rows []model.Row, key SortKey, ascending bool) []model.Row {
	out := make([]model.Row, len(rows))
	copy(out, rows)

	cmp := comparator(key)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(&out[i], &out[j])
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return out
}

func comparator(key SortKey) func(a, b *model.Row) int {
	switch key {
	case SortByPrice:
		return func(a, b *model.Row) int { return compareFloat(parsePrice(a.Price), parsePrice(b.Price)) }
	case SortByDate:
		return func(a, b *model.Row) int { return compareFloat(rowTime(a), rowTime(b)) }
	case SortByStock:
		return func(a, b *model.Row) int { return compareFloat(stockValue(a), stockValue(b)) }
	}
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	field := textField(key)
	return func(a, b *model.Row) int { return c.CompareString(field(a), field(b)) }
}

func textField(key SortKey) func(r *model.Row) string {
	switch key {
	case SortByItem:
		return func(r *model.Row) string { return r.Item }
	case SortByTalent:
		return func(r *model.Row) string { return r.Talent }
	case SortByItemType:
		return func(r *model.Row) string { return r.ItemType }
	default:
		return func(r *model.Row) string { return r.Title }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// parsePrice keeps digits and dots of a display price; anything
// unparseable is 0.
func parsePrice(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return f
}

func rowTime(r *model.Row) float64 {
	raw := r.DateRaw
	if raw == "" {
		raw = r.Date
	}
	if raw == "" {
		return 0
	}
	t, ok := model.ParseDate(raw)
	if !ok {
		return 0
	}
	return float64(t.UnixMilli())
}

func stockValue(r *model.Row) float64 {
	if r.Stock == nil {
		return math.Inf(1)
	}
	return float64(*r.Stock)
}
