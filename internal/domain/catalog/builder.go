// Package catalog expands catalog products into flat, orderable variant rows.
package catalog

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/stock"
	"github.com/okian/instock/internal/domain/talent"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	placeholder      = "—"
	labelSeparator   = " / "
	voiceItemType    = "ボイス"
	defaultBaseURL   = "https://shop.hololivepro.com/en/products/"
	defaultCurrency  = "$"
	maxFractionDigit = 3
)

//nolint:gochecknoglobals // compiled once
var (
	oldPricePattern    = regexp.MustCompile(`(?i)old\s*price|旧価格`)
	digitalLabelMarker = regexp.MustCompile(`(?i)digital\s+contents|^download\s*/|^ダウンロード\s*/`)
	voiceVocabulary    = regexp.MustCompile(`(?i)\bvoice\b|ボイス|asmr|system voice|situation voice|voice set|audio\s*book|朗読|オーディオブック`)
	preorderTag        = regexp.MustCompile(`(?i)先行発送|pre-?order`)
	madeToOrderTag     = regexp.MustCompile(`(?i)受注生産|made-to-order`)
)

// Builder turns products into rows. It holds no mutable state.
type Builder struct {
	talents  *talent.Normalizer
	baseURL  string
	currency string
	locale   language.Tag
}

// NewBuilder creates a Builder with the default talent normalizer, product
// base URL, "$" currency symbol and English number formatting.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		baseURL:  defaultBaseURL,
		currency: defaultCurrency,
		locale:   language.English,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.talents == nil {
		b.talents = talent.NewNormalizer()
	}
	return b
}

// BuildRows emits one row per variant of p that is orderable, has a positive
// price and is not an old-price tier. Missing fields degrade to placeholders.
func (b *Builder) BuildRows(p model.Product) []model.Row {
	title := p.Title
	if title == "" {
		title = placeholder
	}
	productURL := ""
	if p.URLName != "" {
		productURL = b.baseURL + url.PathEscape(p.URLName)
	}
	who := b.talents.Resolve(p.Vendor, p.Tags)
	date, dateRaw := formatDate(p.Date)
	preorder := anyTagMatches(p.Tags, preorderTag)
	madeToOrder := anyTagMatches(p.Tags, madeToOrderTag)

	var rows []model.Row
	for i := range p.Variants {
		v := &p.Variants[i]
		if !stock.IsOrderable(v.Available) || !v.Price.IsPositive() {
			continue
		}
		label := variantLabel(p.Options, v.Options)
		if oldPricePattern.MatchString(strings.TrimSpace(label)) {
			continue
		}
		itemType := variantItemType(p.Options, v.Options)
		level := stock.Resolve(v.Available)

		rows = append(rows, model.Row{
			Title:         title,
			Item:          label,
			Price:         b.FormatPrice(v.Price),
			Stock:         level.Count,
			StockDisplay:  level.Display,
			ImageURL:      variantImage(p.Images, v.ImageIndex),
			ProductURL:    productURL,
			Talent:        who,
			ItemType:      itemType,
			Date:          date,
			DateRaw:       dateRaw,
			IsDigital:     isDigital(itemType, title, label),
			IsPreorder:    preorder,
			IsMadeToOrder: madeToOrder,
		})
	}
	return rows
}

// BuildAll concatenates BuildRows over products in order.
func (b *Builder) BuildAll(products []model.Product) []model.Row {
	rows := make([]model.Row, 0, len(products))
	for i := range products {
		rows = append(rows, b.BuildRows(products[i])...)
	}
	return rows
}

// Talents returns the normalizer used for talent resolution.
func (b *Builder) Talents() *talent.Normalizer { return b.talents }

// FormatPrice renders a price with the currency symbol and locale grouping,
// keeping up to three fraction digits.
func (b *Builder) FormatPrice(price decimal.Decimal) string {
	p := message.NewPrinter(b.locale)
	f := price.Round(maxFractionDigit).InexactFloat64()
	return b.currency + p.Sprint(number.Decimal(f, number.MaxFractionDigits(maxFractionDigit)))
}

func variantLabel(options []model.Option, indices []int) string {
	if len(indices) == 0 {
		return placeholder
	}
	parts := make([]string, 0, len(indices))
	for i, idx := range indices {
		if i >= len(options) {
			break
		}
		if v := optionValue(options[i], idx); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return placeholder
	}
	return strings.Join(parts, labelSeparator)
}

func variantItemType(options []model.Option, indices []int) string {
	if len(indices) == 0 || len(options) == 0 {
		return placeholder
	}
	idx := indices[0]
	if idx < 0 || idx >= len(options[0].Values) {
		return placeholder
	}
	return options[0].Values[idx]
}

func optionValue(o model.Option, idx int) string {
	if idx < 0 || idx >= len(o.Values) {
		return ""
	}
	return o.Values[idx]
}

func variantImage(images []model.Image, index *int) string {
	if len(images) == 0 {
		return ""
	}
	i := 0
	if index != nil {
		i = min(*index, len(images)-1)
	}
	img := images[0]
	if i >= 0 && images[i].URL != "" {
		img = images[i]
	}
	if strings.HasPrefix(img.URL, "//") {
		return "https:" + img.URL
	}
	return img.URL
}

func isDigital(itemType, title, label string) bool {
	if itemType == voiceItemType {
		return true
	}
	if digitalLabelMarker.MatchString(label) {
		return true
	}
	return voiceVocabulary.MatchString(title + " " + label)
}

func anyTagMatches(tags []string, re *regexp.Regexp) bool {
	for _, t := range tags {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// formatDate returns the YYYY-MM-DD display and the raw value, or two empty
// strings when raw is missing or unparseable.
func formatDate(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	t, ok := model.ParseDate(raw)
	if !ok {
		return "", ""
	}
	return t.UTC().Format(time.DateOnly), raw
}
