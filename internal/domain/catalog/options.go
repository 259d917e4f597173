package catalog

import (
	"github.com/okian/instock/internal/domain/talent"

	"golang.org/x/text/language"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithNormalizer sets the talent normalizer.
func WithNormalizer(n *talent.Normalizer) Option {
	return func(b *Builder) {
		if n != nil {
			b.talents = n
		}
	}
}

// WithProductBaseURL sets the prefix joined with a product's urlName.
func WithProductBaseURL(base string) Option {
	return func(b *Builder) {
		if base != "" {
			b.baseURL = base
		}
	}
}

// WithCurrencySymbol sets the symbol prepended to formatted prices.
func WithCurrencySymbol(symbol string) Option {
	return func(b *Builder) {
		b.currency = symbol
	}
}

// WithLocale sets the locale used for number grouping.
func WithLocale(tag language.Tag) Option {
	return func(b *Builder) {
		b.locale = tag
	}
}
