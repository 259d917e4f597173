package talent

import "github.com/okian/instock/internal/domain/model"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithNameMap replaces the built-in name table. A nil map is ignored.
func WithNameMap(names model.NameMap) Option {
	return func(n *Normalizer) {
		if names == nil {
			return
		}
		n.names = make(model.NameMap, len(names))
		for k, v := range names {
			n.names[k] = v
		}
	}
}

// WithGenericVendors replaces the vendor strings that carry no talent
// identity. Matching is case-insensitive and by substring.
func WithGenericVendors(vendors ...string) Option {
	return func(n *Normalizer) {
		n.genericVendors = n.genericVendors[:0]
		for _, v := range vendors {
			if v = fold(v); v != "" {
				n.genericVendors = append(n.genericVendors, v)
			}
		}
	}
}

// WithTagPrefix sets the tag prefix that marks a talent tag.
func WithTagPrefix(prefix string) Option {
	return func(n *Normalizer) {
		if prefix != "" {
			n.tagPrefix = prefix
		}
	}
}
