package catalog

import (
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/stock"

	"github.com/shopspring/decimal"
)

// FilterPaid keeps products with at least one orderable variant priced
// above zero. The result preserves input order.
func FilterPaid(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if IsPaid(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsPaid reports whether p has an orderable variant with a positive price.
func IsPaid(p model.Product) bool {
	for i := range p.Variants {
		v := &p.Variants[i]
		if stock.IsOrderable(v.Available) && v.Price.IsPositive() {
			return true
		}
	}
	return false
}

// PriceRange is the span of prices over a product's orderable variants.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Single reports whether every orderable variant has the same price.
func (r PriceRange) Single() bool { return r.Min.Equal(r.Max) }

// PriceRangeOf computes the price range of p's orderable variants. ok is
// false when p has none.
func PriceRangeOf(p model.Product) (PriceRange, bool) {
	var (
		r     PriceRange
		found bool
	)
	for i := range p.Variants {
		v := &p.Variants[i]
		if !stock.IsOrderable(v.Available) {
			continue
		}
		if !found {
			r = PriceRange{Min: v.Price, Max: v.Price}
			found = true
			continue
		}
		r.Min = decimal.Min(r.Min, v.Price)
		r.Max = decimal.Max(r.Max, v.Price)
	}
	return r, found
}
