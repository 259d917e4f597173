// Package stock classifies raw variant availability.
package stock

import (
	"strconv"

	"github.com/okian/instock/internal/domain/model"
)

// Unlimited is the availability the catalog reports for variants whose stock
// is not tracked (open orders, preorders). It can never be a real count.
const Unlimited int64 = -2147483648

// Display strings for non-numeric stock levels.
const (
	DisplayUnlimited = "Unlimited"
	DisplayUnknown   = "—"
)

// IsOrderable reports whether a variant with the given availability can be
// ordered: the Unlimited sentinel or a positive count. Nil, zero and other
// negative values are not orderable.
func IsOrderable(available *int64) bool {
	if available == nil {
		return false
	}
	return *available == Unlimited || *available > 0
}

// Level is the resolved stock of a variant.
type Level struct {
	// Count is nil for unlimited or unknown stock.
	Count   *int64
	Display string
}

// Resolve maps raw availability to a stock level.
func Resolve(available *int64) Level {
	switch {
	case available == nil:
		return Level{Display: DisplayUnknown}
	case *available == Unlimited:
		return Level{Display: DisplayUnlimited}
	default:
		n := *available
		return Level{Count: &n, Display: strconv.FormatInt(n, 10)}
	}
}

// HasOrderableVariant reports whether any variant of p is orderable.
func HasOrderableVariant(p model.Product) bool {
	for i := range p.Variants {
		if IsOrderable(p.Variants[i].Available) {
			return true
		}
	}
	return false
}

// Report splits a catalog into products with and without orderable variants.
type Report struct {
	InStock    []model.Product
	OutOfStock []model.Product
	// InStockIdx and OutOfStockIdx hold the input positions of each list so
	// callers can re-export the matching raw items.
	InStockIdx    []int
	OutOfStockIdx []int
}

// Total is the number of analysed products.
func (r Report) Total() int { return len(r.InStock) + len(r.OutOfStock) }

// Analyze classifies every product, preserving input order within each list.
func Analyze(products []model.Product) Report {
	var r Report
	for i, p := range products {
		if HasOrderableVariant(p) {
			r.InStock = append(r.InStock, p)
			r.InStockIdx = append(r.InStockIdx, i)
			continue
		}
		r.OutOfStock = append(r.OutOfStock, p)
		r.OutOfStockIdx = append(r.OutOfStockIdx, i)
	}
	return r
}
