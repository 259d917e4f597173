package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError reports one catalog item rejected at the ingestion boundary.
type DecodeError struct {
	Index int
	Err   error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// DecodeProducts decodes each raw item independently. Items that are not JSON
// objects or whose fields have the wrong type are skipped and reported; the
// rest are returned in input order.
func DecodeProducts(raw []json.RawMessage) ([]Product, []DecodeError) {
	products := make([]Product, 0, len(raw))
	var rejected []DecodeError
	for i, item := range raw {
		p, err := DecodeProduct(item)
		if err != nil {
			rejected = append(rejected, DecodeError{Index: i, Err: err})
			continue
		}
		products = append(products, p)
	}
	return products, rejected
}

// DecodeProduct decodes a single catalog item.
func DecodeProduct(item json.RawMessage) (Product, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Product{}, fmt.Errorf("%w: not an object", ErrMalformedProduct)
	}
	var p Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Product{}, fmt.Errorf("%w: %w", ErrMalformedProduct, err)
	}
	return p, nil
}
