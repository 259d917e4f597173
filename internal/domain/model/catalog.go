// Package model contains the catalog records passed between layers.
package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry as returned by the remote search API.
// Fields not listed here are ignored on decode.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	URLName  string    `json:"urlName"`
	Vendor   string    `json:"vendor"`
	Tags     []string  `json:"tags"`
	Options  []Option  `json:"options"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
	Date     string    `json:"date"`
}

// Option is a product option definition, e.g. "Size" with its ordered values.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
	// Available is nil when the source omitted it.
	Available *int64 `json:"available"`
	// Options holds indices into the owning product's option values,
	// parallel to Product.Options.
	Options    []int `json:"options"`
	ImageIndex *int  `json:"imageIndex"`
}

// Image is a product image reference.
type Image struct {
	URL string `json:"url"`
}

// Row is the flattened representation of one orderable variant.
type Row struct {
	Title         string `json:"title"`
	Item          string `json:"item"`
	Price         string `json:"price"`
	Stock         *int64 `json:"stock"` // nil means unlimited
	StockDisplay  string `json:"stockDisplay"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ProductURL    string `json:"productUrl,omitempty"`
	Talent        string `json:"talent"`
	ItemType      string `json:"itemType"`
	Date          string `json:"date,omitempty"`
	DateRaw       string `json:"dateRaw,omitempty"`
	IsDigital     bool   `json:"isDigital"`
	IsPreorder    bool   `json:"isPreorder"`
	IsMadeToOrder bool   `json:"isMadeToOrder"`
}

// NameMap maps a localized talent name to its English display name.
type NameMap map[string]string

// SearchTerms maps an English talent name to every string that identifies it.
type SearchTerms map[string][]string

// Document is the catalog document shape shared by the remote API and the
// catalog files on disk. Items stay raw so re-exported files keep fields the
// model does not know about.
type Document struct {
	Data DocumentData `json:"data"`
}

// DocumentData is the payload of a Document.
type DocumentData struct {
	Total int               `json:"total"`
	Items []json.RawMessage `json:"items"`
}

// NewDocument wraps items in a Document whose total is len(items).
func NewDocument(items []json.RawMessage) Document {
	if items == nil {
		items = []json.RawMessage{}
	}
	return Document{Data: DocumentData{Total: len(items), Items: items}}
}

// Export is the primary artifact consumed by the query service.
type Export struct {
	Items   []Row  `json:"items"`
	BuiltAt string `json:"builtAt"`
}
