package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxOptionAxes is the maximum number of option dimensions a product may
// carry; the target catalog schema supports three option slots.
const MaxOptionAxes = 3

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

var (
	// ErrVariantValueNotInOption indicates a variant carries an option slot
	// value missing from the corresponding option's value list.
	ErrVariantValueNotInOption = errors.New("catalog: variant option value not declared in option")
	// ErrTooManyOptions indicates more than MaxOptionAxes option axes.
	ErrTooManyOptions = errors.New("catalog: too many option axes")
)

// Option is one variant-defining dimension with its distinct values in
// first-seen order.
type Option struct {
	Name   string
	Values []string
}

// Variant is a purchasable variation of a product. OptionValues holds the
// ordered option slot values; its length matches the product's option count.
type Variant struct {
	Title        string
	Price        decimal.Decimal
	CompareAt    decimal.Decimal
	SKU          string
	Barcode      string
	StockQty     int
	OptionValues []string
	Images       []Image
}

// Image is an image reference carried through to the catalog.
type Image struct {
	SourceURL string
}

// Product is the aggregate assembled from one feed record. It is created
// fresh per run and discarded after mapping.
type Product struct {
	ExternalID      string
	Title           string
	DescriptionHTML string
	Vendor          string
	ProductType     string
	Tags            []string
	Handle          string
	Status          ProductStatus
	Options         []Option
	Variants        []Variant
	Images          []Image
}

// Validate checks the aggregate invariants: at most MaxOptionAxes options,
// and every variant option slot value declared in the matching option.
func (p *Product) Validate() error {
	if len(p.Options) > MaxOptionAxes {
		return fmt.Errorf("%w: %d axes on %q", ErrTooManyOptions, len(p.Options), p.Handle)
	}
	for _, v := range p.Variants {
		if len(v.OptionValues) > len(p.Options) {
			return fmt.Errorf("%w: variant %q has %d slot values for %d options",
				ErrVariantValueNotInOption, v.SKU, len(v.OptionValues), len(p.Options))
		}
		for i, val := range v.OptionValues {
			if !containsValue(p.Options[i].Values, val) {
				return fmt.Errorf("%w: %q not in option %q", ErrVariantValueNotInOption, val, p.Options[i].Name)
			}
		}
	}
	return nil
}

// FirstSKU returns the SKU of the first variant, the identity used for
// matching against the remote catalog.
func (p *Product) FirstSKU() string {
	if len(p.Variants) == 0 {
		return ""
	}
	return p.Variants[0].SKU
}

func containsValue(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
