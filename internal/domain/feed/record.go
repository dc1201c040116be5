package feed

import (
	"github.com/shopspring/decimal"
)

// Record represents one product node from the merchant feed after
// normalization. Repeatable child nodes (variants, images) are always
// collections, even when the source document carried a single element.
type Record struct {
	// ExternalID is the product identifier assigned by the feed source
	ExternalID string
	// Name is the product display name
	Name string
	// Vendor is the brand / manufacturer name
	Vendor string
	// CategoryPath is the raw category breadcrumb ("Giyim>Büyük Beden>...")
	CategoryPath string
	// BasePrice is the list/selling price
	BasePrice decimal.Decimal
	// SalePrice is the discounted price (zero when absent)
	SalePrice decimal.Decimal
	// StockQty is the product-level stock quantity
	StockQty int
	// SKU is the product-level stock code (used when no variants exist)
	SKU string
	// Barcode is the product-level barcode
	Barcode string
	// DescriptionHTML is the raw product description (HTML allowed)
	DescriptionHTML string
	// Variants holds the variant records, possibly empty
	Variants []VariantRecord
	// Images holds the product-level image records
	Images []ImageRecord
}

// VariantRecord represents one variant node of a feed product.
type VariantRecord struct {
	// AxisName is the declared variant dimension name (e.g. "Beden")
	AxisName string
	// AxisValue is the value on the declared axis (e.g. "48")
	AxisValue string
	// ColorValue is the variant color, distinct from the declared axis
	ColorValue string
	// SKU is the variant stock code
	SKU string
	// Barcode is the variant barcode
	Barcode string
	// StockQty is the variant stock quantity
	StockQty int
	// Images holds the variant-level image records
	Images []ImageRecord
}

// ImageRecord is a single image reference from the feed.
type ImageRecord struct {
	// SourceURL is the image URL as published by the feed
	SourceURL string
}

// VariantCount returns the number of variant records, counting a
// variant-less product as one (the synthesized default variant).
func (r *Record) VariantCount() int {
	if len(r.Variants) == 0 {
		return 1
	}
	return len(r.Variants)
}

// Stats summarizes a parsed feed document.
type Stats struct {
	ProductCount int `json:"productCount"`
	VariantCount int `json:"variantCount"`
}
