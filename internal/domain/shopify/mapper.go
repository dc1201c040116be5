package shopify

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feedsync/backend/internal/domain/catalog"
)

const (
	// inventoryManagement marks inventory as platform-managed.
	inventoryManagement = "shopify"
	// inventoryPolicy denies overselling.
	inventoryPolicy = "deny"
)

// MapProduct transforms a catalog product into the Shopify product payload.
// The transform is pure: identical input always yields an identical payload.
// Prices carry exactly two decimal digits with a period separator; images
// are ordered variant-first then product-level, deduplicated by source URL,
// with positions assigned by the resulting sequence starting at 1.
func MapProduct(p *catalog.Product) ProductPayload {
	payload := ProductPayload{
		Title:       p.Title,
		BodyHTML:    p.DescriptionHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Handle:      p.Handle,
		Status:      string(catalog.ProductStatusActive),
		Tags:        strings.Join(p.Tags, ","),
	}

	for _, opt := range p.Options {
		payload.Options = append(payload.Options, OptionPayload{
			Name:   opt.Name,
			Values: append([]string(nil), opt.Values...),
		})
	}

	for _, v := range p.Variants {
		payload.Variants = append(payload.Variants, mapVariant(v))
	}

	payload.Images = mapImages(p)

	return payload
}

// mapVariant maps a single variant. The effective price is the sale price
// when nonzero, the base price otherwise; when the sale price applies and
// the base price is higher, the base price becomes compare_at_price.
func mapVariant(v catalog.Variant) VariantPayload {
	price, compareAt := effectivePrice(v.Price, v.CompareAt)
	qty := v.StockQty

	vp := VariantPayload{
		Title:               v.Title,
		Price:               price.StringFixed(2),
		SKU:                 v.SKU,
		Barcode:             v.Barcode,
		InventoryQuantity:   &qty,
		InventoryManagement: inventoryManagement,
		InventoryPolicy:     inventoryPolicy,
	}
	if !compareAt.IsZero() {
		vp.CompareAtPrice = compareAt.StringFixed(2)
	}

	for i, val := range v.OptionValues {
		switch i {
		case 0:
			vp.Option1 = val
		case 1:
			vp.Option2 = val
		case 2:
			vp.Option3 = val
		}
	}
	return vp
}

// effectivePrice applies the sale-over-base fallback. Zero and absent sale
// prices are treated uniformly: both fall back to the base price.
func effectivePrice(sale, base decimal.Decimal) (price, compareAt decimal.Decimal) {
	if sale.IsPositive() {
		if base.GreaterThan(sale) {
			return sale, base
		}
		return sale, decimal.Zero
	}
	return base, decimal.Zero
}

func mapImages(p *catalog.Product) []ImagePayload {
	var images []ImagePayload
	seen := make(map[string]struct{})

	appendImage := func(img catalog.Image) {
		if _, ok := seen[img.SourceURL]; ok {
			return
		}
		seen[img.SourceURL] = struct{}{}
		images = append(images, ImagePayload{
			Src:      img.SourceURL,
			Alt:      p.Title,
			Position: len(images) + 1,
		})
	}

	for _, v := range p.Variants {
		for _, img := range v.Images {
			appendImage(img)
		}
	}
	for _, img := range p.Images {
		appendImage(img)
	}
	return images
}
