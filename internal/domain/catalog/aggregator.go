package catalog

import (
	"fmt"
	"strings"

	"github.com/feedsync/backend/internal/domain/feed"
)

const (
	// ColorOptionName is the option axis used for variant color values.
	ColorOptionName = "Color"
	// DefaultColorValue fills the color slot when a variant declares none.
	DefaultColorValue = "Varsayılan"
	// DefaultAxisValue fills a declared axis slot when a variant declares none.
	DefaultAxisValue = "Tek Beden"
	// DefaultProductType is used when the category path yields no segments.
	DefaultProductType = "Genel"
)

// MappingWarning records a non-fatal issue found while aggregating a feed
// record into a product. Aggregation continues with best-effort defaults.
type MappingWarning struct {
	ExternalID string `json:"externalId"`
	Message    string `json:"message"`
}

// Aggregate builds one Product from a feed record: tags from the category
// path, a slugified handle, deduplicated option axes in first-seen order,
// and a synthesized default variant when the record carries none.
func Aggregate(rec feed.Record) (*Product, []MappingWarning) {
	var warnings []MappingWarning

	p := &Product{
		ExternalID:      rec.ExternalID,
		Title:           rec.Name,
		DescriptionHTML: rec.DescriptionHTML,
		Vendor:          rec.Vendor,
		ProductType:     productType(rec.CategoryPath),
		Tags:            buildTags(rec.CategoryPath, rec.Vendor),
		Handle:          Slugify(rec.Name),
		Status:          ProductStatusActive,
		Images:          toImages(rec.Images),
	}

	if rec.BasePrice.IsZero() && rec.SalePrice.IsZero() {
		warnings = append(warnings, MappingWarning{
			ExternalID: rec.ExternalID,
			Message:    "no usable price, product will be pushed with price 0.00",
		})
	}

	if len(rec.Variants) == 0 {
		p.Options = []Option{{Name: ColorOptionName, Values: []string{DefaultColorValue}}}
		p.Variants = []Variant{defaultVariant(rec)}
		return p, warnings
	}

	opts := newOptionSet()
	for _, vr := range rec.Variants {
		if vr.ColorValue != "" {
			opts.add(ColorOptionName, vr.ColorValue)
		}
		if vr.AxisName != "" && vr.AxisValue != "" {
			if dropped := opts.add(vr.AxisName, vr.AxisValue); dropped {
				warnings = append(warnings, MappingWarning{
					ExternalID: rec.ExternalID,
					Message:    fmt.Sprintf("option axis %q dropped: product already has %d axes", vr.AxisName, MaxOptionAxes),
				})
			}
		}
	}

	for i, vr := range rec.Variants {
		v := Variant{
			Price:     rec.SalePrice,
			CompareAt: rec.BasePrice,
			SKU:       vr.SKU,
			Barcode:   vr.Barcode,
			StockQty:  vr.StockQty,
			Images:    toImages(vr.Images),
		}
		if v.SKU == "" {
			v.SKU = fmt.Sprintf("%s-%d", rec.ExternalID, i)
		}
		for _, name := range opts.order {
			v.OptionValues = append(v.OptionValues, opts.slotValue(name, vr))
		}
		v.Title = strings.Join(v.OptionValues, " / ")
		p.Variants = append(p.Variants, v)
	}
	p.Options = opts.options()

	return p, warnings
}

// defaultVariant synthesizes the single variant for a record without
// variant nodes, using the product-level price, stock and stock code.
func defaultVariant(rec feed.Record) Variant {
	return Variant{
		Title:        DefaultColorValue,
		Price:        rec.SalePrice,
		CompareAt:    rec.BasePrice,
		SKU:          firstNonEmpty(rec.SKU, rec.ExternalID),
		Barcode:      rec.Barcode,
		StockQty:     rec.StockQty,
		OptionValues: []string{DefaultColorValue},
	}
}

// buildTags splits the category path on ">" or "/", trims the tokens,
// appends the vendor, and deduplicates preserving first-seen order.
func buildTags(categoryPath, vendor string) []string {
	segments := splitCategoryPath(categoryPath)
	if vendor != "" {
		segments = append(segments, vendor)
	}

	tags := make([]string, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		tags = append(tags, s)
	}
	return tags
}

// productType is the last category path segment.
func productType(categoryPath string) string {
	segments := splitCategoryPath(categoryPath)
	if len(segments) == 0 {
		return DefaultProductType
	}
	return segments[len(segments)-1]
}

func splitCategoryPath(path string) []string {
	sep := ">"
	if !strings.Contains(path, ">") && strings.Contains(path, "/") {
		sep = "/"
	}
	var segments []string
	for _, s := range strings.Split(path, sep) {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func toImages(records []feed.ImageRecord) []Image {
	if len(records) == 0 {
		return nil
	}
	images := make([]Image, 0, len(records))
	for _, r := range records {
		if r.SourceURL != "" {
			images = append(images, Image{SourceURL: r.SourceURL})
		}
	}
	return images
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// optionSet collects option axes in first-seen order with deduplicated
// values, enforcing the MaxOptionAxes cap. The Color axis, when present,
// always occupies the first slot.
type optionSet struct {
	order  []string
	values map[string][]string
	seen   map[string]map[string]struct{}
}

func newOptionSet() *optionSet {
	return &optionSet{
		values: make(map[string][]string),
		seen:   make(map[string]map[string]struct{}),
	}
}

// add records value under the named axis. Returns true when the axis was
// dropped because the cap was reached.
func (s *optionSet) add(name, value string) bool {
	if _, ok := s.seen[name]; !ok {
		if len(s.order) >= MaxOptionAxes {
			return true
		}
		s.order = append(s.order, name)
		s.seen[name] = make(map[string]struct{})
	}
	if _, ok := s.seen[name][value]; !ok {
		s.seen[name][value] = struct{}{}
		s.values[name] = append(s.values[name], value)
	}
	return false
}

// slotValue resolves the value a variant record contributes to the named
// axis, registering the default when the record declares none.
func (s *optionSet) slotValue(name string, vr feed.VariantRecord) string {
	if name == ColorOptionName {
		if vr.ColorValue != "" {
			return vr.ColorValue
		}
		s.add(ColorOptionName, DefaultColorValue)
		return DefaultColorValue
	}
	if vr.AxisName == name && vr.AxisValue != "" {
		return vr.AxisValue
	}
	s.add(name, DefaultAxisValue)
	return DefaultAxisValue
}

func (s *optionSet) options() []Option {
	opts := make([]Option, 0, len(s.order))
	for _, name := range s.order {
		opts = append(opts, Option{Name: name, Values: s.values[name]})
	}
	return opts
}
