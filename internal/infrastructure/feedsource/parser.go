package feedsource

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/feedsync/backend/internal/domain/feed"
)

// XMLParser decodes the merchant feed into domain records. It walks the
// document with a streaming decoder so stats and early-terminating callers
// never materialize the whole product list.
type XMLParser struct {
	// DefaultVendor fills in for products whose marka element is empty.
	DefaultVendor string
}

func NewXMLParser(defaultVendor string) *XMLParser {
	return &XMLParser{DefaultVendor: defaultVendor}
}

var _ feed.Parser = (*XMLParser)(nil)

// Each streams product records to fn until the document ends or fn returns
// false. Re-calling restarts from the beginning.
func (p *XMLParser) Each(data []byte, fn func(feed.Record) bool) ([]feed.ParseWarning, error) {
	var warnings []feed.ParseWarning
	index := 0
	err := p.walk(data, func(xp xmlProduct) bool {
		index++
		rec, recWarnings, ok := p.toRecord(xp, index)
		warnings = append(warnings, recWarnings...)
		if !ok {
			return true
		}
		return fn(rec)
	})
	if err != nil {
		return warnings, err
	}
	return warnings, nil
}

// Parse decodes the whole document.
func (p *XMLParser) Parse(data []byte) ([]feed.Record, []feed.ParseWarning, error) {
	var records []feed.Record
	warnings, err := p.Each(data, func(rec feed.Record) bool {
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, warnings, err
	}
	if len(records) == 0 {
		return nil, warnings, feed.ErrEmptyFeed
	}
	return records, warnings, nil
}

// Stats counts products and variants without building records.
func (p *XMLParser) Stats(data []byte) (feed.Stats, error) {
	var stats feed.Stats
	err := p.walk(data, func(xp xmlProduct) bool {
		stats.ProductCount++
		if n := len(xp.Variants.Items); n > 0 {
			stats.VariantCount += n
		} else {
			stats.VariantCount++
		}
		return true
	})
	return stats, err
}

// walk decodes every <Urun> element and hands it to visit. Returning false
// from visit stops the walk cleanly.
func (p *XMLParser) walk(data []byte, visit func(xmlProduct) bool) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &feed.ParseError{Path: "Urunler", Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Urun" {
			continue
		}
		var xp xmlProduct
		if err := dec.DecodeElement(&xp, &start); err != nil {
			return &feed.ParseError{Path: "Urunler/Urun", Err: err}
		}
		if !visit(xp) {
			return nil
		}
	}
}

func (p *XMLParser) toRecord(xp xmlProduct, index int) (feed.Record, []feed.ParseWarning, bool) {
	path := fmt.Sprintf("Urun[%d]", index)
	if xp.ID != "" {
		path = fmt.Sprintf("Urun[id=%s]", xp.ID)
	}

	var warnings []feed.ParseWarning

	name := strings.TrimSpace(xp.Name)
	if name == "" {
		warnings = append(warnings, feed.ParseWarning{Path: path, Field: "urunismi", Raw: xp.Name})
		return feed.Record{}, warnings, false
	}

	vendor := strings.TrimSpace(xp.Vendor)
	if vendor == "" {
		vendor = p.DefaultVendor
	}

	rec := feed.Record{
		ExternalID:      strings.TrimSpace(xp.ID),
		Name:            name,
		Vendor:          vendor,
		CategoryPath:    strings.TrimSpace(xp.Category),
		SKU:             strings.TrimSpace(xp.SKU),
		Barcode:         strings.TrimSpace(xp.Barcode),
		DescriptionHTML: strings.TrimSpace(xp.Description),
	}
	if rec.ExternalID == "" {
		rec.ExternalID = fmt.Sprintf("urun-%d", index)
	}

	var ok bool
	if rec.BasePrice, ok = feed.ParseDecimal(xp.BasePrice); !ok && strings.TrimSpace(xp.BasePrice) != "" {
		warnings = append(warnings, feed.ParseWarning{Path: path, Field: "satis_fiyati", Raw: xp.BasePrice})
	}
	if rec.SalePrice, ok = feed.ParseDecimal(xp.SalePrice); !ok && strings.TrimSpace(xp.SalePrice) != "" {
		warnings = append(warnings, feed.ParseWarning{Path: path, Field: "indirimli_fiyat", Raw: xp.SalePrice})
	}
	if rec.StockQty, ok = feed.ParseQuantity(xp.Stock); !ok && strings.TrimSpace(xp.Stock) != "" {
		warnings = append(warnings, feed.ParseWarning{Path: path, Field: "stok", Raw: xp.Stock})
	}

	for _, src := range xp.Images.URLs {
		if src = strings.TrimSpace(src); src != "" {
			rec.Images = append(rec.Images, feed.ImageRecord{SourceURL: src})
		}
	}

	for vi, xv := range xp.Variants.Items {
		v := feed.VariantRecord{
			AxisName:   strings.TrimSpace(xv.AxisName),
			AxisValue:  strings.TrimSpace(xv.AxisValue),
			ColorValue: strings.TrimSpace(xv.Color),
			SKU:        strings.TrimSpace(xv.SKU),
			Barcode:    strings.TrimSpace(xv.Barcode),
		}
		if v.StockQty, ok = feed.ParseQuantity(xv.Stock); !ok && strings.TrimSpace(xv.Stock) != "" {
			warnings = append(warnings, feed.ParseWarning{
				Path:  fmt.Sprintf("%s/Varyant[%d]", path, vi+1),
				Field: "stok",
				Raw:   xv.Stock,
			})
		}
		for _, src := range xv.Images.URLs {
			if src = strings.TrimSpace(src); src != "" {
				v.Images = append(v.Images, feed.ImageRecord{SourceURL: src})
			}
		}
		rec.Variants = append(rec.Variants, v)
	}

	return rec, warnings, true
}
