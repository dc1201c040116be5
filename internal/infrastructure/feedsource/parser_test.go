package feedsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedsync/backend/internal/domain/feed"
)

const sampleFeed = `<?xml version="1.0" encoding="utf-8"?>
<Urunler>
  <Urun>
    <id>12345</id>
    <urunismi>Büyük Beden Siyah Pantolon</urunismi>
    <kategori_ismi>Giyim&gt;Büyük Beden&gt;Alt Giyim&gt;Pantolon</kategori_ismi>
    <detayaciklama>&lt;p&gt;Rahat kesim&lt;/p&gt;</detayaciklama>
    <satis_fiyati>190,00</satis_fiyati>
    <indirimli_fiyat>150,00</indirimli_fiyat>
    <stok>14</stok>
    <stok_kodu>PNT-BASE</stok_kodu>
    <barkod>8690000000017</barkod>
    <resimler>
      <resim>https://cdn.example.com/pnt-1.jpg</resim>
      <resim>https://cdn.example.com/pnt-2.jpg</resim>
    </resimler>
    <Varyantlar>
      <Varyant>
        <Varyant_isim>Beden</Varyant_isim>
        <Varyant_deger>48</Varyant_deger>
        <renk>Siyah</renk>
        <stok_kodu>PNT-48-S</stok_kodu>
        <barkod>8690000000018</barkod>
        <stok>10</stok>
        <resimler>
          <resim>https://cdn.example.com/pnt-48.jpg</resim>
        </resimler>
      </Varyant>
      <Varyant>
        <Varyant_isim>Beden</Varyant_isim>
        <Varyant_deger>50</Varyant_deger>
        <renk>Siyah</renk>
        <stok_kodu>PNT-50-S</stok_kodu>
        <stok>4</stok>
      </Varyant>
    </Varyantlar>
  </Urun>
  <Urun>
    <id>67890</id>
    <urunismi>Tekli Bardak</urunismi>
    <kategori_ismi>Ev/Mutfak</kategori_ismi>
    <satis_fiyati>1.250,99</satis_fiyati>
    <stok>3</stok>
    <stok_kodu>BRD-1</stok_kodu>
  </Urun>
</Urunler>`

func TestXMLParserParse(t *testing.T) {
	p := NewXMLParser("Vervegrand")

	t.Run("decodes products and variants", func(t *testing.T) {
		records, warnings, err := p.Parse([]byte(sampleFeed))
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, records, 2)

		r := records[0]
		assert.Equal(t, "12345", r.ExternalID)
		assert.Equal(t, "Büyük Beden Siyah Pantolon", r.Name)
		assert.Equal(t, "Vervegrand", r.Vendor)
		assert.Equal(t, "Giyim>Büyük Beden>Alt Giyim>Pantolon", r.CategoryPath)
		assert.Equal(t, "<p>Rahat kesim</p>", r.DescriptionHTML)
		assert.Equal(t, "190", r.BasePrice.String())
		assert.Equal(t, "150", r.SalePrice.String())
		assert.Equal(t, 14, r.StockQty)
		assert.Equal(t, "PNT-BASE", r.SKU)
		require.Len(t, r.Images, 2)
		assert.Equal(t, "https://cdn.example.com/pnt-1.jpg", r.Images[0].SourceURL)

		require.Len(t, r.Variants, 2)
		v := r.Variants[0]
		assert.Equal(t, "Beden", v.AxisName)
		assert.Equal(t, "48", v.AxisValue)
		assert.Equal(t, "Siyah", v.ColorValue)
		assert.Equal(t, "PNT-48-S", v.SKU)
		assert.Equal(t, 10, v.StockQty)
		require.Len(t, v.Images, 1)

		assert.Equal(t, "1250.99", records[1].BasePrice.String())
		assert.Empty(t, records[1].Variants)
	})

	t.Run("empty document is an error", func(t *testing.T) {
		_, _, err := p.Parse([]byte(`<Urunler></Urunler>`))
		assert.ErrorIs(t, err, feed.ErrEmptyFeed)
	})

	t.Run("malformed document is a parse error", func(t *testing.T) {
		_, _, err := p.Parse([]byte(`<Urunler><Urun><id>1</id>`))
		var parseErr *feed.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("skips nameless product with warning", func(t *testing.T) {
		doc := `<Urunler>
  <Urun><id>1</id><urunismi></urunismi></Urun>
  <Urun><id>2</id><urunismi>Gecerli</urunismi></Urun>
</Urunler>`
		records, warnings, err := p.Parse([]byte(doc))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2", records[0].ExternalID)
		require.Len(t, warnings, 1)
		assert.Equal(t, "urunismi", warnings[0].Field)
		assert.Equal(t, "Urun[id=1]", warnings[0].Path)
	})

	t.Run("synthesizes external ID when missing", func(t *testing.T) {
		doc := `<Urunler><Urun><urunismi>IDsiz</urunismi></Urun></Urunler>`
		records, _, err := p.Parse([]byte(doc))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "urun-1", records[0].ExternalID)
	})

	t.Run("reads per-product brand with default fallback", func(t *testing.T) {
		doc := `<Urunler>
  <Urun><id>1</id><urunismi>Markali</urunismi><marka>Stil Diva</marka></Urun>
  <Urun><id>2</id><urunismi>Markasiz</urunismi><marka></marka></Urun>
</Urunler>`
		records, _, err := p.Parse([]byte(doc))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Stil Diva", records[0].Vendor)
		assert.Equal(t, "Vervegrand", records[1].Vendor)
	})

	t.Run("warns on unparseable price and keeps zero", func(t *testing.T) {
		doc := `<Urunler><Urun><id>9</id><urunismi>Fiyatsiz</urunismi><satis_fiyati>yok</satis_fiyati></Urun></Urunler>`
		records, warnings, err := p.Parse([]byte(doc))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].BasePrice.IsZero())
		require.Len(t, warnings, 1)
		assert.Equal(t, "satis_fiyati", warnings[0].Field)
		assert.Equal(t, "yok", warnings[0].Raw)
	})
}

func TestXMLParserEach(t *testing.T) {
	p := NewXMLParser("Vervegrand")

	t.Run("stops early when fn returns false", func(t *testing.T) {
		var seen int
		_, err := p.Each([]byte(sampleFeed), func(feed.Record) bool {
			seen++
			return false
		})
		require.NoError(t, err)
		assert.Equal(t, 1, seen)
	})

	t.Run("restarts from the beginning on each call", func(t *testing.T) {
		count := func() int {
			var n int
			_, err := p.Each([]byte(sampleFeed), func(feed.Record) bool {
				n++
				return true
			})
			require.NoError(t, err)
			return n
		}
		assert.Equal(t, 2, count())
		assert.Equal(t, 2, count())
	})
}

func TestXMLParserStats(t *testing.T) {
	p := NewXMLParser("Vervegrand")

	t.Run("counts products and variants", func(t *testing.T) {
		stats, err := p.Stats([]byte(sampleFeed))
		require.NoError(t, err)
		assert.Equal(t, 2, stats.ProductCount)
		// variant-less product counts as one variant
		assert.Equal(t, 3, stats.VariantCount)
	})

	t.Run("empty document yields zero counts without error", func(t *testing.T) {
		stats, err := p.Stats([]byte(`<Urunler></Urunler>`))
		require.NoError(t, err)
		assert.Equal(t, 0, stats.ProductCount)
	})
}
