package feedsource

// Wire schema of the merchant XML feed. Every repeatable element is decoded
// into a slice so single-item and multi-item documents read identically.

type xmlImages struct {
	URLs []string `xml:"resim"`
}

type xmlVariant struct {
	AxisName  string    `xml:"Varyant_isim"`
	AxisValue string    `xml:"Varyant_deger"`
	Color     string    `xml:"renk"`
	SKU       string    `xml:"stok_kodu"`
	Barcode   string    `xml:"barkod"`
	Stock     string    `xml:"stok"`
	Images    xmlImages `xml:"resimler"`
}

type xmlVariants struct {
	Items []xmlVariant `xml:"Varyant"`
}

type xmlProduct struct {
	ID          string      `xml:"id"`
	Name        string      `xml:"urunismi"`
	Vendor      string      `xml:"marka"`
	Category    string      `xml:"kategori_ismi"`
	Description string      `xml:"detayaciklama"`
	BasePrice   string      `xml:"satis_fiyati"`
	SalePrice   string      `xml:"indirimli_fiyat"`
	Stock       string      `xml:"stok"`
	SKU         string      `xml:"stok_kodu"`
	Barcode     string      `xml:"barkod"`
	Variants    xmlVariants `xml:"Varyantlar"`
	Images      xmlImages   `xml:"resimler"`
}
