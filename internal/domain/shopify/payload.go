package shopify

// Payload types mirror the Shopify Admin REST product schema. Field order
// and formatting are deterministic so that mapping the same product twice
// yields byte-identical JSON.

// ProductPayload is the product body for create/update calls.
type ProductPayload struct {
	ID              int64            `json:"id,omitempty"`
	Title           string           `json:"title,omitempty"`
	BodyHTML        string           `json:"body_html,omitempty"`
	Vendor          string           `json:"vendor,omitempty"`
	ProductType     string           `json:"product_type,omitempty"`
	Handle          string           `json:"handle,omitempty"`
	Status          string           `json:"status,omitempty"`
	Tags            string           `json:"tags,omitempty"`
	Options         []OptionPayload  `json:"options,omitempty"`
	Variants        []VariantPayload `json:"variants,omitempty"`
	Images          []ImagePayload   `json:"images,omitempty"`
}

// FirstSKU returns the first non-empty variant SKU, the identity used for
// matching and duplicate detection.
func (p ProductPayload) FirstSKU() string {
	for _, v := range p.Variants {
		if v.SKU != "" {
			return v.SKU
		}
	}
	return ""
}

// OptionPayload is one product option axis.
type OptionPayload struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantPayload is one product variant.
type VariantPayload struct {
	ID                  int64  `json:"id,omitempty"`
	Title               string `json:"title,omitempty"`
	Price               string `json:"price,omitempty"`
	CompareAtPrice      string `json:"compare_at_price,omitempty"`
	SKU                 string `json:"sku,omitempty"`
	Barcode             string `json:"barcode,omitempty"`
	InventoryQuantity   *int   `json:"inventory_quantity,omitempty"`
	InventoryManagement string `json:"inventory_management,omitempty"`
	InventoryPolicy     string `json:"inventory_policy,omitempty"`
	Option1             string `json:"option1,omitempty"`
	Option2             string `json:"option2,omitempty"`
	Option3             string `json:"option3,omitempty"`
}

// ImagePayload is one product image.
type ImagePayload struct {
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position,omitempty"`
}
