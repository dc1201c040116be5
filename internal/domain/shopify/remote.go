package shopify

// RemoteProduct mirrors a product already present in the remote catalog.
// The orchestrator fetches these once at run start and treats them as
// read-only for the duration of the run. JSON tags follow the Admin REST
// wire shape.
type RemoteProduct struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Handle   string          `json:"handle"`
	Status   string          `json:"status"`
	Tags     string          `json:"tags"`
	Variants []RemoteVariant `json:"variants"`
	Images   []RemoteImage   `json:"images"`
}

// RemoteVariant is a variant of a remote product.
type RemoteVariant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// RemoteImage is an image of a remote product.
type RemoteImage struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
}

// FirstSKU returns the SKU of the first remote variant.
func (r *RemoteProduct) FirstSKU() string {
	if len(r.Variants) == 0 {
		return ""
	}
	return r.Variants[0].SKU
}

// VariantBySKU returns the remote variant with the given SKU, or nil.
func (r *RemoteProduct) VariantBySKU(sku string) *RemoteVariant {
	if sku == "" {
		return nil
	}
	for i := range r.Variants {
		if r.Variants[i].SKU == sku {
			return &r.Variants[i]
		}
	}
	return nil
}

// ShopInfo describes the connected store, used by the connectivity probe.
type ShopInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Domain       string `json:"domain"`
	ProductCount int64  `json:"productCount"`
}
