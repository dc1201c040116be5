package shopify

import "strings"

// FieldScope selects which product fields a sync run is allowed to touch.
// The zero value touches nothing; Full() touches everything.
type FieldScope struct {
	Price     bool `json:"price"`
	Inventory bool `json:"inventory"`
	Details   bool `json:"details"`
	Images    bool `json:"images"`
}

// FullScope returns a scope covering every field group.
func FullScope() FieldScope {
	return FieldScope{Price: true, Inventory: true, Details: true, Images: true}
}

// Any reports whether at least one field group is selected.
func (s FieldScope) Any() bool {
	return s.Price || s.Inventory || s.Details || s.Images
}

type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
	ActionSkip   ChangeAction = "skip"
)

// Change is the planned operation for one local product.
type Change struct {
	Action ChangeAction
	// RemoteID is set for update and skip
	RemoteID int64
	// Payload is the request body to send. For updates it is scoped: only
	// the selected field groups are populated, everything else zero so the
	// serializer omits it.
	Payload ProductPayload
	// Reasons lists the field groups that differ, for reporting.
	Reasons []string
}

// Index holds remote products keyed for matching. Build once per run from
// the full remote listing.
type Index struct {
	bySKU    map[string][]*RemoteProduct
	byHandle map[string][]*RemoteProduct
}

// NewIndex builds a matching index over remote products. Matching keys are
// the SKU of every variant and the product handle.
func NewIndex(remotes []RemoteProduct) *Index {
	idx := &Index{
		bySKU:    make(map[string][]*RemoteProduct),
		byHandle: make(map[string][]*RemoteProduct),
	}
	for i := range remotes {
		r := &remotes[i]
		if r.Handle != "" {
			idx.byHandle[r.Handle] = append(idx.byHandle[r.Handle], r)
		}
		for _, v := range r.Variants {
			if v.SKU != "" {
				idx.bySKU[v.SKU] = appendUnique(idx.bySKU[v.SKU], r)
			}
		}
	}
	return idx
}

func appendUnique(list []*RemoteProduct, r *RemoteProduct) []*RemoteProduct {
	for _, existing := range list {
		if existing == r {
			return list
		}
	}
	return append(list, r)
}

// Match resolves the remote counterpart of a local payload. The first
// variant's SKU is the primary key; the handle is the fallback when no SKU
// matches. More than one candidate on the winning key is an
// AmbiguousMatchError. No match at all returns (nil, nil).
func (idx *Index) Match(p ProductPayload) (*RemoteProduct, error) {
	sku := p.FirstSKU()
	if sku != "" {
		if candidates := idx.bySKU[sku]; len(candidates) == 1 {
			return candidates[0], nil
		} else if len(candidates) > 1 {
			return nil, ambiguous(sku, p.Handle, candidates)
		}
	}
	if p.Handle != "" {
		if candidates := idx.byHandle[p.Handle]; len(candidates) == 1 {
			return candidates[0], nil
		} else if len(candidates) > 1 {
			return nil, ambiguous(sku, p.Handle, candidates)
		}
	}
	return nil, nil
}

func ambiguous(sku, handle string, candidates []*RemoteProduct) error {
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return &AmbiguousMatchError{SKU: sku, Handle: handle, RemoteIDs: ids}
}

// Diff plans the operation for one local payload against the remote index.
// Unmatched payloads become creates. Matched payloads become scoped updates
// when any selected field group differs, otherwise skips. Remote products
// never matched by any payload are left untouched.
func (idx *Index) Diff(p ProductPayload, scope FieldScope) (Change, error) {
	remote, err := idx.Match(p)
	if err != nil {
		return Change{}, err
	}
	if remote == nil {
		return Change{Action: ActionCreate, Payload: p}, nil
	}

	reasons := changedGroups(p, remote, scope)
	if len(reasons) == 0 {
		return Change{Action: ActionSkip, RemoteID: remote.ID}, nil
	}
	return Change{
		Action:   ActionUpdate,
		RemoteID: remote.ID,
		Payload:  scopedPayload(p, remote, scope),
		Reasons:  reasons,
	}, nil
}

func changedGroups(p ProductPayload, r *RemoteProduct, scope FieldScope) []string {
	var reasons []string
	if scope.Price && priceChanged(p, r) {
		reasons = append(reasons, "price")
	}
	if scope.Inventory && inventoryChanged(p, r) {
		reasons = append(reasons, "inventory")
	}
	if scope.Details && detailsChanged(p, r) {
		reasons = append(reasons, "details")
	}
	if scope.Images && imagesChanged(p, r) {
		reasons = append(reasons, "images")
	}
	return reasons
}

func priceChanged(p ProductPayload, r *RemoteProduct) bool {
	for _, v := range p.Variants {
		rv := r.VariantBySKU(v.SKU)
		if rv == nil {
			return true
		}
		if v.Price != rv.Price || v.CompareAtPrice != rv.CompareAtPrice {
			return true
		}
	}
	return false
}

func inventoryChanged(p ProductPayload, r *RemoteProduct) bool {
	for _, v := range p.Variants {
		rv := r.VariantBySKU(v.SKU)
		if rv == nil {
			return true
		}
		if v.InventoryQuantity != nil && *v.InventoryQuantity != rv.InventoryQuantity {
			return true
		}
	}
	return false
}

func detailsChanged(p ProductPayload, r *RemoteProduct) bool {
	if p.Title != r.Title {
		return true
	}
	if p.Tags != "" && p.Tags != r.Tags {
		return true
	}
	if len(p.Variants) != len(r.Variants) {
		return true
	}
	for _, v := range p.Variants {
		rv := r.VariantBySKU(v.SKU)
		if rv == nil {
			return true
		}
		if v.Title != rv.Title || v.Barcode != rv.Barcode {
			return true
		}
	}
	return false
}

func imagesChanged(p ProductPayload, r *RemoteProduct) bool {
	if len(p.Images) != len(r.Images) {
		return true
	}
	remoteSrcs := make(map[string]bool, len(r.Images))
	for _, img := range r.Images {
		remoteSrcs[normalizeSrc(img.Src)] = true
	}
	for _, img := range p.Images {
		if !remoteSrcs[normalizeSrc(img.Src)] {
			return true
		}
	}
	return false
}

// normalizeSrc strips the CDN query string so re-hosted copies of the same
// source image compare equal.
func normalizeSrc(src string) string {
	if i := strings.IndexByte(src, '?'); i >= 0 {
		return src[:i]
	}
	return src
}

// scopedPayload builds an update body containing only the selected field
// groups. Variant identity is carried by remote variant IDs where the SKU
// is known so the update patches in place instead of replacing.
func scopedPayload(p ProductPayload, r *RemoteProduct, scope FieldScope) ProductPayload {
	out := ProductPayload{ID: r.ID}

	if scope.Details {
		out.Title = p.Title
		out.BodyHTML = p.BodyHTML
		out.Vendor = p.Vendor
		out.ProductType = p.ProductType
		out.Tags = p.Tags
		out.Status = p.Status
		out.Options = p.Options
	}
	if scope.Images {
		out.Images = p.Images
	}
	if scope.Price || scope.Inventory || scope.Details {
		out.Variants = scopedVariants(p, r, scope)
	}
	return out
}

func scopedVariants(p ProductPayload, r *RemoteProduct, scope FieldScope) []VariantPayload {
	variants := make([]VariantPayload, 0, len(p.Variants))
	for _, v := range p.Variants {
		sv := VariantPayload{SKU: v.SKU}
		if rv := r.VariantBySKU(v.SKU); rv != nil {
			sv.ID = rv.ID
		}
		if scope.Price {
			sv.Price = v.Price
			sv.CompareAtPrice = v.CompareAtPrice
		}
		if scope.Inventory {
			sv.InventoryQuantity = v.InventoryQuantity
			sv.InventoryManagement = v.InventoryManagement
			sv.InventoryPolicy = v.InventoryPolicy
		}
		if scope.Details {
			sv.Title = v.Title
			sv.Barcode = v.Barcode
			sv.Option1 = v.Option1
			sv.Option2 = v.Option2
			sv.Option3 = v.Option3
		}
		variants = append(variants, sv)
	}
	return variants
}
