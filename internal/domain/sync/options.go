package sync

import (
	"strings"

	"github.com/feedsync/backend/internal/domain/shopify"
)

// Mode labels which field groups a run updates on matched products. It is
// derived from the run's field scope, for reporting.
type Mode string

const ModeFull Mode = "full"

// Options are the per-run knobs supplied by the caller.
type Options struct {
	// Scope selects the field groups updates may touch. A zero scope is
	// normalized to the full scope.
	Scope shopify.FieldScope `json:"scope"`
	// TestMode caps the run to a single product for a safe dry pass.
	TestMode bool `json:"testMode"`
	// MaxProducts caps how many feed products the run processes.
	// Zero means no cap.
	MaxProducts int `json:"maxProducts"`
	// Workers overrides the concurrent upsert worker count. Zero uses
	// the server default.
	Workers int `json:"workers"`
}

// Mode derives the reporting label for the scope.
func (o Options) Mode() Mode {
	if o.Scope == shopify.FullScope() {
		return ModeFull
	}
	var groups []string
	if o.Scope.Price {
		groups = append(groups, "price")
	}
	if o.Scope.Inventory {
		groups = append(groups, "inventory")
	}
	if o.Scope.Details {
		groups = append(groups, "details")
	}
	if o.Scope.Images {
		groups = append(groups, "images")
	}
	if len(groups) == 0 {
		return ModeFull
	}
	return Mode(strings.Join(groups, "+"))
}

// EffectiveLimit resolves the product cap. Test mode always wins and caps
// the run to one product.
func (o Options) EffectiveLimit() int {
	if o.TestMode {
		return 1
	}
	return o.MaxProducts
}

// Normalize fills defaults for zero-valued fields.
func (o Options) Normalize() Options {
	if !o.Scope.Any() {
		o.Scope = shopify.FullScope()
	}
	return o
}
