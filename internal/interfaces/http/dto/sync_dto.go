package dto

import syncdomain "github.com/feedsync/backend/internal/domain/sync"

// SyncOptionsRequest selects what a run touches. Field-group flags combine;
// full (or no flag at all) selects everything.
type SyncOptionsRequest struct {
	TestMode    bool `json:"testMode"`
	MaxProducts int  `json:"maxProducts"`
	Full        bool `json:"full"`
	Price       bool `json:"price"`
	Inventory   bool `json:"inventory"`
	Details     bool `json:"details"`
	Images      bool `json:"images"`
	// Aliases kept for callers of the original API
	SyncImages    bool `json:"syncImages"`
	SyncInventory bool `json:"syncInventory"`
}

// SyncRequest is the POST /sync body
type SyncRequest struct {
	Options SyncOptionsRequest `json:"options"`
}

// ToOptions converts the request flags into run options.
func (r SyncRequest) ToOptions() syncdomain.Options {
	o := r.Options
	opts := syncdomain.Options{
		TestMode:    o.TestMode,
		MaxProducts: o.MaxProducts,
	}
	if !o.Full {
		opts.Scope.Price = o.Price
		opts.Scope.Inventory = o.Inventory || o.SyncInventory
		opts.Scope.Details = o.Details
		opts.Scope.Images = o.Images || o.SyncImages
	}
	return opts.Normalize()
}

// SyncResponse is the POST /sync response for completed and failed runs
type SyncResponse struct {
	Success        bool      `json:"success"`
	ProcessedCount int       `json:"processedCount"`
	CreatedCount   int       `json:"createdCount"`
	UpdatedCount   int       `json:"updatedCount"`
	ErrorCount     int       `json:"errorCount"`
	Message        string    `json:"message"`
	Debug          SyncDebug `json:"debug"`
}

// SyncDebug carries run diagnostics
type SyncDebug struct {
	XMLProductCount int                    `json:"xmlProductCount"`
	XMLVariantCount int                    `json:"xmlVariantCount"`
	SkippedCount    int                    `json:"skippedCount"`
	DurationSeconds float64                `json:"durationSeconds"`
	PerItemErrors   []syncdomain.ItemError `json:"perItemErrors,omitempty"`
	Warnings        []string               `json:"warnings,omitempty"`
}

// NewSyncResponse builds the response from a run report.
func NewSyncResponse(report *syncdomain.Report, message string) SyncResponse {
	return SyncResponse{
		Success:        report.Succeeded(),
		ProcessedCount: report.Processed,
		CreatedCount:   report.Created,
		UpdatedCount:   report.Updated,
		ErrorCount:     report.Failed,
		Message:        message,
		Debug: SyncDebug{
			XMLProductCount: report.FeedProducts,
			XMLVariantCount: report.FeedVariants,
			SkippedCount:    report.Skipped,
			DurationSeconds: report.Duration().Seconds(),
			PerItemErrors:   report.Errors,
			Warnings:        report.Warnings,
		},
	}
}

// ConfigMissingResponse is the POST /sync 400 body when credentials are
// incomplete. It never echoes secret values.
type ConfigMissingResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Debug   ConfigDebugReport `json:"debug"`
}

// ConfigDebugReport describes what resolved and from where
type ConfigDebugReport struct {
	ConfigSource syncdomain.SourceFlags `json:"configSource"`
	HasStoreURL  bool                   `json:"hasStoreUrl"`
	HasToken     bool                   `json:"hasToken"`
	HasFeedURL   bool                   `json:"hasFeedUrl"`
}

// NewConfigMissingResponse builds the 400 body from the typed error.
func NewConfigMissingResponse(err *syncdomain.ConfigMissingError) ConfigMissingResponse {
	return ConfigMissingResponse{
		Success: false,
		Message: err.Error(),
		Debug: ConfigDebugReport{
			ConfigSource: err.ConfigSource,
			HasStoreURL:  err.HasStoreURL,
			HasToken:     err.HasToken,
			HasFeedURL:   err.HasFeedURL,
		},
	}
}

// ConfigRequest is the POST /config body
type ConfigRequest struct {
	ShopifyURL        string `json:"shopifyUrl" binding:"required"`
	ShopifyAdminToken string `json:"shopifyAdminToken" binding:"required"`
	XMLURL            string `json:"xmlUrl" binding:"required"`
}

// ConfigResponse is the GET /config body. The admin token is masked.
type ConfigResponse struct {
	ShopifyURL        string `json:"shopifyUrl"`
	ShopifyAdminToken string `json:"shopifyAdminToken"`
	XMLURL            string `json:"xmlUrl"`
}

// MaskedToken is returned in place of a stored admin token
const MaskedToken = "********"

// StatsResponse is the GET /xml/stats body
type StatsResponse struct {
	Success      bool       `json:"success"`
	ProductCount int        `json:"productCount"`
	VariantCount int        `json:"variantCount"`
	Error        string     `json:"error,omitempty"`
	Debug        StatsDebug `json:"debug"`
}

// StatsDebug carries stats diagnostics
type StatsDebug struct {
	ParseMethod string `json:"parseMethod"`
	Cached      bool   `json:"cached"`
}

// ShopInfoResponse is the GET /shopify/info body
type ShopInfoResponse struct {
	Connected    bool   `json:"connected"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	ProductCount int64  `json:"productCount,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RunSummaryResponse is one entry of the GET /sync/summary body
type RunSummaryResponse struct {
	RunID           string  `json:"runId"`
	Mode            string  `json:"mode"`
	State           string  `json:"state"`
	StartedAt       string  `json:"startedAt"`
	DurationSeconds float64 `json:"durationSeconds"`
	ProcessedCount  int     `json:"processedCount"`
	CreatedCount    int     `json:"createdCount"`
	UpdatedCount    int     `json:"updatedCount"`
	SkippedCount    int     `json:"skippedCount"`
	ErrorCount      int     `json:"errorCount"`
	AbortReason     string  `json:"abortReason,omitempty"`
}
