package sync

import (
	"fmt"
	"strings"
)

// Config is the resolved, immutable per-run configuration. Once a run
// starts it never observes credential changes.
type Config struct {
	StoreURL   string `json:"storeUrl"`
	AdminToken string `json:"-"`
	FeedURL    string `json:"feedUrl"`
}

// SourceFlags records where each resolved value came from, for the config
// debug endpoint. A value resolved from a higher-precedence source masks
// every lower one.
type SourceFlags struct {
	FromGlobalConfig bool `json:"fromGlobalConfig"`
	FromHeaders      bool `json:"fromHeaders"`
	FromEnv          bool `json:"fromEnv"`
}

// Complete reports whether every required credential is present.
func (c Config) Complete() bool {
	return c.StoreURL != "" && c.AdminToken != "" && c.FeedURL != ""
}

// MissingFields lists the required fields that are still empty.
func (c Config) MissingFields() []string {
	var missing []string
	if c.StoreURL == "" {
		missing = append(missing, "storeUrl")
	}
	if c.AdminToken == "" {
		missing = append(missing, "adminToken")
	}
	if c.FeedURL == "" {
		missing = append(missing, "feedUrl")
	}
	return missing
}

// NormalizeStoreURL canonicalizes a store URL to the bare
// "name.myshopify.com" host form accepted by the Admin API client.
func NormalizeStoreURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	return s
}

// ConfigMissingError carries an introspectable description of what was
// resolved and from where, so callers can debug their setup without the
// server ever echoing secret values.
type ConfigMissingError struct {
	Missing      []string    `json:"missing"`
	ConfigSource SourceFlags `json:"configSource"`
	HasStoreURL  bool        `json:"hasStoreUrl"`
	HasToken     bool        `json:"hasToken"`
	HasFeedURL   bool        `json:"hasFeedUrl"`
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("sync: missing configuration: %s", strings.Join(e.Missing, ", "))
}

// NewConfigMissingError builds the error from the resolved config and its
// source flags.
func NewConfigMissingError(c Config, src SourceFlags) *ConfigMissingError {
	return &ConfigMissingError{
		Missing:      c.MissingFields(),
		ConfigSource: src,
		HasStoreURL:  c.StoreURL != "",
		HasToken:     c.AdminToken != "",
		HasFeedURL:   c.FeedURL != "",
	}
}
