package sync

import (
	"context"

	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

// EnvCredentials are the credential values loaded from server configuration
// (environment variables or config file). They sit at the bottom of the
// resolution order.
type EnvCredentials struct {
	StoreURL   string
	AdminToken string
	FeedURL    string
}

// HeaderCredentials are per-request credential overrides.
type HeaderCredentials struct {
	StoreURL   string
	AdminToken string
	FeedURL    string
}

// ConfigResolver resolves the effective credentials for a run. Sources are
// tried in order: stored global record, then request headers, then
// environment. The store URL and admin token are taken together from the
// first source carrying both; only the feed URL falls through per field.
type ConfigResolver struct {
	store syncdomain.ConfigStore
	env   EnvCredentials
}

func NewConfigResolver(store syncdomain.ConfigStore, env EnvCredentials) *ConfigResolver {
	return &ConfigResolver{store: store, env: env}
}

// Resolve builds the immutable per-run config and records which source
// supplied each value. It does not validate completeness; callers decide
// whether missing fields are fatal.
func (r *ConfigResolver) Resolve(ctx context.Context, headers HeaderCredentials) (syncdomain.Config, syncdomain.SourceFlags, error) {
	var stored syncdomain.Config
	if r.store != nil {
		record, err := r.store.Get(ctx)
		if err != nil {
			return syncdomain.Config{}, syncdomain.SourceFlags{}, err
		}
		if record != nil {
			stored = *record
		}
	}

	sources := []struct {
		storeURL, token string
		mark            func(*syncdomain.SourceFlags)
	}{
		{stored.StoreURL, stored.AdminToken, func(f *syncdomain.SourceFlags) { f.FromGlobalConfig = true }},
		{headers.StoreURL, headers.AdminToken, func(f *syncdomain.SourceFlags) { f.FromHeaders = true }},
		{r.env.StoreURL, r.env.AdminToken, func(f *syncdomain.SourceFlags) { f.FromEnv = true }},
	}

	var cfg syncdomain.Config
	var flags syncdomain.SourceFlags

	// The store URL and admin token move as a pair: the first source
	// carrying both wins outright and lower sources never fill the gaps.
	chosen := -1
	for i, s := range sources {
		if s.storeURL != "" && s.token != "" {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		// No complete pair anywhere. Take the first source holding either
		// field, still unmixed, so the missing-field report names a source.
		for i, s := range sources {
			if s.storeURL != "" || s.token != "" {
				chosen = i
				break
			}
		}
	}
	if chosen >= 0 {
		cfg.StoreURL = sources[chosen].storeURL
		cfg.AdminToken = sources[chosen].token
		sources[chosen].mark(&flags)
	}

	cfg.FeedURL = pickFeedURL(stored.FeedURL, headers.FeedURL, r.env.FeedURL, &flags)
	cfg.StoreURL = syncdomain.NormalizeStoreURL(cfg.StoreURL)
	return cfg, flags, nil
}

// ResolveComplete resolves and requires every field. Missing fields yield a
// ConfigMissingError describing what resolved from where.
func (r *ConfigResolver) ResolveComplete(ctx context.Context, headers HeaderCredentials) (syncdomain.Config, syncdomain.SourceFlags, error) {
	cfg, flags, err := r.Resolve(ctx, headers)
	if err != nil {
		return syncdomain.Config{}, syncdomain.SourceFlags{}, err
	}
	if !cfg.Complete() {
		return syncdomain.Config{}, flags, syncdomain.NewConfigMissingError(cfg, flags)
	}
	return cfg, flags, nil
}

func pickFeedURL(stored, header, env string, flags *syncdomain.SourceFlags) string {
	switch {
	case stored != "":
		flags.FromGlobalConfig = true
		return stored
	case header != "":
		flags.FromHeaders = true
		return header
	case env != "":
		flags.FromEnv = true
		return env
	default:
		return ""
	}
}
