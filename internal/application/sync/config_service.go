package sync

import (
	"context"

	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

// ConfigService manages the stored global credential record.
type ConfigService struct {
	store syncdomain.ConfigStore
}

func NewConfigService(store syncdomain.ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Get returns the stored record, or nil when none was saved yet.
func (s *ConfigService) Get(ctx context.Context) (*syncdomain.Config, error) {
	return s.store.Get(ctx)
}

// Save normalizes and persists the record. Saved values take precedence
// over request headers and environment for every later run.
func (s *ConfigService) Save(ctx context.Context, cfg syncdomain.Config) error {
	cfg.StoreURL = syncdomain.NormalizeStoreURL(cfg.StoreURL)
	return s.store.Save(ctx, cfg)
}
