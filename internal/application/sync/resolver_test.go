package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

type fakeConfigStore struct {
	cfg *syncdomain.Config
	err error
}

func (s *fakeConfigStore) Get(ctx context.Context) (*syncdomain.Config, error) {
	return s.cfg, s.err
}

func (s *fakeConfigStore) Save(ctx context.Context, cfg syncdomain.Config) error {
	s.cfg = &cfg
	return nil
}

func TestConfigResolver(t *testing.T) {
	env := EnvCredentials{
		StoreURL:   "env.myshopify.com",
		AdminToken: "env-token",
		FeedURL:    "https://env.example.com/feed.xml",
	}

	t.Run("stored record wins over headers and env", func(t *testing.T) {
		store := &fakeConfigStore{cfg: &syncdomain.Config{
			StoreURL:   "https://stored.myshopify.com",
			AdminToken: "stored-token",
			FeedURL:    "https://stored.example.com/feed.xml",
		}}
		r := NewConfigResolver(store, env)

		cfg, flags, err := r.Resolve(context.Background(), HeaderCredentials{
			StoreURL:   "header.myshopify.com",
			AdminToken: "header-token",
		})
		require.NoError(t, err)
		assert.Equal(t, "stored.myshopify.com", cfg.StoreURL)
		assert.Equal(t, "stored-token", cfg.AdminToken)
		assert.True(t, flags.FromGlobalConfig)
		assert.False(t, flags.FromHeaders)
		assert.False(t, flags.FromEnv)
	})

	t.Run("complete header pair wins over env", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{}, env)

		cfg, flags, err := r.Resolve(context.Background(), HeaderCredentials{
			StoreURL:   "header.myshopify.com",
			AdminToken: "header-token",
		})
		require.NoError(t, err)
		assert.Equal(t, "header.myshopify.com", cfg.StoreURL)
		assert.Equal(t, "header-token", cfg.AdminToken)
		assert.True(t, flags.FromHeaders)
	})

	t.Run("credential pair never mixes across sources", func(t *testing.T) {
		store := &fakeConfigStore{cfg: &syncdomain.Config{StoreURL: "stored.myshopify.com"}}
		r := NewConfigResolver(store, env)

		// The stored record holds only a store URL; the headers carry a
		// complete pair, so the header pair wins outright.
		cfg, flags, err := r.Resolve(context.Background(), HeaderCredentials{
			StoreURL:   "header.myshopify.com",
			AdminToken: "header-token",
		})
		require.NoError(t, err)
		assert.Equal(t, "header.myshopify.com", cfg.StoreURL)
		assert.Equal(t, "header-token", cfg.AdminToken)
		assert.True(t, flags.FromHeaders)
		assert.False(t, flags.FromGlobalConfig)
	})

	t.Run("incomplete header pair falls through to env entirely", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{}, env)

		cfg, flags, err := r.Resolve(context.Background(), HeaderCredentials{
			StoreURL: "header.myshopify.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "env.myshopify.com", cfg.StoreURL)
		assert.Equal(t, "env-token", cfg.AdminToken)
		assert.True(t, flags.FromEnv)
		assert.False(t, flags.FromHeaders)
	})

	t.Run("feed URL falls through per source", func(t *testing.T) {
		store := &fakeConfigStore{cfg: &syncdomain.Config{FeedURL: "https://stored.example.com/feed.xml"}}
		r := NewConfigResolver(store, env)

		cfg, flags, err := r.Resolve(context.Background(), HeaderCredentials{})
		require.NoError(t, err)
		assert.Equal(t, "https://stored.example.com/feed.xml", cfg.FeedURL)
		assert.Equal(t, "env.myshopify.com", cfg.StoreURL)
		assert.Equal(t, "env-token", cfg.AdminToken)
		assert.True(t, flags.FromGlobalConfig)
		assert.True(t, flags.FromEnv)
	})

	t.Run("store URL is normalized", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{}, EnvCredentials{StoreURL: "https://shop.myshopify.com/"})
		cfg, _, err := r.Resolve(context.Background(), HeaderCredentials{})
		require.NoError(t, err)
		assert.Equal(t, "shop.myshopify.com", cfg.StoreURL)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{err: errors.New("db down")}, env)
		_, _, err := r.Resolve(context.Background(), HeaderCredentials{})
		assert.Error(t, err)
	})

	t.Run("ResolveComplete reports missing fields", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{}, EnvCredentials{StoreURL: "shop.myshopify.com"})
		_, _, err := r.ResolveComplete(context.Background(), HeaderCredentials{})

		var missing *syncdomain.ConfigMissingError
		require.ErrorAs(t, err, &missing)
		assert.True(t, missing.HasStoreURL)
		assert.False(t, missing.HasToken)
		assert.ElementsMatch(t, []string{"adminToken", "feedUrl"}, missing.Missing)
	})

	t.Run("ResolveComplete passes when complete", func(t *testing.T) {
		r := NewConfigResolver(&fakeConfigStore{}, env)
		cfg, _, err := r.ResolveComplete(context.Background(), HeaderCredentials{})
		require.NoError(t, err)
		assert.True(t, cfg.Complete())
	})
}
