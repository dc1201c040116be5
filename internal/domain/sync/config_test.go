package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStoreURL(t *testing.T) {
	t.Run("strips https scheme", func(t *testing.T) {
		assert.Equal(t, "shop.myshopify.com", NormalizeStoreURL("https://shop.myshopify.com"))
	})

	t.Run("strips http scheme", func(t *testing.T) {
		assert.Equal(t, "shop.myshopify.com", NormalizeStoreURL("http://shop.myshopify.com"))
	})

	t.Run("strips trailing slash", func(t *testing.T) {
		assert.Equal(t, "shop.myshopify.com", NormalizeStoreURL("https://shop.myshopify.com/"))
	})

	t.Run("leaves bare host alone", func(t *testing.T) {
		assert.Equal(t, "shop.myshopify.com", NormalizeStoreURL("shop.myshopify.com"))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "shop.myshopify.com", NormalizeStoreURL("  shop.myshopify.com  "))
	})
}

func TestConfigComplete(t *testing.T) {
	t.Run("complete with all fields", func(t *testing.T) {
		c := Config{StoreURL: "s", AdminToken: "t", FeedURL: "f"}
		assert.True(t, c.Complete())
		assert.Empty(t, c.MissingFields())
	})

	t.Run("lists missing fields", func(t *testing.T) {
		c := Config{StoreURL: "s"}
		assert.False(t, c.Complete())
		assert.Equal(t, []string{"adminToken", "feedUrl"}, c.MissingFields())
	})
}

func TestConfigMissingError(t *testing.T) {
	c := Config{StoreURL: "shop.myshopify.com"}
	src := SourceFlags{FromHeaders: true}
	err := NewConfigMissingError(c, src)

	require.NotNil(t, err)
	assert.True(t, err.HasStoreURL)
	assert.False(t, err.HasToken)
	assert.False(t, err.HasFeedURL)
	assert.True(t, err.ConfigSource.FromHeaders)
	assert.Contains(t, err.Error(), "adminToken")
	assert.Contains(t, err.Error(), "feedUrl")
}

func TestOptions(t *testing.T) {
	t.Run("zero scope normalizes to full", func(t *testing.T) {
		o := Options{}.Normalize()
		assert.True(t, o.Scope.Price)
		assert.True(t, o.Scope.Images)
		assert.Equal(t, ModeFull, o.Mode())
	})

	t.Run("partial scope derives joined mode label", func(t *testing.T) {
		o := Options{}
		o.Scope.Price = true
		o.Scope.Inventory = true
		assert.Equal(t, Mode("price+inventory"), o.Mode())
	})

	t.Run("test mode caps run to one product", func(t *testing.T) {
		o := Options{TestMode: true, MaxProducts: 50}
		assert.Equal(t, 1, o.EffectiveLimit())
	})

	t.Run("max products passes through", func(t *testing.T) {
		o := Options{MaxProducts: 50}
		assert.Equal(t, 50, o.EffectiveLimit())
	})
}

func TestRunState(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateAborted.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateUpserting.Terminal())
	assert.False(t, StateConfiguring.Terminal())
}
