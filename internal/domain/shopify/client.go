package shopify

import "context"

// Client is the port to the Shopify Admin REST API. Implementations handle
// authentication, rate limiting and retries; callers see domain errors from
// this package.
type Client interface {
	// ListProducts returns every product in the store, following pagination.
	ListProducts(ctx context.Context) ([]RemoteProduct, error)
	// CreateProduct creates a product and returns the remote record.
	CreateProduct(ctx context.Context, payload ProductPayload) (*RemoteProduct, error)
	// UpdateProduct applies a scoped payload to an existing product.
	UpdateProduct(ctx context.Context, id int64, payload ProductPayload) (*RemoteProduct, error)
	// GetShopInfo returns shop metadata and the live product count.
	GetShopInfo(ctx context.Context) (*ShopInfo, error)
	// CountProducts returns the number of products in the store.
	CountProducts(ctx context.Context) (int, error)
}
