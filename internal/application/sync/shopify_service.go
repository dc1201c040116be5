package sync

import (
	"context"

	"github.com/feedsync/backend/internal/domain/shopify"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

// ShopifyService answers store connectivity probes with per-request
// resolved credentials.
type ShopifyService struct {
	clients ClientFactory
}

func NewShopifyService(clients ClientFactory) *ShopifyService {
	return &ShopifyService{clients: clients}
}

// Info returns shop metadata for the resolved credentials.
func (s *ShopifyService) Info(ctx context.Context, cfg syncdomain.Config) (*shopify.ShopInfo, error) {
	return s.clients(cfg).GetShopInfo(ctx)
}
