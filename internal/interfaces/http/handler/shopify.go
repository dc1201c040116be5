package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

// ShopifyHandler probes the connected store.
type ShopifyHandler struct {
	BaseHandler
	resolver *syncapp.ConfigResolver
	shopify  *syncapp.ShopifyService
	logger   *zap.Logger
}

func NewShopifyHandler(resolver *syncapp.ConfigResolver, shopify *syncapp.ShopifyService, logger *zap.Logger) *ShopifyHandler {
	return &ShopifyHandler{resolver: resolver, shopify: shopify, logger: logger}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ShopifyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shopify/info", h.Info)
}

// Info returns store metadata for the resolved credentials. Any failure,
// including missing credentials, reports connected=false rather than an
// error status so the caller can render a connection indicator.
func (h *ShopifyHandler) Info(c *gin.Context) {
	cfg, _, err := h.resolver.Resolve(c.Request.Context(), headerCredentials(c))
	if err != nil {
		h.logger.Error("credential resolution failed", zap.Error(err))
		h.InternalError(c, "failed to resolve configuration")
		return
	}

	info, err := h.shopify.Info(c.Request.Context(), cfg)
	if err != nil {
		h.logger.Warn("shop info probe failed",
			zap.String("store_url", cfg.StoreURL),
			zap.Error(err))
		c.JSON(http.StatusOK, dto.ShopInfoResponse{
			Connected: false,
			Error:     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ShopInfoResponse{
		Connected:    true,
		Name:         info.Name,
		Email:        info.Email,
		ProductCount: info.ProductCount,
	})
}
