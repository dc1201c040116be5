package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

// FeedHandler serves feed inspection endpoints.
type FeedHandler struct {
	BaseHandler
	resolver *syncapp.ConfigResolver
	stats    *syncapp.StatsService
	logger   *zap.Logger
}

func NewFeedHandler(resolver *syncapp.ConfigResolver, stats *syncapp.StatsService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{resolver: resolver, stats: stats, logger: logger}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/xml/stats", h.Stats)
}

// Stats downloads the feed and reports product and variant counts. Counts
// are cached per feed URL, the debug block says whether this call hit the
// cache.
func (h *FeedHandler) Stats(c *gin.Context) {
	cfg, _, err := h.resolver.Resolve(c.Request.Context(), headerCredentials(c))
	if err != nil {
		h.logger.Error("credential resolution failed", zap.Error(err))
		h.InternalError(c, "failed to resolve configuration")
		return
	}
	if cfg.FeedURL == "" {
		c.JSON(http.StatusBadRequest, dto.StatsResponse{
			Success: false,
			Error:   "no feed URL configured",
			Debug:   dto.StatsDebug{ParseMethod: "stream"},
		})
		return
	}

	stats, cached, err := h.stats.Stats(c.Request.Context(), cfg.FeedURL)
	if err != nil {
		h.logger.Warn("feed stats failed",
			zap.String("feed_url", cfg.FeedURL),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, dto.StatsResponse{
			Success: false,
			Error:   err.Error(),
			Debug:   dto.StatsDebug{ParseMethod: "stream"},
		})
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		Success:      true,
		ProductCount: stats.ProductCount,
		VariantCount: stats.VariantCount,
		Debug: dto.StatsDebug{
			ParseMethod: "stream",
			Cached:      cached,
		},
	})
}
