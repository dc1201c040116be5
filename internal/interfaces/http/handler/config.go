package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

// ConfigHandler manages the stored global credential record.
type ConfigHandler struct {
	BaseHandler
	configs *syncapp.ConfigService
	logger  *zap.Logger
}

func NewConfigHandler(configs *syncapp.ConfigService, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{configs: configs, logger: logger}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ConfigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config", h.Get)
	rg.POST("/config", h.Save)
}

// Get returns the stored record with the admin token masked.
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load stored config", zap.Error(err))
		h.InternalError(c, "failed to load configuration")
		return
	}
	if cfg == nil {
		h.NotFound(c, "no configuration stored")
		return
	}

	resp := dto.ConfigResponse{
		ShopifyURL: cfg.StoreURL,
		XMLURL:     cfg.FeedURL,
	}
	if cfg.AdminToken != "" {
		resp.ShopifyAdminToken = dto.MaskedToken
	}
	h.Success(c, resp)
}

// Save persists a new global credential record. Stored values take
// precedence over headers and environment for every later run.
func (h *ConfigHandler) Save(c *gin.Context) {
	var req dto.ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, "invalid request body: "+err.Error())
		return
	}

	err := h.configs.Save(c.Request.Context(), syncdomain.Config{
		StoreURL:   req.ShopifyURL,
		AdminToken: req.ShopifyAdminToken,
		FeedURL:    req.XMLURL,
	})
	if err != nil {
		h.logger.Error("failed to save config", zap.Error(err))
		h.InternalError(c, "failed to save configuration")
		return
	}
	h.Success(c, gin.H{"saved": true})
}
