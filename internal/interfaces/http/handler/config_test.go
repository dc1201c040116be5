package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

func configRouter(t *testing.T, store *memConfigStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewConfigHandler(syncapp.NewConfigService(store), zap.NewNop())
	h.RegisterRoutes(engine.Group(""))
	return engine
}

func TestConfigEndpoints(t *testing.T) {
	t.Run("get without stored record yields 404", func(t *testing.T) {
		engine := configRouter(t, &memConfigStore{})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("save then get masks the token", func(t *testing.T) {
		store := &memConfigStore{}
		engine := configRouter(t, store)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/config", strings.NewReader(
			`{"shopifyUrl":"https://test.myshopify.com/","shopifyAdminToken":"shpat_secret","xmlUrl":"https://feed.example.com/feed.xml"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		// Stored URLs are normalized to the bare host.
		require.NotNil(t, store.cfg)
		assert.Equal(t, "test.myshopify.com", store.cfg.StoreURL)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool               `json:"success"`
			Data    dto.ConfigResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "test.myshopify.com", body.Data.ShopifyURL)
		assert.Equal(t, dto.MaskedToken, body.Data.ShopifyAdminToken)
		assert.NotContains(t, w.Body.String(), "shpat_secret")
	})

	t.Run("save rejects incomplete bodies", func(t *testing.T) {
		engine := configRouter(t, &memConfigStore{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/config",
			strings.NewReader(`{"shopifyUrl":"test.myshopify.com"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSystemEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler().RegisterRoutes(engine.Group(""))

	t.Run("ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/ping", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"pong"`)
	})

	t.Run("info", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "FeedSync Backend API")
	})
}
