package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	stdsync "sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/domain/feed"
	"github.com/feedsync/backend/internal/domain/shopify"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

type memConfigStore struct {
	mu  stdsync.Mutex
	cfg *syncdomain.Config
}

func (s *memConfigStore) Get(ctx context.Context) (*syncdomain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, nil
}

func (s *memConfigStore) Save(ctx context.Context, cfg syncdomain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

type memRunStore struct {
	mu    stdsync.Mutex
	saved []*syncdomain.Report
}

func (s *memRunStore) Save(ctx context.Context, r *syncdomain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, r)
	return nil
}

func (s *memRunStore) Latest(ctx context.Context, limit int) ([]syncdomain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []syncdomain.Report
	for i := len(s.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *s.saved[i])
	}
	return out, nil
}

type staticFetcher struct{ data []byte }

func (f *staticFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, nil
}

type staticParser struct{ records []feed.Record }

func (p *staticParser) Each(data []byte, fn func(feed.Record) bool) ([]feed.ParseWarning, error) {
	for _, r := range p.records {
		if !fn(r) {
			break
		}
	}
	return nil, nil
}

func (p *staticParser) Parse(data []byte) ([]feed.Record, []feed.ParseWarning, error) {
	return p.records, nil, nil
}

func (p *staticParser) Stats(data []byte) (feed.Stats, error) {
	stats := feed.Stats{ProductCount: len(p.records)}
	for _, r := range p.records {
		stats.VariantCount += r.VariantCount()
	}
	return stats, nil
}

type stubClient struct {
	mu        stdsync.Mutex
	createErr error
	created   int
}

func (c *stubClient) ListProducts(ctx context.Context) ([]shopify.RemoteProduct, error) {
	return nil, nil
}

func (c *stubClient) CreateProduct(ctx context.Context, p shopify.ProductPayload) (*shopify.RemoteProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created++
	return &shopify.RemoteProduct{ID: int64(c.created)}, nil
}

func (c *stubClient) UpdateProduct(ctx context.Context, id int64, p shopify.ProductPayload) (*shopify.RemoteProduct, error) {
	return &shopify.RemoteProduct{ID: id}, nil
}

func (c *stubClient) GetShopInfo(ctx context.Context) (*shopify.ShopInfo, error) {
	return &shopify.ShopInfo{Name: "Test Mağaza", Email: "owner@example.com", ProductCount: 3}, nil
}

func (c *stubClient) CountProducts(ctx context.Context) (int, error) { return 3, nil }

func storedConfig() *syncdomain.Config {
	return &syncdomain.Config{
		StoreURL:   "test.myshopify.com",
		AdminToken: "shpat_test",
		FeedURL:    "https://feed.example.com/feed.xml",
	}
}

func syncRouter(t *testing.T, store syncdomain.ConfigStore, client shopify.Client, records []feed.Record) (*gin.Engine, *memRunStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := syncapp.NewConfigResolver(store, syncapp.EnvCredentials{})
	runs := &memRunStore{}
	orchestrator := syncapp.NewOrchestrator(
		&staticFetcher{data: []byte("x")},
		&staticParser{records: records},
		func(cfg syncdomain.Config) shopify.Client { return client },
		runs, zap.NewNop(), 2, 0,
	)

	engine := gin.New()
	h := NewSyncHandler(resolver, orchestrator, runs, zap.NewNop())
	h.RegisterRoutes(engine.Group(""))
	return engine, runs
}

func testRecords() []feed.Record {
	return []feed.Record{{
		ExternalID: "1",
		Name:       "Siyah Pantolon",
		BasePrice:  decimal.NewFromInt(190),
		Variants: []feed.VariantRecord{
			{AxisName: "Beden", AxisValue: "48", ColorValue: "Siyah", SKU: "PNT-48-S", StockQty: 10},
		},
	}}
}

func TestSyncEndpoint(t *testing.T) {
	t.Run("runs and reports counters", func(t *testing.T) {
		client := &stubClient{}
		engine, runs := syncRouter(t, &memConfigStore{cfg: storedConfig()}, client, testRecords())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success        bool   `json:"success"`
			ProcessedCount int    `json:"processedCount"`
			CreatedCount   int    `json:"createdCount"`
			Message        string `json:"message"`
			Debug          struct {
				XMLProductCount int `json:"xmlProductCount"`
				XMLVariantCount int `json:"xmlVariantCount"`
			} `json:"debug"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 1, body.ProcessedCount)
		assert.Equal(t, 1, body.CreatedCount)
		assert.Equal(t, 1, body.Debug.XMLProductCount)
		assert.Equal(t, 1, body.Debug.XMLVariantCount)
		assert.Contains(t, body.Message, "1 created")

		require.Len(t, runs.saved, 1)
	})

	t.Run("options body scopes the run", func(t *testing.T) {
		client := &stubClient{}
		engine, _ := syncRouter(t, &memConfigStore{cfg: storedConfig()}, client, testRecords())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync",
			strings.NewReader(`{"options":{"testMode":true,"price":true,"inventory":true}}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing credentials yield 400 with debug report", func(t *testing.T) {
		engine, _ := syncRouter(t, &memConfigStore{}, &stubClient{}, testRecords())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Success bool `json:"success"`
			Debug   struct {
				HasStoreURL bool `json:"hasStoreUrl"`
				HasToken    bool `json:"hasToken"`
			} `json:"debug"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.False(t, body.Debug.HasStoreURL)
		assert.False(t, body.Debug.HasToken)
	})

	t.Run("header credentials fill gaps", func(t *testing.T) {
		engine, _ := syncRouter(t, &memConfigStore{}, &stubClient{}, testRecords())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(HeaderStoreURL, "header.myshopify.com")
		req.Header.Set(HeaderAdminToken, "shpat_header")
		req.Header.Set(HeaderFeedURL, "https://feed.example.com/feed.xml")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejected token yields 401", func(t *testing.T) {
		client := &stubClient{createErr: &shopify.AuthError{StatusCode: 401}}
		engine, _ := syncRouter(t, &memConfigStore{cfg: storedConfig()}, client, testRecords())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Contains(t, body.Message, "authentication rejected")
	})
}

func TestSummaryEndpoint(t *testing.T) {
	client := &stubClient{}
	engine, _ := syncRouter(t, &memConfigStore{cfg: storedConfig()}, client, testRecords())

	// Run once so history has an entry.
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sync/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			RunID          string `json:"runId"`
			State          string `json:"state"`
			ProcessedCount int    `json:"processedCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "completed", body.Data[0].State)
	assert.Equal(t, 1, body.Data[0].ProcessedCount)
}
