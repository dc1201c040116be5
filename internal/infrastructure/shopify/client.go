package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	domain "github.com/feedsync/backend/internal/domain/shopify"
	"github.com/feedsync/backend/internal/infrastructure/retry"
)

const (
	apiVersion     = "2024-01"
	requestTimeout = 30 * time.Second
	pageSize       = 250
	// rateWaitBudget bounds how long a single call may sit waiting for a
	// rate-limit token before giving up.
	rateWaitBudget = 30 * time.Second
)

// AdminClient talks to the Shopify Admin REST API. All calls pass through a
// shared token bucket so concurrent workers collectively stay under the
// API's request budget.
type AdminClient struct {
	storeHost  string
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	policy     retry.Policy
	logger     *zap.Logger
}

// Config holds the connection settings for one client instance.
type Config struct {
	// StoreHost is the bare store host, e.g. "my-store.myshopify.com"
	StoreHost string
	// Token is the Admin API access token
	Token string
	// RequestsPerSecond sizes the token bucket. Zero uses the REST API
	// default of 2 rps with a burst of 4.
	RequestsPerSecond float64
	Burst             int
	// BaseURL overrides the derived https://<host>/admin/api/<version>
	// prefix. Tests point this at a local server.
	BaseURL string
}

func NewAdminClient(cfg Config, policy retry.Policy, logger *zap.Logger) *AdminClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}
	baseURL := cfg.BaseURL
	if baseURL == "" && cfg.StoreHost != "" {
		baseURL = fmt.Sprintf("https://%s/admin/api/%s", strings.TrimSuffix(cfg.StoreHost, "/"), apiVersion)
	}
	return &AdminClient{
		storeHost:  strings.TrimSuffix(cfg.StoreHost, "/"),
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		policy:     policy,
		logger:     logger,
	}
}

var _ domain.Client = (*AdminClient)(nil)

// ---------------------------------------------------------------------------
// Wire envelopes
// ---------------------------------------------------------------------------

type productEnvelope struct {
	Product domain.RemoteProduct `json:"product"`
}

type productsEnvelope struct {
	Products []domain.RemoteProduct `json:"products"`
}

type payloadEnvelope struct {
	Product domain.ProductPayload `json:"product"`
}

type countEnvelope struct {
	Count int `json:"count"`
}

type shopEnvelope struct {
	Shop domain.ShopInfo `json:"shop"`
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ListProducts pages through the whole catalog using cursor pagination.
func (c *AdminClient) ListProducts(ctx context.Context) ([]domain.RemoteProduct, error) {
	var all []domain.RemoteProduct
	path := fmt.Sprintf("/products.json?limit=%d", pageSize)
	for path != "" {
		var page productsEnvelope
		header, err := c.do(ctx, http.MethodGet, path, nil, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)
		path = c.nextPagePath(header.Get("Link"))
	}
	return all, nil
}

func (c *AdminClient) CreateProduct(ctx context.Context, payload domain.ProductPayload) (*domain.RemoteProduct, error) {
	var out productEnvelope
	_, err := c.do(ctx, http.MethodPost, "/products.json", payloadEnvelope{Product: payload}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *AdminClient) UpdateProduct(ctx context.Context, id int64, payload domain.ProductPayload) (*domain.RemoteProduct, error) {
	payload.ID = id
	var out productEnvelope
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d.json", id), payloadEnvelope{Product: payload}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *AdminClient) GetShopInfo(ctx context.Context) (*domain.ShopInfo, error) {
	var out shopEnvelope
	if _, err := c.do(ctx, http.MethodGet, "/shop.json", nil, &out); err != nil {
		return nil, err
	}
	count, err := c.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	out.Shop.ProductCount = int64(count)
	return &out.Shop, nil
}

func (c *AdminClient) CountProducts(ctx context.Context) (int, error) {
	var out countEnvelope
	if _, err := c.do(ctx, http.MethodGet, "/products/count.json", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// do executes one API call with rate limiting and retries. 429 and 5xx
// responses are retried with backoff until the policy gives up; auth and
// validation failures surface immediately as domain errors.
func (c *AdminClient) do(ctx context.Context, method, path string, body any, out any) (http.Header, error) {
	if c.baseURL == "" || c.token == "" {
		return nil, domain.ErrNotConfigured
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("shopify: encode request: %w", err)
		}
	}

	var header http.Header
	err := c.policy.Do(ctx, func() error {
		if err := c.waitForToken(ctx); err != nil {
			return err
		}
		var err error
		header, err = c.doOnce(ctx, method, path, payload, out)
		return err
	}, func(err error) bool {
		return domain.IsRetryable(err)
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (c *AdminClient) waitForToken(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, rateWaitBudget)
	defer cancel()
	if err := c.limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.ErrRateLimitTimeout
	}
	return nil
}

func (c *AdminClient) doOnce(ctx context.Context, method, path string, payload []byte, out any) (http.Header, error) {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("shopify: decode response: %w", err)
			}
		}
		return resp.Header, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &domain.AuthError{StatusCode: resp.StatusCode}

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logger.Warn("shopify request throttled or failed upstream",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrRemoteUnavailable, resp.StatusCode)

	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &domain.RejectedError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
}

// nextPagePath extracts the rel="next" cursor from a Link header and turns
// it back into a path relative to the API base. Empty when the last page
// was reached.
func (c *AdminClient) nextPagePath(linkHeader string) string {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		path := strings.TrimPrefix(u.Path, base.Path)
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		return path
	}
	return ""
}
