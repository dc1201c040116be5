package feedsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/feedsync/backend/internal/domain/feed"
	"github.com/feedsync/backend/internal/infrastructure/retry"
)

const (
	defaultFetchTimeout = 60 * time.Second
	// maxFeedBytes caps how much feed we will buffer. Merchant feeds run
	// a few MB; anything past this is a misbehaving source.
	maxFeedBytes = 64 << 20
)

// HTTPFetcher downloads the merchant feed over HTTP, retrying transient
// failures and normalizing the body to valid UTF-8.
type HTTPFetcher struct {
	client *http.Client
	policy retry.Policy
	logger *zap.Logger
}

func NewHTTPFetcher(policy retry.Policy, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultFetchTimeout},
		policy: policy,
		logger: logger,
	}
}

var _ feed.Fetcher = (*HTTPFetcher)(nil)

// Fetch downloads the document at url. Transient network failures are
// retried with backoff; any non-2xx status fails immediately with a
// FetchError carrying the status code and a body snippet.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0
	err := f.policy.Do(ctx, func() error {
		attempt++
		var err error
		body, err = f.fetchOnce(ctx, url)
		if err != nil {
			f.logger.Warn("feed fetch attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	}, func(err error) bool {
		var fetchErr *feed.FetchError
		return !errors.As(err, &fetchErr)
	})
	if err != nil {
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", feed.ErrFeedUnavailable, err)
	}
	return body, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &feed.FetchError{
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
			URL:        url,
		}
	}

	// Feeds occasionally ship a BOM or stray invalid bytes; the decoder
	// strips the BOM and replaces invalid sequences so the XML decoder
	// downstream never chokes on encoding.
	reader := transform.NewReader(
		io.LimitReader(resp.Body, maxFeedBytes),
		unicode.UTF8BOM.NewDecoder(),
	)
	return io.ReadAll(reader)
}
