package shopify

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable indicates the remote API kept failing with
	// retryable statuses (429/5xx) until the retry budget was exhausted.
	ErrRemoteUnavailable = errors.New("shopify: remote unavailable")
	// ErrRateLimitTimeout indicates a call could not acquire a rate-limit
	// token before its wait deadline. Retryable at the orchestrator level.
	ErrRateLimitTimeout = errors.New("shopify: rate limit wait timed out")
	// ErrNotConfigured indicates the client has no store URL or token.
	ErrNotConfigured = errors.New("shopify: client not configured")
)

// AuthError is fatal for the whole run: the admin token was rejected.
// Never retried.
type AuthError struct {
	// StatusCode is 401 or 403
	StatusCode int `json:"statusCode"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("shopify: authentication rejected with HTTP %d", e.StatusCode)
}

// RejectedError is a per-item failure: the remote API rejected the request
// with a non-auth, non-retryable 4xx (typically 422 validation). Not retried.
type RejectedError struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body,omitempty"`
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("shopify: request rejected with HTTP %d", e.StatusCode)
}

// AmbiguousMatchError indicates a local product matched more than one
// remote product. Surfaced as a per-item failure, never guessed.
type AmbiguousMatchError struct {
	SKU       string  `json:"sku"`
	Handle    string  `json:"handle"`
	RemoteIDs []int64 `json:"remoteIds"`
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("shopify: ambiguous match for sku %q / handle %q: %d remote candidates",
		e.SKU, e.Handle, len(e.RemoteIDs))
}

// IsRetryable reports whether err is worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrRateLimitTimeout)
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
