package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedUnavailable indicates the feed endpoint could not be reached
	// after exhausting transient-failure retries.
	ErrFeedUnavailable = errors.New("feed: source unavailable")
	// ErrEmptyFeed indicates the document parsed but contained no products.
	ErrEmptyFeed = errors.New("feed: document contains no products")
)

// FetchError is a terminal fetch failure: the feed endpoint answered with a
// non-2xx status. It is never retried.
type FetchError struct {
	// StatusCode is the HTTP status returned by the feed endpoint
	StatusCode int `json:"statusCode"`
	// Body is the response body, truncated for reporting
	Body string `json:"body,omitempty"`
	// URL is the feed URL that was requested
	URL string `json:"url"`
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed: fetch failed with HTTP %d from %s", e.StatusCode, e.URL)
}

// ParseError indicates structurally invalid feed input. Path points at the
// offending node so operators can locate it in the source document.
type ParseError struct {
	// Path is the node path within the document (e.g. "Urunler/Urun[3]/Varyantlar")
	Path string `json:"path"`
	// Err is the underlying decode error
	Err error `json:"-"`
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed: parse failed at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("feed: parse failed at %s", e.Path)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseWarning records a non-fatal normalization issue (typically an
// unparseable numeric defaulted to zero). The run continues.
type ParseWarning struct {
	// Path is the node path of the offending field
	Path string `json:"path"`
	// Field is the field name within the node
	Field string `json:"field"`
	// Raw is the raw value that failed to normalize
	Raw string `json:"raw"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("%s/%s: unparseable value %q defaulted", w.Path, w.Field, w.Raw)
}
