package feed

import "context"

// Fetcher retrieves the raw feed document. Implementations live in the
// infrastructure layer (Ports & Adapters): the HTTP fetcher enforces UTF-8
// decoding and retries transient network failures.
type Fetcher interface {
	// Fetch performs a single logical retrieval of the feed at url and
	// returns the raw document bytes. A non-2xx response yields *FetchError;
	// exhausted transient retries yield ErrFeedUnavailable.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser turns raw feed bytes into normalized records.
type Parser interface {
	// Each streams records to fn in document order. Decoding is lazy: the
	// document is tokenized as records are consumed, and calling Each again
	// with the same bytes restarts the sequence from the beginning.
	// fn returning false stops the iteration early.
	Each(data []byte, fn func(Record) bool) ([]ParseWarning, error)

	// Parse collects the whole document into memory.
	Parse(data []byte) ([]Record, []ParseWarning, error)

	// Stats counts products and variants without materializing records.
	Stats(data []byte) (Stats, error)
}
