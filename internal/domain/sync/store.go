package sync

import "context"

// ConfigStore persists the single global credential record. Stored values
// sit at the top of the resolution order, above request headers and
// environment variables.
type ConfigStore interface {
	// Get returns the stored record, or nil when none was saved yet.
	Get(ctx context.Context) (*Config, error)
	// Save replaces the stored record.
	Save(ctx context.Context, cfg Config) error
}

// RunStore persists run reports for the history endpoint.
type RunStore interface {
	Save(ctx context.Context, report *Report) error
	// Latest returns the most recent reports, newest first.
	Latest(ctx context.Context, limit int) ([]Report, error)
}
