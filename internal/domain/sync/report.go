package sync

import "time"

// ItemError records one product that could not be synchronized. The run
// keeps going; only authentication failures abort it.
type ItemError struct {
	ExternalID string `json:"externalId"`
	SKU        string `json:"sku,omitempty"`
	Title      string `json:"title,omitempty"`
	Reason     string `json:"reason"`
}

// Report is the outcome of a single run. Counters always satisfy
// Processed = Created + Updated + Skipped + Failed.
type Report struct {
	RunID      string    `json:"runId"`
	Mode       Mode      `json:"mode"`
	State      RunState  `json:"state"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	FeedProducts int `json:"feedProducts"`
	FeedVariants int `json:"feedVariants"`

	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	Errors   []ItemError `json:"errors,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`

	// AbortReason is set when the run terminated early, e.g. the admin
	// token was rejected mid-run.
	AbortReason string `json:"abortReason,omitempty"`
}

// Duration returns the wall-clock run time.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run completed without aborting. Per-item
// failures do not make a run unsuccessful.
func (r *Report) Succeeded() bool {
	return r.State == StateCompleted
}
