package feed

import (
	"context"
	"errors"
	"time"
)

// Diagnostic statuses.
const (
	StatusOK      = "OK"
	StatusEmpty   = "EMPTY"
	StatusTimeout = "TIMEOUT"
	StatusError   = "ERROR"
)

// Diagnostic is the health of a single feed at one point in time.
type Diagnostic struct {
	URL          string     `json:"url"`
	Title        string     `json:"title,omitempty"`
	Status       string     `json:"status"`
	ItemCount    int        `json:"item_count"`
	Latest       *time.Time `json:"latest,omitempty"`
	ResponseTime int64      `json:"response_time_ms"`
	Error        string     `json:"error,omitempty"`
}

// Healthy reports whether the feed can be watched.
func (d Diagnostic) Healthy() bool {
	return d.Status == StatusOK
}

// Diagnose reads feedURL once and summarizes what a poll would see. It never
// returns an error; failures are described in the result.
func (r *Reader) Diagnose(ctx context.Context, feedURL string) Diagnostic {
	diag := Diagnostic{URL: feedURL}

	start := time.Now()
	parsed, err := r.Read(ctx, feedURL)
	diag.ResponseTime = time.Since(start).Milliseconds()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		diag.Status = StatusTimeout
		diag.Error = err.Error()
		return diag
	case err != nil:
		diag.Status = StatusError
		diag.Error = err.Error()
		return diag
	}

	diag.Title = parsed.Title
	diag.ItemCount = len(parsed.Entries)
	if newest, ok := parsed.Newest(); ok {
		diag.Latest = &newest
	}
	if diag.ItemCount == 0 {
		diag.Status = StatusEmpty
		return diag
	}
	diag.Status = StatusOK
	return diag
}
