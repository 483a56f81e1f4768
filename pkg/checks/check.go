// Package checks implements the Couchbase check profiles: node, cluster,
// bucket and bucket-stat.
package checks

import (
	"context"
	"errors"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

// Check is the interface that all check profiles implement.
type Check interface {
	// Name returns the short name used in plugin output (e.g., "node").
	Name() string

	// Run fetches what it needs through f and evaluates it.
	Run(ctx context.Context, f couchbase.Fetcher) check.Result
}

// Failure records a fetch error on r using the plugin's wording.
func Failure(r check.Result, err error) check.Result {
	var (
		statusErr *couchbase.StatusError
		decodeErr *couchbase.DecodeError
	)
	switch {
	case errors.As(err, &statusErr):
		return r.Add(check.Critical, "Unexpected status code. HTTP %d returned.", statusErr.Code)
	case errors.Is(err, couchbase.ErrEmptyBody):
		return r.Add(check.Critical, "Empty response body.")
	case errors.As(err, &decodeErr):
		return r.Add(check.Unknown, "Invalid JSON response: %v", decodeErr.Err)
	default:
		return r.Add(check.Critical, "%v", err)
	}
}
