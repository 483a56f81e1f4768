package checks

import (
	"context"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

// BucketStatCheck evaluates a single bucket statistic over a zoom window.
type BucketStatCheck struct {
	Bucket string
	Zoom   couchbase.Zoom
	Rule   StatRule
}

// NewBucketStatCheck creates a check for stat in bucket without thresholds.
func NewBucketStatCheck(bucket, stat string) *BucketStatCheck {
	return &BucketStatCheck{
		Bucket: bucket,
		Rule:   StatRule{Name: stat},
	}
}

// Name returns the check name.
func (c *BucketStatCheck) Name() string {
	return "bucket-stat"
}

// Run fetches the bucket's stats document and evaluates the stat.
func (c *BucketStatCheck) Run(ctx context.Context, f couchbase.Fetcher) check.Result {
	r := check.NewResult(c.Name())

	doc, err := f.Fetch(ctx, couchbase.BucketStatsPath(c.Bucket, c.Zoom))
	if err != nil {
		return Failure(r, err)
	}
	return EvaluateStat(r, doc, c.Rule)
}
