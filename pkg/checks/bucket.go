package checks

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
	"github.com/danpilch/cbprobe/pkg/extract"
	"github.com/danpilch/cbprobe/pkg/threshold"
)

// Default bucket quota thresholds.
const (
	DefaultWarningQuota  = ">=85"
	DefaultCriticalQuota = ">=95"
)

// samplesPath is where the stats endpoint keeps its time series.
var samplesPath = extract.ParsePath("op.samples")

// StatRule evaluates one time-series stat against optional thresholds.
type StatRule struct {
	Name     string `mapstructure:"name" json:"name"`
	Warning  string `mapstructure:"warning" json:"warning,omitempty"`
	Critical string `mapstructure:"critical" json:"critical,omitempty"`
}

// DefaultStatRules returns the derived stats evaluated by the bucket check.
func DefaultStatRules() []StatRule {
	return []StatRule{
		{Name: "hit_ratio"},
		{Name: "ep_tmp_oom_errors", Critical: ">0"},
		{Name: "ep_resident_items_rate"},
	}
}

// BucketCheck evaluates a bucket's quota usage and derived statistics.
type BucketCheck struct {
	Bucket        string
	WarningQuota  string
	CriticalQuota string
	Zoom          couchbase.Zoom
	Stats         []StatRule
}

// NewBucketCheck creates a bucket check with default thresholds.
func NewBucketCheck(bucket string) *BucketCheck {
	return &BucketCheck{
		Bucket:        bucket,
		WarningQuota:  DefaultWarningQuota,
		CriticalQuota: DefaultCriticalQuota,
		Stats:         DefaultStatRules(),
	}
}

// Name returns the check name.
func (c *BucketCheck) Name() string {
	return "bucket"
}

// Run fetches bucket metadata and statistics concurrently and evaluates them.
// Either request failing fails the whole check.
func (c *BucketCheck) Run(ctx context.Context, f couchbase.Fetcher) check.Result {
	r := check.NewResult(c.Name())

	var meta, stats any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := f.Fetch(gctx, couchbase.BucketPath(c.Bucket))
		meta = doc
		return err
	})
	g.Go(func() error {
		doc, err := f.Fetch(gctx, couchbase.BucketStatsPath(c.Bucket, c.Zoom))
		stats = doc
		return err
	})
	if err := g.Wait(); err != nil {
		return Failure(r, err)
	}

	return c.Evaluate(r, meta, stats)
}

// Evaluate applies the bucket rules to decoded metadata and stats documents.
func (c *BucketCheck) Evaluate(r check.Result, meta, stats any) check.Result {
	basic, ok := extract.Fields(meta, extract.ParsePath("basicStats"), "")
	if !ok {
		r = r.Add(check.Warning, "Bucket basicStats not found.")
	}
	r = r.AddPerf(extract.BoundMax(basic, "quotaPercentUsed", 100)...)

	quota, ok := extract.Number(meta, extract.ParsePath("basicStats.quotaPercentUsed"))
	if ok {
		r = threshold.Apply(r, check.Warning, "quotaPercentUsed", quota, c.WarningQuota)
		r = threshold.Apply(r, check.Critical, "quotaPercentUsed", quota, c.CriticalQuota)
	} else {
		r = r.Add(check.Critical, "Bucket quotaPercentUsed not found.")
	}

	for _, rule := range c.Stats {
		r = EvaluateStat(r, stats, rule)
	}
	return r
}

// EvaluateStat summarises one sample series as perf data and applies the rule's
// thresholds to its mean. A missing or empty series is CRITICAL.
func EvaluateStat(r check.Result, stats any, rule StatRule) check.Result {
	s, ok := extract.Samples(stats, samplesPath.Child(rule.Name))
	if !ok {
		return r.Add(check.Critical, "Stat %s not found.", rule.Name)
	}
	r = r.AddPerf(s.PerfData(rule.Name))
	r = threshold.Apply(r, check.Warning, rule.Name, s.Mean, rule.Warning)
	return threshold.Apply(r, check.Critical, rule.Name, s.Mean, rule.Critical)
}
