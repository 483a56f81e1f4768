package checks

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
	"github.com/danpilch/cbprobe/pkg/debug"
)

// Runner executes checks against a fetcher, timing every request.
type Runner struct {
	fetcher couchbase.Fetcher
	logger  *logrus.Logger
}

// NewRunner creates a runner.
func NewRunner(f couchbase.Fetcher, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Runner{
		fetcher: f,
		logger:  logger,
	}
}

// Run executes c and returns its result with a trailing "time" sample holding
// the network time in seconds. Timings of individual requests are returned for reporting.
func (r *Runner) Run(ctx context.Context, c Check) (check.Result, []debug.RequestTiming) {
	log := r.logger.WithField("check", c.Name())
	log.Debug("Running check")

	timed := debug.NewTimedFetcher(r.fetcher)
	result := c.Run(ctx, timed)
	result.Name = c.Name()

	result = result.AddPerf(check.PerfData{
		Label: "time",
		Value: math.Round(timed.Elapsed().Seconds()*1000) / 1000,
		Unit:  "s",
	})

	sev, msg := result.Status()
	log.WithFields(logrus.Fields{
		"status":   sev.String(),
		"messages": len(result.Messages),
		"perfdata": len(result.PerfData),
	}).Debug(msg)

	return result, timed.Timings()
}
