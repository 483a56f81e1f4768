// Package debug provides request timing instrumentation for cbprobe.
package debug

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	debugErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// RequestTiming records the duration of one Fetch call.
type RequestTiming struct {
	Path     string
	Duration time.Duration
	Err      error
}

// TimedFetcher wraps a couchbase.Fetcher to record request durations.
// It is safe for concurrent use.
type TimedFetcher struct {
	inner couchbase.Fetcher

	mu      sync.Mutex
	timings []RequestTiming
}

// NewTimedFetcher wraps a fetcher with timing instrumentation.
func NewTimedFetcher(f couchbase.Fetcher) *TimedFetcher {
	return &TimedFetcher{inner: f}
}

// Fetch runs the wrapped fetcher and records its duration.
func (t *TimedFetcher) Fetch(ctx context.Context, path string) (any, error) {
	start := time.Now()
	doc, err := t.inner.Fetch(ctx, path)
	elapsed := time.Since(start)

	t.mu.Lock()
	t.timings = append(t.timings, RequestTiming{Path: path, Duration: elapsed, Err: err})
	t.mu.Unlock()

	return doc, err
}

// Timings returns a copy of the recorded timings in completion order.
func (t *TimedFetcher) Timings() []RequestTiming {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RequestTiming, len(t.timings))
	copy(out, t.timings)
	return out
}

// Elapsed returns the longest recorded request. Requests of the bucket check run
// concurrently, so the slowest one bounds the wall time spent on the network.
func (t *TimedFetcher) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var longest time.Duration
	for _, rt := range t.timings {
		longest = max(longest, rt.Duration)
	}
	return longest
}

// TimingReport prints a styled timing summary for all recorded requests.
func TimingReport(w io.Writer, timings []RequestTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Request Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 60)))
	fmt.Fprintf(w, "  %s  %s\n",
		debugHeader.Render("PATH                                    "),
		debugHeader.Render("DURATION    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 60)))

	var total time.Duration
	for _, t := range timings {
		line := fmt.Sprintf("  %-42s %v", t.Path, t.Duration)
		if t.Err != nil {
			line += " " + debugErr.Render("failed")
		}
		fmt.Fprintln(w, line)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 60)))
	fmt.Fprintf(w, "  %-42s %v\n",
		lipgloss.NewStyle().Bold(true).Render("TOTAL"), total)
}
