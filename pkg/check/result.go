package check

import (
	"fmt"
	"slices"
	"strings"
)

// OKMessage is reported when a check recorded no messages.
const OKMessage = "Everything okay."

// Result accumulates messages and perf data for one check run.
// Methods never mutate the receiver; they return an extended copy.
type Result struct {
	Name     string     `json:"name"`
	Messages []Message  `json:"messages"`
	PerfData []PerfData `json:"perfdata"`
}

// NewResult creates an empty result for the named check.
func NewResult(name string) Result {
	return Result{Name: name}
}

// Add records a message at the given severity.
func (r Result) Add(sev Severity, format string, args ...any) Result {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	r.Messages = append(slices.Clip(r.Messages), Message{Severity: sev, Text: text})
	return r
}

// AddPerf records perf data samples.
func (r Result) AddPerf(samples ...PerfData) Result {
	r.PerfData = append(slices.Clip(r.PerfData), samples...)
	return r
}

// Merge appends other's messages and perf data after r's.
func (r Result) Merge(other Result) Result {
	r.Messages = append(slices.Clip(r.Messages), other.Messages...)
	r.PerfData = append(slices.Clip(r.PerfData), other.PerfData...)
	return r
}

// Severity returns the worst severity recorded, or OK.
func (r Result) Severity() Severity {
	worst := OK
	for _, m := range r.Messages {
		if m.Severity.Worse(worst) {
			worst = m.Severity
		}
	}
	return worst
}

// Status folds the recorded messages into the overall verdict. The message
// joins every entry at the worst severity in the order they were added.
func (r Result) Status() (Severity, string) {
	if len(r.Messages) == 0 {
		return OK, OKMessage
	}

	worst := r.Severity()
	var texts []string
	for _, m := range r.Messages {
		if m.Severity == worst {
			texts = append(texts, m.Text)
		}
	}
	return worst, strings.Join(texts, ", ")
}

// ExitCode returns the process exit code for the overall verdict.
func (r Result) ExitCode() int {
	return r.Severity().ExitCode()
}

// Summary counts recorded messages per severity.
type Summary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Critical int `json:"critical"`
	Unknown  int `json:"unknown"`
}

// Summarize calculates summary statistics from a result's messages.
func Summarize(r Result) Summary {
	s := Summary{Total: len(r.Messages)}
	for _, m := range r.Messages {
		switch m.Severity {
		case OK:
			s.OK++
		case Warning:
			s.Warnings++
		case Critical:
			s.Critical++
		default:
			s.Unknown++
		}
	}
	return s
}
