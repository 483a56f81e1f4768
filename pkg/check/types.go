// Package check provides the result types shared by every probe: severities,
// messages, perf data samples, and the immutable Result accumulator.
package check

// Severity is the health verdict of a check, using monitoring-plugin semantics.
type Severity int

const (
	OK Severity = iota
	Warning
	Critical
	Unknown
)

// String returns the plugin status keyword.
func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for the severity.
func (s Severity) ExitCode() int {
	switch s {
	case OK:
		return 0
	case Warning:
		return 1
	case Critical:
		return 2
	default:
		return 3
	}
}

// rank orders severities for worst-wins aggregation.
// A definite WARNING or CRITICAL outranks a tool failure.
func (s Severity) rank() int {
	switch s {
	case OK:
		return 0
	case Warning:
		return 2
	case Critical:
		return 3
	default:
		return 1
	}
}

// Worse reports whether s is a worse verdict than other.
func (s Severity) Worse(other Severity) bool {
	return s.rank() > other.rank()
}

// MarshalText encodes the severity as its keyword.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message is a single verdict recorded during a check run.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// PerfData is one labeled numeric sample emitted alongside the status line.
type PerfData struct {
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// WithMax returns a copy of p bounded by max.
func (p PerfData) WithMax(max float64) PerfData {
	p.Max = &max
	return p
}
