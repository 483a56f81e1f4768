// Package output provides formatters for displaying check results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/threshold"
)

// Format represents the output format type.
type Format string

const (
	FormatNagios Format = "nagios"
	FormatJSON   Format = "json"
	FormatTable  Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatNagios, nil
	case FormatNagios, FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be nagios, json or table", s)
	}
}

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Render outputs the result in the configured format.
func (f *Formatter) Render(r check.Result) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(r)
	case FormatTable:
		return f.renderTable(r)
	default:
		_, err := fmt.Fprintln(f.writer, StatusLine(r))
		return err
	}
}

// StatusLine formats r as a single monitoring-plugin line:
// "NAME STATUS - message | perfdata".
func StatusLine(r check.Result) string {
	sev, msg := r.Status()

	var b strings.Builder
	if r.Name != "" {
		b.WriteString(strings.ToUpper(r.Name))
		b.WriteByte(' ')
	}
	b.WriteString(sev.String())
	b.WriteString(" - ")
	b.WriteString(msg)

	if len(r.PerfData) > 0 {
		entries := make([]string, len(r.PerfData))
		for i, p := range r.PerfData {
			entries[i] = PerfEntry(p)
		}
		b.WriteString(" | ")
		b.WriteString(strings.Join(entries, " "))
	}
	return b.String()
}

// PerfEntry formats one sample as label=value[unit];warn;crit;min[;max].
func PerfEntry(p check.PerfData) string {
	entry := fmt.Sprintf("%s=%s%s;;;%s",
		quoteLabel(p.Label), threshold.FormatValue(p.Value), p.Unit, threshold.FormatValue(p.Min))
	if p.Max != nil {
		entry += ";" + threshold.FormatValue(*p.Max)
	}
	return entry
}

func quoteLabel(label string) string {
	if !strings.ContainsAny(label, " ='") {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}

// renderJSON outputs the result as JSON.
func (f *Formatter) renderJSON(r check.Result) error {
	sev, msg := r.Status()
	output := struct {
		Name     string           `json:"name"`
		Status   check.Severity   `json:"status"`
		Message  string           `json:"message"`
		ExitCode int              `json:"exit_code"`
		Messages []check.Message  `json:"messages"`
		PerfData []check.PerfData `json:"perfdata"`
		Summary  check.Summary    `json:"summary"`
	}{
		Name:     r.Name,
		Status:   sev,
		Message:  msg,
		ExitCode: sev.ExitCode(),
		Messages: r.Messages,
		PerfData: r.PerfData,
		Summary:  check.Summarize(r),
	}
	if output.Messages == nil {
		output.Messages = []check.Message{}
	}
	if output.PerfData == nil {
		output.PerfData = []check.PerfData{}
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

var statusStyles = map[check.Severity]lipgloss.Style{
	check.OK:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
	check.Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
	check.Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
	check.Unknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),  // Gray
}

// renderTable outputs the result as styled tables.
func (f *Formatter) renderTable(r check.Result) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	newTable := func(headers ...string) *table.Table {
		return table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers(headers...)
	}

	sev, msg := r.Status()
	title := "Couchbase Check"
	if r.Name != "" {
		title = fmt.Sprintf("Couchbase %s Check", strings.ToUpper(r.Name))
	}
	fmt.Fprintln(f.writer, titleStyle.Render(title))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintf(f.writer, "Status: %s  %s\n\n", statusStyles[sev].Render(sev.String()), msg)

	if len(r.Messages) > 0 {
		rows := make([][]string, len(r.Messages))
		for i, m := range r.Messages {
			rows[i] = []string{statusStyles[m.Severity].Render(m.Severity.String()), m.Text}
		}
		fmt.Fprintln(f.writer, newTable("SEVERITY", "MESSAGE").Rows(rows...))
		fmt.Fprintln(f.writer)
	}

	if len(r.PerfData) > 0 {
		rows := make([][]string, len(r.PerfData))
		for i, p := range r.PerfData {
			maxStr := "-"
			if p.Max != nil {
				maxStr = threshold.FormatValue(*p.Max)
			}
			rows[i] = []string{
				p.Label,
				threshold.FormatValue(p.Value) + p.Unit,
				threshold.FormatValue(p.Min),
				maxStr,
			}
		}
		fmt.Fprintln(f.writer, newTable("METRIC", "VALUE", "MIN", "MAX").Rows(rows...))
	}

	return nil
}
