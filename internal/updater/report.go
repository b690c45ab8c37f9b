package updater

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ReportHeader is the fixed leading line of every installation report.
const ReportHeader = "Package update results:"

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// Result is the outcome of one package's install attempt.
type Result struct {
	Package   string `json:"package"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Installed bool   `json:"installed"`
	Error     string `json:"error,omitempty"`
}

// Report is the ordered per-package outcome of one update batch. It is
// built during the batch and never mutated afterward. Cleanup holds
// absorbed old-directory deletion failures.
type Report struct {
	Header  string   `json:"header"`
	Results []Result `json:"results"`
	Cleanup []string `json:"cleanupFailures,omitempty"`
}

func (r Result) line() string {
	switch {
	case r.Installed && r.From != "" && r.To != "":
		return fmt.Sprintf("%s %s -> %s", r.Package, r.From, r.To)
	case r.Installed:
		return r.Package
	default:
		return fmt.Sprintf("%s: %s", r.Package, r.Error)
	}
}

// Lines returns the header followed by one line per package, in batch
// order.
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Results)+1)
	lines = append(lines, r.Header)
	for _, res := range r.Results {
		lines = append(lines, res.line())
	}
	return lines
}

// Render writes the human-readable report to w.
func (r Report) Render(w io.Writer) {
	fmt.Fprintln(w, r.Header)
	if len(r.Results) == 0 {
		dimColor.Fprintln(w, "  nothing to update")
	}
	for _, res := range r.Results {
		if res.Installed {
			okColor.Fprintf(w, "  ✓ %s\n", res.line())
		} else {
			failColor.Fprintf(w, "  ✗ %s\n", res.line())
		}
	}
	for _, msg := range r.Cleanup {
		dimColor.Fprintf(w, "  cleanup: %s\n", msg)
	}
}
