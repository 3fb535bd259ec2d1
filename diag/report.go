package diag

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Severity categorizes a diagnostic the way verify.IssueType separates
// STRUCT from TIMING issues.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Issue is a single diagnostic collected during elaboration or finalize,
// grounded on verify.Issue's shape (type, location fields, message).
type Issue struct {
	Severity Severity
	NodeName string
	Location string
	Message  string
}

// Collector accumulates Issues across one Finalize call, the way
// verify.RunLint accumulates []Issue across one program walk.
// fabric.Context.Finalize creates one per call and passes it to
// sched.Compile, which records an issue for every unbound register (or
// for the combinational cycle) before returning its error.
type Collector struct {
	issues []Issue
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one issue.
func (c *Collector) Add(issue Issue) {
	c.issues = append(c.issues, issue)
}

// Issues returns every issue collected so far.
func (c *Collector) Issues() []Issue {
	return append([]Issue(nil), c.issues...)
}

// HasErrors reports whether any collected issue is SeverityError.
func (c *Collector) HasErrors() bool {
	for _, i := range c.issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Report is the aggregate output of a finalize pass: the issues collected
// plus the terminal fatal error, if any, mirroring
// verify.VerificationReport's LintIssues + SimulationErr split.
type Report struct {
	Issues      []Issue
	FatalError  error
}

// NewReport builds a Report from a Collector and an optional terminal
// error (e.g. the CombinationalCycleError that stopped compilation).
func NewReport(c *Collector, fatal error) *Report {
	return &Report{Issues: c.Issues(), FatalError: fatal}
}

// OK reports whether the report carries no errors at all.
func (r *Report) OK() bool {
	return r.FatalError == nil && !hasErrorIssue(r.Issues)
}

func hasErrorIssue(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WriteTo renders the report as an aligned table, the way
// verify.VerificationReport.WriteReport formats STRUCT/TIMING sections,
// but using go-pretty/table instead of hand-rolled fmt.Fprintf separators
// (mirroring core/util.go's use of the same library for log tables).
func (r *Report) WriteTo(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Severity", "Node", "Location", "Message"})
	for _, issue := range r.Issues {
		t.AppendRow(table.Row{issue.Severity, issue.NodeName, issue.Location, issue.Message})
	}
	if r.FatalError != nil {
		t.AppendRow(table.Row{SeverityError, "", "", r.FatalError.Error()})
	}
	t.Render()
}
