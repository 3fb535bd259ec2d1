package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sarchlab/hdlsim/diag"
)

func TestCollectorHasErrors(t *testing.T) {
	c := diag.NewCollector()
	if c.HasErrors() {
		t.Fatalf("empty collector should not have errors")
	}

	c.Add(diag.Issue{Severity: diag.SeverityWarning, Message: "just a warning"})
	if c.HasErrors() {
		t.Fatalf("warning-only collector should not report HasErrors")
	}

	c.Add(diag.Issue{Severity: diag.SeverityError, Message: "boom"})
	if !c.HasErrors() {
		t.Fatalf("collector with an error issue should report HasErrors")
	}
}

func TestReportWriteTo(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.Issue{Severity: diag.SeverityWarning, NodeName: "n1", Location: "f.go:1", Message: "hm"})
	report := diag.NewReport(c, &diag.UnboundNextError{RegisterName: "r0", Location: "f.go:2"})

	if report.OK() {
		t.Fatalf("report with a fatal error should not be OK")
	}

	var buf bytes.Buffer
	report.WriteTo(&buf)
	out := buf.String()
	if !strings.Contains(out, "n1") || !strings.Contains(out, "r0") {
		t.Fatalf("expected rendered table to mention issue and fatal error, got:\n%s", out)
	}
}
