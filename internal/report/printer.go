package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/valpere/PrismCheck/internal/harness"
	"github.com/valpere/PrismCheck/internal/utils"
)

// maxFailureWidth bounds a failure line in text output; JSON and YAML keep
// the full message.
const maxFailureWidth = 400

// Printer writes human-readable results, one line per scenario as it
// finishes followed by a summary block.
type Printer struct {
	w     io.Writer
	pass  *color.Color
	fail  *color.Color
	warn  *color.Color
	faint *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:     w,
		pass:  color.New(color.FgGreen, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.warn, p.faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Result prints a single scenario result. It has the shape expected by
// harness.RunAll's callback.
func (p *Printer) Result(res harness.Result) {
	p.scenario(scenarioReport(res))
}

// Summary prints every scenario followed by the totals.
func (p *Printer) Summary(s *Summary) error {
	for _, sc := range s.Scenarios {
		p.scenario(sc)
	}
	return p.Totals(s)
}

func (p *Printer) scenario(sc ScenarioReport) {
	if sc.Outcome == string(harness.OutcomePassed) {
		fmt.Fprintf(p.w, "%s %s %s\n", p.pass.Sprint("PASS"), sc.ID, p.faint.Sprintf("(%s)", sc.Duration))
	} else {
		fmt.Fprintf(p.w, "%s %s [%s] %s\n", p.fail.Sprint("FAIL"), sc.ID, sc.Outcome, p.faint.Sprintf("(%s)", sc.Duration))
		for _, f := range sc.Failures {
			fmt.Fprintf(p.w, "     %s\n", utils.TruncateString(f, maxFailureWidth))
		}
	}
	if sc.TeardownError != "" {
		fmt.Fprintf(p.w, "     %s %s\n", p.warn.Sprint("teardown:"), sc.TeardownError)
	}
	if sc.Screenshot != "" {
		fmt.Fprintf(p.w, "     screenshot: %s\n", sc.Screenshot)
	}
}

// Totals prints the summary block only.
func (p *Printer) Totals(s *Summary) error {
	status := p.pass.Sprint("OK")
	if s.ExitCode != 0 {
		status = p.fail.Sprint("FAILED")
	}

	_, err := fmt.Fprintf(p.w, "\n%s %s against %s\n"+
		"  scenarios: %d  passed: %d  assertion failures: %d  element faults: %d  infrastructure faults: %d\n"+
		"  teardown errors: %d  duration: %s  exit code: %d\n",
		status, s.Suite, s.BaseURL,
		s.Total, s.Passed, s.AssertionFailures, s.ElementFaults, s.InfrastructureFaults,
		s.TeardownErrors, s.Duration, s.ExitCode)
	return err
}
