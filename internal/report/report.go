// Package report turns scenario results into console, JSON or YAML output
// and derives the process exit code.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/harness"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ValidFormats returns all supported formats.
func ValidFormats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat validates s as a Format. An empty string selects text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(s))
	for _, valid := range ValidFormats() {
		if f == valid {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported report format %q (valid: text, json, yaml)", s)
}

// ScenarioReport is the serialized form of one harness.Result.
type ScenarioReport struct {
	ID            string   `json:"id" yaml:"id"`
	Group         string   `json:"group" yaml:"group"`
	Name          string   `json:"name" yaml:"name"`
	Outcome       string   `json:"outcome" yaml:"outcome"`
	Duration      string   `json:"duration" yaml:"duration"`
	Error         string   `json:"error,omitempty" yaml:"error,omitempty"`
	Failures      []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	TeardownError string   `json:"teardown_error,omitempty" yaml:"teardown_error,omitempty"`
	Screenshot    string   `json:"screenshot,omitempty" yaml:"screenshot,omitempty"`
}

// Summary aggregates a suite run.
type Summary struct {
	Suite                string           `json:"suite" yaml:"suite"`
	BaseURL              string           `json:"base_url" yaml:"base_url"`
	StartedAt            time.Time        `json:"started_at" yaml:"started_at"`
	Duration             string           `json:"duration" yaml:"duration"`
	Total                int              `json:"total" yaml:"total"`
	Passed               int              `json:"passed" yaml:"passed"`
	AssertionFailures    int              `json:"assertion_failures" yaml:"assertion_failures"`
	ElementFaults        int              `json:"element_faults" yaml:"element_faults"`
	InfrastructureFaults int              `json:"infrastructure_faults" yaml:"infrastructure_faults"`
	TeardownErrors       int              `json:"teardown_errors" yaml:"teardown_errors"`
	ExitCode             int              `json:"exit_code" yaml:"exit_code"`
	Scenarios            []ScenarioReport `json:"scenarios" yaml:"scenarios"`
}

// Summarize builds a Summary from results.
func Summarize(suite, baseURL string, startedAt time.Time, results []harness.Result) *Summary {
	s := &Summary{
		Suite:     suite,
		BaseURL:   baseURL,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt).Round(time.Millisecond).String(),
		Total:     len(results),
		ExitCode:  ExitCode(results),
		Scenarios: make([]ScenarioReport, 0, len(results)),
	}

	for _, res := range results {
		switch res.Outcome {
		case harness.OutcomePassed:
			s.Passed++
		case harness.OutcomeAssertion:
			s.AssertionFailures++
		case harness.OutcomeElement:
			s.ElementFaults++
		default:
			s.InfrastructureFaults++
		}
		if res.TeardownErr != nil {
			s.TeardownErrors++
		}
		s.Scenarios = append(s.Scenarios, scenarioReport(res))
	}
	return s
}

func scenarioReport(res harness.Result) ScenarioReport {
	sr := ScenarioReport{
		ID:         res.Group + "/" + res.Scenario,
		Group:      res.Group,
		Name:       res.Scenario,
		Outcome:    string(res.Outcome),
		Duration:   res.Duration.Round(time.Millisecond).String(),
		Failures:   res.Failures,
		Screenshot: res.Screenshot,
	}
	if res.Err != nil {
		sr.Error = res.Err.Error()
	}
	if res.TeardownErr != nil {
		sr.TeardownError = res.TeardownErr.Error()
	}
	return sr
}

// ExitCode returns the exit code of the most severe outcome in results.
func ExitCode(results []harness.Result) int {
	worst := errs.KindNone
	for _, res := range results {
		if k := res.Outcome.Kind(); k > worst {
			worst = k
		}
	}
	return worst.ExitCode()
}

// Write renders s to w in the given format.
func Write(w io.Writer, format Format, s *Summary, useColor bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return err
		}
		return encoder.Close()
	case FormatText, "":
		return NewPrinter(w, useColor).Summary(s)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
