package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/harness"
)

func sampleResults() []harness.Result {
	return []harness.Result{
		{Scenario: "loads_successfully", Group: "home", Outcome: harness.OutcomePassed, Duration: 1200 * time.Millisecond},
		{
			Scenario: "mission_visible", Group: "about", Outcome: harness.OutcomeAssertion,
			Err:      errs.Assertion("Mission section should be visible"),
			Failures: []string{"Mission section should be visible"},
			Duration: 2 * time.Second,
		},
		{
			Scenario: "fill_form", Group: "contact", Outcome: harness.OutcomePassed,
			TeardownErr: errors.New("closing browser: boom"),
		},
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []harness.Outcome
		want     int
	}{
		{"no results", nil, errs.ExitOK},
		{"all passed", []harness.Outcome{harness.OutcomePassed, harness.OutcomePassed}, errs.ExitOK},
		{"assertion", []harness.Outcome{harness.OutcomePassed, harness.OutcomeAssertion}, errs.ExitAssertion},
		{"element beats assertion", []harness.Outcome{harness.OutcomeAssertion, harness.OutcomeElement}, errs.ExitElement},
		{"infrastructure beats all", []harness.Outcome{harness.OutcomeInfrastructure, harness.OutcomeElement, harness.OutcomeAssertion}, errs.ExitInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []harness.Result
			for _, o := range tt.outcomes {
				results = append(results, harness.Result{Outcome: o})
			}
			if got := ExitCode(results); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("Prism", "https://prism.test", time.Now().Add(-time.Minute), sampleResults())

	if s.Total != 3 || s.Passed != 2 || s.AssertionFailures != 1 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.TeardownErrors != 1 {
		t.Errorf("TeardownErrors = %d, want 1", s.TeardownErrors)
	}
	if s.ExitCode != errs.ExitAssertion {
		t.Errorf("ExitCode = %d, want %d", s.ExitCode, errs.ExitAssertion)
	}
	if got := s.Scenarios[1].ID; got != "about/mission_visible" {
		t.Errorf("ID = %q", got)
	}
	if s.Scenarios[1].Error == "" {
		t.Error("expected error text for failed scenario")
	}
	if s.Scenarios[2].TeardownError != "closing browser: boom" {
		t.Errorf("TeardownError = %q", s.Scenarios[2].TeardownError)
	}
}

func TestWrite_JSON(t *testing.T) {
	s := Summarize("Prism", "https://prism.test", time.Now(), sampleResults())

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, s, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["exit_code"] != float64(errs.ExitAssertion) {
		t.Errorf("exit_code = %v", decoded["exit_code"])
	}
	if n := len(decoded["scenarios"].([]interface{})); n != 3 {
		t.Errorf("scenarios = %d, want 3", n)
	}
}

func TestWrite_YAML(t *testing.T) {
	s := Summarize("Prism", "https://prism.test", time.Now(), sampleResults())

	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, s, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded struct {
		Suite     string `yaml:"suite"`
		Passed    int    `yaml:"passed"`
		Scenarios []struct {
			ID      string `yaml:"id"`
			Outcome string `yaml:"outcome"`
		} `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if decoded.Suite != "Prism" || decoded.Passed != 2 {
		t.Errorf("unexpected summary: %+v", decoded)
	}
	if decoded.Scenarios[1].Outcome != string(harness.OutcomeAssertion) {
		t.Errorf("outcome = %q", decoded.Scenarios[1].Outcome)
	}
}

func TestWrite_Text(t *testing.T) {
	s := Summarize("Prism", "https://prism.test", time.Now(), sampleResults())

	var buf bytes.Buffer
	if err := Write(&buf, FormatText, s, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PASS home/loads_successfully",
		"FAIL about/mission_visible [assertion_failed]",
		"     Mission section should be visible",
		"teardown: closing browser: boom",
		"FAILED Prism against https://prism.test",
		"exit code: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color escapes written with color disabled")
	}
}

func TestPrinter_ColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Result(harness.Result{Scenario: "x", Group: "home", Outcome: harness.OutcomePassed})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected color escapes, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), &Summary{}, false); err == nil {
		t.Error("expected error for unknown format")
	}
}
