// cmd/prismcheck/main_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/PrismCheck/internal/config"
	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/fixture"
	"github.com/valpere/PrismCheck/internal/report"
)

func TestCLIVersion(t *testing.T) {
	version = "test-version"
	buildTime = "2026-10-18"
	gitCommit = "abc123"

	output := captureOutput(func() {
		printVersion()
	})

	for _, want := range []string{"test-version", "2026-10-18", "abc123"} {
		if !strings.Contains(output, want) {
			t.Errorf("version output should contain %q, got: %s", want, output)
		}
	}
}

func TestCLIHelp(t *testing.T) {
	output := captureOutput(func() {
		printUsage()
	})

	commands := []string{"run", "list", "probe", "validate", "template", "fixture", "version", "help"}
	for _, cmd := range commands {
		if !strings.Contains(output, cmd) {
			t.Errorf("help output should contain command %q, got: %s", cmd, output)
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	captureOutput(func() {
		if code := execute(context.Background(), []string{"scrape"}, io.Discard, &stderr); code != errs.ExitConfig {
			t.Errorf("exit code = %d, want %d", code, errs.ExitConfig)
		}
	})
	if !strings.Contains(stderr.String(), "unknown command 'scrape'") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestList(t *testing.T) {
	var stdout bytes.Buffer
	code := execute(context.Background(), []string{"list"}, &stdout, io.Discard)
	if code != errs.ExitOK {
		t.Fatalf("exit code = %d", code)
	}

	out := stdout.String()
	for _, want := range []string{"home:", "about:", "contact:", "navigation:", "sample:", "forward_button", "31 scenarios"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	stdout.Reset()
	execute(context.Background(), []string{"list", "--group", "navigation"}, &stdout, io.Discard)
	if !strings.Contains(stdout.String(), "6 scenarios") {
		t.Errorf("filtered list:\n%s", stdout.String())
	}
}

func TestTemplate(t *testing.T) {
	for _, kind := range []string{"live", "local"} {
		var stdout bytes.Buffer
		if code := execute(context.Background(), []string{"template", "--type", kind}, &stdout, io.Discard); code != errs.ExitOK {
			t.Fatalf("template %s: exit code = %d", kind, code)
		}
		if _, err := config.LoadFromBytes(stdout.Bytes()); err != nil {
			t.Errorf("template %s does not load: %v", kind, err)
		}
	}
}

func TestTemplate_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "local.yaml")

	var stdout bytes.Buffer
	code := execute(context.Background(), []string{"template", "--type", "local", "--output", path}, &stdout, io.Discard)
	if code != errs.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), path) {
		t.Errorf("unexpected stdout: %s", stdout.String())
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("written template does not load: %v", err)
	}
	if !strings.Contains(cfg.BaseURL, "localhost") {
		t.Errorf("expected local base URL, got %s", cfg.BaseURL)
	}

	if code := execute(context.Background(), []string{"template", "--bogus"}, io.Discard, io.Discard); code != errs.ExitConfig {
		t.Errorf("bad flag exit code = %d, want %d", code, errs.ExitConfig)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestValidate(t *testing.T) {
	var stdout, stderr bytes.Buffer

	valid := writeConfig(t, "name: ok\nbase_url: http://prismsoftwaresolutions.com\n")
	if code := execute(context.Background(), []string{"validate", valid}, &stdout, &stderr); code != errs.ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "is valid") {
		t.Errorf("unexpected stdout: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "uses HTTP") {
		t.Errorf("expected HTTP warning, got: %s", stdout.String())
	}

	invalid := writeConfig(t, "logging:\n  level: loud\n")
	stderr.Reset()
	if code := execute(context.Background(), []string{"validate", invalid}, io.Discard, &stderr); code != errs.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, errs.ExitConfig)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}

	if code := execute(context.Background(), []string{"validate"}, io.Discard, io.Discard); code != errs.ExitConfig {
		t.Errorf("missing argument: exit code = %d", code)
	}
}

func TestProbe_Fixture(t *testing.T) {
	srv, err := fixture.New()
	if err != nil {
		t.Fatalf("fixture.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	path := writeConfig(t, "base_url: "+ts.URL+"\nlogging:\n  level: error\n")

	var stdout bytes.Buffer
	if code := execute(context.Background(), []string{"probe", path}, &stdout, io.Discard); code != errs.ExitOK {
		t.Fatalf("exit code = %d, output:\n%s", code, stdout.String())
	}
	out := stdout.String()
	for _, want := range []string{"OK   home", "OK   about", "OK   contact", fixture.ContactTitle} {
		if !strings.Contains(out, want) {
			t.Errorf("probe output missing %q:\n%s", want, out)
		}
	}
}

func TestProbe_JSON(t *testing.T) {
	srv, err := fixture.New()
	if err != nil {
		t.Fatalf("fixture.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	path := writeConfig(t, "base_url: "+ts.URL+"\nlogging:\n  level: error\n")

	var stdout bytes.Buffer
	execute(context.Background(), []string{"probe", path, "--format", "json"}, &stdout, io.Discard)
	if !strings.Contains(stdout.String(), `"base_url": "`+ts.URL+`"`) {
		t.Errorf("unexpected JSON:\n%s", stdout.String())
	}
}

func TestProbe_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	path := writeConfig(t, "base_url: "+ts.URL+"\nlogging:\n  level: error\n")
	if code := execute(context.Background(), []string{"probe", path}, io.Discard, io.Discard); code != errs.ExitInfrastructure {
		t.Errorf("exit code = %d, want %d", code, errs.ExitInfrastructure)
	}
}

func TestRun_PreflightFailureIsInfrastructure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	path := writeConfig(t, "base_url: "+ts.URL+"\nlogging:\n  level: error\n")

	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"run", path, "--group", "home"}, io.Discard, &stderr)
	if code != errs.ExitInfrastructure {
		t.Errorf("exit code = %d, want %d; stderr: %s", code, errs.ExitInfrastructure, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Error: Site Unavailable") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestRun_PreflightFailureReportsEveryScenario(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	path := writeConfig(t, "base_url: "+ts.URL+"\nlogging:\n  level: error\n")

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"run", path, "--group", "about", "--format", "json"}, &stdout, &stderr)
	if code != errs.ExitInfrastructure {
		t.Fatalf("exit code = %d, want %d; stderr: %s", code, errs.ExitInfrastructure, stderr.String())
	}

	var summary report.Summary
	if err := json.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("stdout is not a JSON summary: %v\n%s", err, stdout.String())
	}
	if summary.Total != 9 || summary.InfrastructureFaults != 9 || summary.ExitCode != errs.ExitInfrastructure {
		t.Errorf("unexpected totals: total=%d infra=%d exit=%d", summary.Total, summary.InfrastructureFaults, summary.ExitCode)
	}
	for _, sc := range summary.Scenarios {
		if sc.Outcome != "infrastructure_fault" || !strings.Contains(sc.Error, "preflight") {
			t.Errorf("%s: outcome %s, error %q", sc.ID, sc.Outcome, sc.Error)
		}
	}
}

func TestRun_NoMatchingScenarios(t *testing.T) {
	path := writeConfig(t, "preflight:\n  enabled: false\n")

	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"run", path, "--group", "checkout"}, io.Discard, &stderr)
	if code != errs.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, errs.ExitConfig)
	}
	if !strings.Contains(stderr.String(), "no scenarios match") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	if code := execute(context.Background(), []string{"run", "--bogus"}, io.Discard, io.Discard); code != errs.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, errs.ExitConfig)
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs("run", []string{"suite.yaml", "--group", "about", "--scenario", "mission", "-v"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}
	if opts.configFile != "suite.yaml" || opts.group != "about" || opts.pattern != "mission" || !opts.verbose {
		t.Errorf("unexpected options: %+v", opts)
	}

	opts, err = parseArgs("list", []string{"--group", "home"}, io.Discard)
	if err != nil || opts.configFile != "" || opts.group != "home" {
		t.Errorf("unexpected options: %+v, %v", opts, err)
	}

	if _, err := parseArgs("run", []string{"a.yaml", "--group", "home", "extra"}, io.Discard); err == nil {
		t.Error("expected error for trailing argument")
	}
}

// captureOutput captures stdout during function execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()
	w.Close()
	os.Stdout = old
	out := <-outC

	return out
}
