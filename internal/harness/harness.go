// Package harness gives every scenario a fresh browser session and always
// tears it down, whatever the scenario's outcome.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/valpere/PrismCheck/internal/browser"
	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/monitoring"
	"github.com/valpere/PrismCheck/internal/utils"
)

// Provisioner starts browser sessions. browser.Launcher is the production
// implementation.
type Provisioner interface {
	Provision(ctx context.Context) (browser.Driver, error)
}

// Scenario is one named, independent check against the site.
type Scenario struct {
	Name        string
	Group       string
	Description string
	Run         func(s *Scope)
}

// Harness runs scenarios one at a time, each in its own session.
type Harness struct {
	provisioner   Provisioner
	baseURL       string
	log           utils.Logger
	metrics       *monitoring.MetricsManager
	errs          *errs.Service
	preflight     func(ctx context.Context) error
	screenshotDir string

	preflightOnce sync.Once
	preflightErr  error
}

// Option configures a Harness.
type Option func(*Harness)

func WithLogger(log utils.Logger) Option {
	return func(h *Harness) {
		if log != nil {
			h.log = log
		}
	}
}

func WithMetrics(metrics *monitoring.MetricsManager) Option {
	return func(h *Harness) {
		h.metrics = metrics
	}
}

// WithErrorService sets the service used to retry and circuit-break
// session provisioning.
func WithErrorService(service *errs.Service) Option {
	return func(h *Harness) {
		if service != nil {
			h.errs = service
		}
	}
}

// WithPreflight registers a check that must pass before any session is
// provisioned. It runs at most once per Harness.
func WithPreflight(check func(ctx context.Context) error) Option {
	return func(h *Harness) {
		h.preflight = check
	}
}

// WithScreenshotDir makes the harness save a full-page screenshot of every
// failed scenario into dir.
func WithScreenshotDir(dir string) Option {
	return func(h *Harness) {
		h.screenshotDir = dir
	}
}

// New creates a harness that provisions sessions from p and points page
// objects at baseURL.
func New(p Provisioner, baseURL string, opts ...Option) *Harness {
	h := &Harness{
		provisioner: p,
		baseURL:     strings.TrimRight(baseURL, "/"),
		log:         utils.NewNopLogger(),
		errs:        errs.NewService(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the site under test.
func (h *Harness) BaseURL() string {
	return h.baseURL
}

// Preflight runs the registered preflight check once and caches its result.
func (h *Harness) Preflight(ctx context.Context) error {
	if h.preflight == nil {
		return nil
	}
	h.preflightOnce.Do(func() {
		if err := h.preflight(ctx); err != nil {
			h.preflightErr = errs.Infrastructure("preflight", err)
		}
	})
	return h.preflightErr
}

func (h *Harness) provision(ctx context.Context) (browser.Driver, error) {
	if err := h.Preflight(ctx); err != nil {
		return nil, err
	}

	var driver browser.Driver
	err := h.errs.Execute(ctx, "provision", func(ctx context.Context) error {
		d, err := h.provisioner.Provision(ctx)
		if err != nil {
			h.metrics.RecordSessionFailed()
			return err
		}
		driver = d
		return nil
	})
	if errors.Is(err, errs.ErrCircuitOpen) {
		if stats, ok := h.errs.GetCircuitBreakerStats()["provision"].(map[string]interface{}); ok {
			h.log.WithFields(stats).Warn("Browser provisioning suspended after repeated failures")
		}
	}
	if err != nil {
		var fault *errs.Fault
		if !errors.As(err, &fault) {
			err = errs.Infrastructure("provision", err)
		}
		return nil, err
	}

	h.metrics.RecordSessionOpened()
	return driver, nil
}

func (h *Harness) teardown(scope *Scope, log utils.Logger) error {
	driver := scope.release()
	err := driver.Close()
	h.metrics.RecordSessionClosed(err)
	if err != nil {
		log.Warnf("Browser session did not close cleanly: %v", err)
		return errs.Infrastructure("teardown", err)
	}
	log.Debug("Browser session closed")
	return nil
}

func (h *Harness) scenarioLogger(sc Scenario) utils.Logger {
	return h.log.WithFields(map[string]interface{}{
		"scenario": sc.Name,
		"group":    sc.Group,
	})
}

// Run executes sc in a fresh session. The session is closed before Run
// returns, on every path.
func (h *Harness) Run(ctx context.Context, sc Scenario) (res Result) {
	start := time.Now()
	log := h.scenarioLogger(sc)
	res = Result{Scenario: sc.Name, Group: sc.Group}

	defer func() {
		res.Duration = time.Since(start)
		h.metrics.RecordScenario(sc.Group, string(res.Outcome), res.Duration)
		h.logResult(log, res)
	}()

	log.Info("Starting scenario")
	driver, err := h.provision(ctx)
	if err != nil {
		res.Outcome = OutcomeInfrastructure
		res.Err = err
		res.Failures = []string{err.Error()}
		return res
	}

	scope := newScope(ctx, sc.Name, h.baseURL, instrument(driver, h.metrics), log, nil)
	defer func() {
		res.TeardownErr = h.teardown(scope, log)
	}()

	h.execute(scope, sc, log)

	kind, err, failures := scope.outcome()
	res.Outcome = OutcomeOf(kind)
	res.Err = err
	res.Failures = failures
	if kind != errs.KindNone {
		res.Screenshot = h.captureScreenshot(ctx, scope, sc, log)
	}
	return res
}

func (h *Harness) execute(scope *Scope, sc Scenario, log utils.Logger) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(abort); ok {
			return
		}
		log.Debugf("panic stack:\n%s", debug.Stack())
		scope.fail(errs.KindInfrastructure, errs.Infrastructure("scenario", fmt.Errorf("panic: %v", r)))
	}()
	sc.Run(scope)
}

func (h *Harness) logResult(log utils.Logger, res Result) {
	fields := map[string]interface{}{
		"outcome":  string(res.Outcome),
		"duration": res.Duration.Round(time.Millisecond).String(),
	}
	if res.Screenshot != "" {
		fields["screenshot"] = res.Screenshot
	}
	log = log.WithFields(fields)
	switch res.Outcome {
	case OutcomePassed:
		log.Info("Scenario passed")
	default:
		log.Errorf("Scenario failed: %v", res.Err)
	}
}

// RunAll runs scenarios sequentially. onResult, if non-nil, is called after
// each scenario finishes.
func (h *Harness) RunAll(ctx context.Context, scenarios []Scenario, onResult func(Result)) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res := h.Run(ctx, sc)
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	return results
}

// RunTest runs sc as part of a go test. A session that cannot be started
// fails the test as an infrastructure fault before the scenario body runs.
// Teardown is registered with t.Cleanup; a teardown failure is logged and
// does not change the test's result.
func RunTest(t testing.TB, h *Harness, sc Scenario) {
	t.Helper()

	ctx := context.Background()
	log := h.scenarioLogger(sc)

	driver, err := h.provision(ctx)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}

	scope := newScope(ctx, sc.Name, h.baseURL, instrument(driver, h.metrics), log, t)
	t.Cleanup(func() {
		if err := h.teardown(scope, log); err != nil {
			t.Logf("teardown: %v", err)
		}
	})
	// Registered last so it runs first, while the session is still open.
	t.Cleanup(func() {
		if t.Failed() {
			if path := h.captureScreenshot(ctx, scope, sc, log); path != "" {
				t.Logf("screenshot saved to %s", path)
			}
		}
	})

	sc.Run(scope)
}

// captureScreenshot saves a screenshot of the current page when a
// screenshot directory is configured. Failures are logged, not returned.
func (h *Harness) captureScreenshot(ctx context.Context, scope *Scope, sc Scenario, log utils.Logger) string {
	if h.screenshotDir == "" {
		return ""
	}

	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	png, err := scope.Driver().Screenshot(shotCtx)
	if err != nil {
		log.Warnf("Failed to capture screenshot: %v", err)
		return ""
	}

	if err := os.MkdirAll(h.screenshotDir, 0o755); err != nil {
		log.Warnf("Failed to create screenshot directory: %v", err)
		return ""
	}

	name := utils.CleanFileName(sc.Group + "-" + sc.Name)
	path := filepath.Join(h.screenshotDir, fmt.Sprintf("%s-%s.png", name, time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		log.Warnf("Failed to write screenshot: %v", err)
		return ""
	}
	return path
}
