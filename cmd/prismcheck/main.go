// cmd/prismcheck/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/config"
	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/fixture"
	"github.com/valpere/PrismCheck/internal/harness"
	"github.com/valpere/PrismCheck/internal/monitoring"
	"github.com/valpere/PrismCheck/internal/pages"
	"github.com/valpere/PrismCheck/internal/probe"
	"github.com/valpere/PrismCheck/internal/report"
	"github.com/valpere/PrismCheck/internal/scenario"
	"github.com/valpere/PrismCheck/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// runOptions holds the flags shared by run, list and probe.
type runOptions struct {
	configFile string
	group      string
	pattern    string
	format     string
	verbose    bool
}

// parseArgs accepts an optional leading config file followed by flags.
func parseArgs(command string, args []string, stderr io.Writer) (runOptions, error) {
	var opts runOptions
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		opts.configFile = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.group, "group", "", "only run scenarios of this group")
	fs.StringVar(&opts.pattern, "scenario", "", "only run scenarios whose group/name matches this regexp")
	fs.StringVar(&opts.format, "format", "", "report format: text, json or yaml")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.BoolVar(&opts.verbose, "verbose", false, "verbose output")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return opts, nil
}

// loadConfig loads the suite configuration and applies command-line
// overrides.
func loadConfig(opts runOptions) (*config.SuiteConfig, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.format != "" {
		cfg.Report.Format = opts.format
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.SuiteConfig, stderr io.Writer) utils.Logger {
	return utils.NewLoggerWithOptions(cfg.LoggerOptions(stderr))
}

// runSuite executes the selected scenarios and returns the exit code of the
// most severe outcome.
func runSuite(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	errorService := errs.NewService()

	opts, err := parseArgs("run", args, stderr)
	if err != nil {
		return errs.ExitConfig
	}
	errorService = errorService.WithVerbose(opts.verbose)

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprint(stderr, errorService.FormatErrorForCLI(err))
		return errs.ExitConfig
	}

	scenarios, err := scenario.Select(scenario.All(scenario.Options{SampleURL: cfg.SampleURL}), opts.group, opts.pattern)
	if err != nil {
		fmt.Fprint(stderr, errorService.FormatErrorForCLI(err))
		return errs.ExitConfig
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(stderr, "Error: no scenarios match the given group and pattern")
		return errs.ExitConfig
	}

	log := newLogger(cfg, stderr).WithField("suite", cfg.Name)
	format, _ := report.ParseFormat(cfg.Report.Format)

	metrics := monitoring.NewMetricsManager(cfg.Metrics)
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(ctx, cfg.Metrics.ListenAddress, cfg.Metrics.MetricsPath); err != nil {
				log.Warnf("Metrics server stopped: %v", err)
			}
		}()
		log.Infof("Serving metrics on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.MetricsPath)
	}

	service := errs.NewService(
		errs.WithRetryConfig(cfg.RetryConfig()),
		errs.WithCircuitBreaker(cfg.BreakerConfig()),
	).WithVerbose(opts.verbose)

	limiter := cfg.RateLimiter()
	launcher := browser.NewLauncher(&cfg.Browser,
		browser.WithLogger(log),
		browser.WithRateLimiter(limiter),
	)

	harnessOpts := []harness.Option{
		harness.WithLogger(log),
		harness.WithMetrics(metrics),
		harness.WithErrorService(service),
		harness.WithScreenshotDir(cfg.Browser.ScreenshotDir),
	}
	if cfg.Preflight.Enabled {
		checks := preflightChecks(cfg, newProber(cfg, log, limiter), true)
		harnessOpts = append(harnessOpts, harness.WithPreflight(func(ctx context.Context) error {
			health := checks.RunChecks(ctx)
			logHealth(log, health)
			return health.Err()
		}))
	}
	h := harness.New(launcher, cfg.BaseURL, harnessOpts...)

	// A failed preflight is reported once here; RunAll then records every
	// scenario as an infrastructure fault without starting a browser.
	if err := h.Preflight(ctx); err != nil {
		fmt.Fprint(stderr, service.FormatErrorForCLI(err))
	}

	log.Infof("Running %d scenarios against %s", len(scenarios), cfg.BaseURL)
	started := time.Now()

	var onResult func(harness.Result)
	printer := report.NewPrinter(stdout, cfg.Report.Color)
	if format == report.FormatText {
		onResult = printer.Result
	}

	results := h.RunAll(ctx, scenarios, onResult)
	summary := report.Summarize(cfg.Name, cfg.BaseURL, started, results)

	if format == report.FormatText {
		err = printer.Totals(summary)
	} else {
		err = report.Write(stdout, format, summary, false)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: writing report: %v\n", err)
	}

	return summary.ExitCode
}

func newProber(cfg *config.SuiteConfig, log utils.Logger, limiter *utils.RateLimiter) *probe.Prober {
	return probe.New(cfg.Preflight.Timeout,
		probe.WithLogger(log),
		probe.WithRateLimiter(limiter),
		probe.WithUserAgent(cfg.Preflight.UserAgent),
	)
}

// preflightChecks registers what must hold before any browser starts. Only
// site reachability is critical: landmarks may be rendered client-side and
// chromedp finds browsers outside PATH as well.
func preflightChecks(cfg *config.SuiteConfig, prober *probe.Prober, landmarks bool) *monitoring.HealthManager {
	hm := monitoring.NewHealthManager(monitoring.HealthConfig{DefaultTimeout: cfg.Preflight.Timeout})

	hm.RegisterCheck(monitoring.FuncHealthCheck("site", true, func(ctx context.Context) error {
		return prober.Check(ctx, cfg.BaseURL)
	}))
	if landmarks {
		hm.RegisterCheck(monitoring.FuncHealthCheck("landmarks", false, func(ctx context.Context) error {
			var missing []string
			for _, route := range prober.Probe(ctx, cfg.BaseURL, pages.Routes()).Routes {
				for _, m := range route.Missing {
					missing = append(missing, route.Name+": "+m)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("not in served HTML: %s", strings.Join(missing, "; "))
			}
			return nil
		}))
	}
	hm.RegisterCheck(monitoring.ExecutableHealthCheck("chrome", cfg.Browser.ExecPath, false, browser.FindChrome))
	return hm
}

func logHealth(log utils.Logger, health monitoring.SystemHealth) {
	for _, c := range health.Checks {
		entry := log.WithFields(map[string]interface{}{"check": c.Name, "duration": c.Duration})
		switch {
		case c.Status == monitoring.HealthStatusHealthy:
			entry.Debugf("Preflight check passed")
		case c.Critical:
			entry.Errorf("Preflight check failed: %s%s", c.Message, c.Error)
		default:
			entry.Warnf("Preflight check degraded: %s%s", c.Message, c.Error)
		}
	}
}

// listScenarios prints the registered scenarios.
func listScenarios(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs("list", args, stderr)
	if err != nil {
		return errs.ExitConfig
	}

	scenarios, err := scenario.Select(scenario.All(scenario.Options{}), opts.group, opts.pattern)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errs.ExitConfig
	}

	for _, group := range scenario.Groups(scenarios) {
		fmt.Fprintf(stdout, "%s:\n", group)
		for _, sc := range scenarios {
			if sc.Group == group {
				fmt.Fprintf(stdout, "  %-32s %s\n", sc.Name, sc.Description)
			}
		}
	}
	fmt.Fprintf(stdout, "\n%d scenarios\n", len(scenarios))
	return errs.ExitOK
}

// probeSite checks every route over HTTP without starting a browser.
func probeSite(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs("probe", args, stderr)
	if err != nil {
		return errs.ExitConfig
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprint(stderr, errs.NewService().FormatErrorForCLI(err))
		return errs.ExitConfig
	}

	log := newLogger(cfg, stderr)
	prober := newProber(cfg, log, cfg.RateLimiter())
	health := preflightChecks(cfg, prober, false).RunChecks(ctx)
	rep := prober.Probe(ctx, cfg.BaseURL, pages.Routes())

	out := struct {
		Health monitoring.SystemHealth `json:"health" yaml:"health"`
		Probe  *probe.Report           `json:"probe" yaml:"probe"`
	}{health, rep}

	switch format, _ := report.ParseFormat(cfg.Report.Format); format {
	case report.FormatJSON:
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(out)
	case report.FormatYAML:
		err = yaml.NewEncoder(stdout).Encode(out)
	default:
		for _, c := range health.Checks {
			fmt.Fprintf(stdout, "%-9s %-10s %s%s\n", c.Status, c.Name, c.Message, c.Error)
		}
		fmt.Fprintln(stdout)
		for _, route := range rep.Routes {
			status := "OK  "
			if !route.OK() {
				status = "FAIL"
			}
			fmt.Fprintf(stdout, "%s %-8s %s %d %q landmarks %d/%d\n",
				status, route.Name, route.URL, route.Status, route.Title,
				len(route.Found), len(route.Found)+len(route.Missing))
			if route.Error != "" {
				fmt.Fprintf(stdout, "     %s\n", route.Error)
			}
			for _, m := range route.Missing {
				fmt.Fprintf(stdout, "     not in served HTML: %s\n", m)
			}
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: writing probe report: %v\n", err)
	}

	if !rep.Reachable() || health.Err() != nil {
		return errs.ExitInfrastructure
	}
	return errs.ExitOK
}

// generateTemplate writes a starter configuration to stdout or, with
// --output, to a file.
func generateTemplate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	fs.SetOutput(stderr)
	templateType := fs.String("type", "live", "template type: live or local")
	output := fs.String("output", "", "write the template to this file")
	if err := fs.Parse(args); err != nil {
		return errs.ExitConfig
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errs.ExitConfig
	}

	cfg := config.GenerateTemplate(*templateType)
	if *output == "" {
		if err := config.SaveToWriter(cfg, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return errs.ExitConfig
		}
		return errs.ExitOK
	}

	if err := config.SaveToFile(cfg, *output); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errs.ExitConfig
	}
	fmt.Fprintf(stdout, "✓ Configuration template written to '%s'\n", *output)
	return errs.ExitOK
}

// validateConfig loads a configuration file and reports problems.
func validateConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, "Error: config file required\n")
		fmt.Fprintf(stderr, "Usage: prismcheck validate <config.yaml>\n")
		return errs.ExitConfig
	}

	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		fmt.Fprint(stderr, errs.NewService().FormatErrorForCLI(err))
		return errs.ExitConfig
	}

	for _, w := range cfg.ValidateWithDetails().Warnings {
		fmt.Fprintf(stdout, "! %s\n", w)
	}
	fmt.Fprintf(stdout, "✓ Configuration file '%s' is valid\n", args[0])
	return errs.ExitOK
}

// serveFixture runs the local replica of the site until interrupted.
func serveFixture(ctx context.Context, args []string, stderr io.Writer) int {
	addr := ":8080"
	if len(args) > 0 {
		addr = args[0]
	}

	log := utils.NewLoggerWithOptions(utils.LoggerOptions{Level: utils.InfoLevel, Output: stderr})
	srv, err := fixture.New(fixture.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errs.ExitInfrastructure
	}
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errs.ExitInfrastructure
	}
	return errs.ExitOK
}

// execute routes a command line to its handler and returns the exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage()
		return errs.ExitConfig
	}

	command, rest := args[0], args[1:]
	switch command {
	case "run":
		return runSuite(ctx, rest, stdout, stderr)
	case "list":
		return listScenarios(rest, stdout, stderr)
	case "probe":
		return probeSite(ctx, rest, stdout, stderr)
	case "template":
		return generateTemplate(rest, stdout, stderr)
	case "validate":
		return validateConfig(rest, stdout, stderr)
	case "fixture":
		return serveFixture(ctx, rest, stderr)
	case "version", "--version":
		printVersion()
		return errs.ExitOK
	case "help", "--help", "-h":
		printUsage()
		return errs.ExitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		return errs.ExitConfig
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// printUsage displays help information
func printUsage() {
	fmt.Println("PrismCheck - UI regression suite for prismsoftwaresolutions.com")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  prismcheck run [config.yaml] [flags]     Run the scenarios in fresh browser sessions")
	fmt.Println("  prismcheck list [flags]                  List registered scenarios")
	fmt.Println("  prismcheck probe [config.yaml]           Check every page over HTTP without a browser")
	fmt.Println("  prismcheck template [--type <type>] [--output <file>]")
	fmt.Println("                                           Generate configuration template")
	fmt.Println("  prismcheck validate <config.yaml>        Validate configuration file")
	fmt.Println("  prismcheck fixture [addr]                Serve a local replica of the site (default :8080)")
	fmt.Println("  prismcheck version                       Show version information")
	fmt.Println("  prismcheck help                          Show this help message")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --group <name>                           Only scenarios of this group (home, about, contact, navigation, sample)")
	fmt.Println("  --scenario <regexp>                      Only scenarios whose group/name matches")
	fmt.Println("  --format <text|json|yaml>                Report format")
	fmt.Println("  -v, --verbose                            Debug logging and technical error details")
	fmt.Println()
	fmt.Println("Template types:")
	fmt.Println("  live        Production site (default)")
	fmt.Println("  local       Bundled fixture server on localhost:8080")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0 passed, 1 assertion failure, 2 configuration error, 3 element fault, 4 infrastructure fault")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("PrismCheck %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
