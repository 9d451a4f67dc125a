// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/PrismCheck/internal/browser"
	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/monitoring"
	"github.com/valpere/PrismCheck/internal/pages"
	"github.com/valpere/PrismCheck/internal/utils"
)

// Environment variables that override file values.
const (
	EnvBaseURL  = "PRISM_BASE_URL"
	EnvHeadless = "PRISM_HEADLESS"
	EnvLogLevel = "PRISM_LOG_LEVEL"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *SuiteConfig {
	return &SuiteConfig{
		Name:    "Prism Software Solutions",
		BaseURL: pages.DefaultBaseURL,
		Browser: *browser.DefaultConfig(),
		Session: SessionConfig{
			RetryDelay:    2 * time.Second,
			MaxRetryDelay: 30 * time.Second,
			Cooldown:      time.Minute,
		},
		Navigation: NavigationConfig{Burst: 1},
		Preflight: PreflightConfig{
			Enabled: true,
			Timeout: 15 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: monitoring.DefaultMetricsConfig(),
		Report:  ReportConfig{Format: "text", Color: true},
	}
}

// Load returns the configuration in filename, or the defaults when filename
// is empty. Environment overrides are applied in both cases.
func Load(filename string) (*SuiteConfig, error) {
	if filename != "" {
		return LoadFromFile(filename)
	}
	config := DefaultConfig()
	applyEnvOverrides(config, os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*SuiteConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Keys missing from the
// document keep their default values.
func LoadFromBytes(data []byte) (*SuiteConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(config)
	applyEnvOverrides(config, os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*SuiteConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(config *SuiteConfig, filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	data, err := marshal(config)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// SaveToWriter saves configuration to an io.Writer
func SaveToWriter(config *SuiteConfig, writer io.Writer) error {
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	data, err := marshal(config)
	if err != nil {
		return err
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

func marshal(config *SuiteConfig) ([]byte, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}
	return data, nil
}

// GenerateTemplate returns a starter configuration. "live" targets the
// production site; "local" targets the bundled fixture server.
func GenerateTemplate(templateType string) *SuiteConfig {
	config := DefaultConfig()

	switch strings.ToLower(templateType) {
	case "local", "fixture":
		config.Name = "Prism fixture"
		config.BaseURL = "http://localhost:8080"
		config.Browser.ImplicitWait = 5 * time.Second
		config.Browser.ScreenshotDir = "screenshots"
		config.Report.Color = true
	default:
		config.Navigation = NavigationConfig{RateLimit: 2, Burst: 2}
		config.Session.ProvisionRetries = 1
		config.Session.FailureThreshold = 3
		config.Browser.ScreenshotDir = "screenshots"
	}
	return config
}

// applyDefaults fills zero values a document may have set explicitly.
func applyDefaults(config *SuiteConfig) {
	defaults := DefaultConfig()

	config.BaseURL = strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Name == "" {
		config.Name = defaults.Name
	}

	if config.Browser.WindowWidth == 0 {
		config.Browser.WindowWidth = defaults.Browser.WindowWidth
	}
	if config.Browser.WindowHeight == 0 {
		config.Browser.WindowHeight = defaults.Browser.WindowHeight
	}
	if config.Browser.ImplicitWait == 0 {
		config.Browser.ImplicitWait = defaults.Browser.ImplicitWait
	}
	if config.Browser.PageLoadTimeout == 0 {
		config.Browser.PageLoadTimeout = defaults.Browser.PageLoadTimeout
	}

	if config.Session.RetryDelay == 0 {
		config.Session.RetryDelay = defaults.Session.RetryDelay
	}
	if config.Session.MaxRetryDelay == 0 {
		config.Session.MaxRetryDelay = defaults.Session.MaxRetryDelay
	}
	if config.Session.Cooldown == 0 {
		config.Session.Cooldown = defaults.Session.Cooldown
	}

	if config.Navigation.Burst == 0 {
		config.Navigation.Burst = 1
	}
	if config.Preflight.Timeout == 0 {
		config.Preflight.Timeout = defaults.Preflight.Timeout
	}

	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}
	if config.Logging.Format == "" {
		config.Logging.Format = defaults.Logging.Format
	}
	if config.Report.Format == "" {
		config.Report.Format = defaults.Report.Format
	}

	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if config.Metrics.MetricsPath == "" {
		config.Metrics.MetricsPath = defaults.Metrics.MetricsPath
	}
	if config.Metrics.ListenAddress == "" {
		config.Metrics.ListenAddress = defaults.Metrics.ListenAddress
	}
}

// applyEnvOverrides lets the environment retarget a run without editing
// the file. Unparseable values are left for Validate to ignore.
func applyEnvOverrides(config *SuiteConfig, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		config.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv(EnvHeadless); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			config.Browser.Headless = headless
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
}

// LoggerOptions returns the logger settings of the run.
func (sc *SuiteConfig) LoggerOptions(output io.Writer) utils.LoggerOptions {
	level, err := utils.ParseLogLevel(sc.Logging.Level)
	if err != nil {
		level = utils.InfoLevel
	}
	return utils.LoggerOptions{Level: level, Format: sc.Logging.Format, Output: output}
}

// RetryConfig returns the provisioning retry policy.
func (sc *SuiteConfig) RetryConfig() errs.RetryConfig {
	return errs.RetryConfig{
		MaxRetries:    sc.Session.ProvisionRetries,
		BaseDelay:     sc.Session.RetryDelay,
		BackoffFactor: 2.0,
		MaxDelay:      sc.Session.MaxRetryDelay,
	}
}

// BreakerConfig returns the provisioning circuit breaker settings.
func (sc *SuiteConfig) BreakerConfig() errs.CircuitBreakerConfig {
	return errs.CircuitBreakerConfig{
		MaxFailures:  sc.Session.FailureThreshold,
		ResetTimeout: sc.Session.Cooldown,
	}
}

// RateLimiter returns the navigation limiter, or nil when unlimited.
func (sc *SuiteConfig) RateLimiter() *utils.RateLimiter {
	return utils.NewRateLimiter(sc.Navigation.RateLimit, sc.Navigation.Burst)
}
