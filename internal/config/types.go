// internal/config/types.go
package config

import (
	"time"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/monitoring"
)

// SuiteConfig is the top-level configuration of a regression run.
type SuiteConfig struct {
	Name       string                   `yaml:"name" json:"name"`
	BaseURL    string                   `yaml:"base_url" json:"base_url"`
	SampleURL  string                   `yaml:"sample_url,omitempty" json:"sample_url,omitempty"`
	Browser    browser.Config           `yaml:"browser" json:"browser"`
	Session    SessionConfig            `yaml:"session" json:"session"`
	Navigation NavigationConfig         `yaml:"navigation" json:"navigation"`
	Preflight  PreflightConfig          `yaml:"preflight" json:"preflight"`
	Logging    LoggingConfig            `yaml:"logging" json:"logging"`
	Metrics    monitoring.MetricsConfig `yaml:"metrics" json:"metrics"`
	Report     ReportConfig             `yaml:"report" json:"report"`
}

// SessionConfig controls how browser sessions are provisioned.
type SessionConfig struct {
	// ProvisionRetries is the number of extra attempts made when a browser
	// fails to start. Element and assertion faults are never retried.
	ProvisionRetries int           `yaml:"provision_retries" json:"provision_retries"`
	RetryDelay       time.Duration `yaml:"retry_delay" json:"retry_delay"`
	MaxRetryDelay    time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`

	// FailureThreshold consecutive provisioning failures open the breaker;
	// remaining scenarios then fail fast until Cooldown elapses. Zero
	// disables the breaker.
	FailureThreshold int           `yaml:"failure_threshold" json:"failure_threshold"`
	Cooldown         time.Duration `yaml:"cooldown" json:"cooldown"`
}

// NavigationConfig paces page loads against the site.
type NavigationConfig struct {
	// RateLimit is the number of page loads per second; zero is unlimited.
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	Burst     int     `yaml:"burst" json:"burst"`
}

// PreflightConfig controls the HTTP reachability check made before the
// first browser is started.
type PreflightConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// LoggingConfig selects the log level and line format.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ReportConfig selects how results are printed.
type ReportConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  bool   `yaml:"color" json:"color"`
}
