// internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/valpere/PrismCheck/internal/report"
	"github.com/valpere/PrismCheck/internal/utils"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Value != "" {
		return fmt.Sprintf("%s: %s (value: %s)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

func (r *ValidationResult) addError(field, value, format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate returns an error describing every problem in the configuration.
func (sc *SuiteConfig) Validate() error {
	result := sc.ValidateWithDetails()
	if !result.Valid {
		return formatValidationError(result)
	}
	return nil
}

// ValidateWithDetails provides detailed validation results
func (sc *SuiteConfig) ValidateWithDetails() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(sc.Name) == "" {
		result.addError("name", "", "Suite name is required")
	}

	validateURL(result, "base_url", sc.BaseURL, true)
	if sc.SampleURL != "" {
		validateURL(result, "sample_url", sc.SampleURL, false)
	}

	sc.validateBrowser(result)
	sc.validateSession(result)
	sc.validateNavigation(result)

	if sc.Preflight.Enabled && sc.Preflight.Timeout <= 0 {
		result.addError("preflight.timeout", sc.Preflight.Timeout.String(), "Preflight timeout must be positive")
	}

	if _, err := utils.ParseLogLevel(sc.Logging.Level); err != nil {
		result.addError("logging.level", sc.Logging.Level, "Log level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(sc.Logging.Format) {
	case "text", "json":
	default:
		result.addError("logging.format", sc.Logging.Format, "Log format must be text or json")
	}

	if sc.Metrics.Enabled {
		if sc.Metrics.ListenAddress == "" {
			result.addError("metrics.listen_address", "", "Listen address is required when metrics are enabled")
		}
		if !strings.HasPrefix(sc.Metrics.MetricsPath, "/") {
			result.addError("metrics.path", sc.Metrics.MetricsPath, "Metrics path must start with /")
		}
	}

	if _, err := report.ParseFormat(sc.Report.Format); err != nil {
		result.addError("report.format", sc.Report.Format, "Report format must be text, json or yaml")
	}

	return result
}

func validateURL(result *ValidationResult, field, raw string, warnHTTP bool) {
	if raw == "" {
		result.addError(field, "", "URL is required")
		return
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		result.addError(field, raw, "Invalid URL format: %v", err)
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		result.addError(field, raw, "URL must use http:// or https://")
	}
	if parsed.Host == "" {
		result.addError(field, raw, "URL must include hostname")
	}
	if warnHTTP && parsed.Scheme == "http" && !isLocalHost(parsed.Hostname()) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s uses HTTP; the production site is served over HTTPS", field))
	}
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func (sc *SuiteConfig) validateBrowser(result *ValidationResult) {
	b := sc.Browser
	if b.WindowWidth < 0 || b.WindowHeight < 0 {
		result.addError("browser.window", fmt.Sprintf("%dx%d", b.WindowWidth, b.WindowHeight), "Window size cannot be negative")
	}
	if b.ImplicitWait <= 0 {
		result.addError("browser.implicit_wait", b.ImplicitWait.String(), "Implicit wait must be positive")
	}
	if b.PageLoadTimeout <= 0 {
		result.addError("browser.page_load_timeout", b.PageLoadTimeout.String(), "Page load timeout must be positive")
	}
	if b.PageLoadTimeout > 0 && b.ImplicitWait > b.PageLoadTimeout {
		result.Warnings = append(result.Warnings, "browser.implicit_wait exceeds browser.page_load_timeout")
	}
}

func (sc *SuiteConfig) validateSession(result *ValidationResult) {
	s := sc.Session
	if s.ProvisionRetries < 0 {
		result.addError("session.provision_retries", fmt.Sprint(s.ProvisionRetries), "Retries cannot be negative")
	}
	if s.ProvisionRetries > 10 {
		result.addError("session.provision_retries", fmt.Sprint(s.ProvisionRetries), "Retries cannot exceed 10")
	}
	if s.RetryDelay < 0 {
		result.addError("session.retry_delay", s.RetryDelay.String(), "Retry delay cannot be negative")
	}
	if s.FailureThreshold < 0 {
		result.addError("session.failure_threshold", fmt.Sprint(s.FailureThreshold), "Failure threshold cannot be negative")
	}
	if s.FailureThreshold > 0 && s.Cooldown <= 0 {
		result.addError("session.cooldown", s.Cooldown.String(), "Cooldown must be positive when the breaker is enabled")
	}
}

func (sc *SuiteConfig) validateNavigation(result *ValidationResult) {
	n := sc.Navigation
	if n.RateLimit < 0 {
		result.addError("navigation.rate_limit", fmt.Sprint(n.RateLimit), "Rate limit cannot be negative")
	}
	if n.Burst < 0 {
		result.addError("navigation.burst", fmt.Sprint(n.Burst), "Burst cannot be negative")
	}
}

// formatValidationError creates a comprehensive error message
func formatValidationError(result *ValidationResult) error {
	var msg strings.Builder
	msg.WriteString("configuration validation failed:\n")
	for i, err := range result.Errors {
		fmt.Fprintf(&msg, "  %d. %s\n", i+1, err.Error())
	}
	return fmt.Errorf("%s", strings.TrimRight(msg.String(), "\n"))
}
