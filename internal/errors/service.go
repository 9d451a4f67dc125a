// internal/errors/service.go - Fault recovery and reporting for suite runs
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when an operation is refused because it failed
// too many times in a row.
var ErrCircuitOpen = stderrors.New("circuit breaker is open")

// Service provides retry, circuit breaking and user-facing formatting of
// faults.
type Service struct {
	retryConfig     RetryConfig
	breakerConfig   CircuitBreakerConfig
	messageHandler  *MessageHandler
	circuitBreakers map[string]*CircuitBreaker
	mu              sync.RWMutex
}

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries" json:"max_retries"`
	BaseDelay     time.Duration `yaml:"base_delay" json:"base_delay"`
	BackoffFactor float64       `yaml:"backoff_factor" json:"backoff_factor"`
	MaxDelay      time.Duration `yaml:"max_delay" json:"max_delay"`
}

// MessageHandler converts technical errors to user-friendly messages
type MessageHandler struct {
	showTechnical bool
}

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops repeating an operation that keeps failing.
type CircuitBreaker struct {
	name            string
	maxFailures     int
	resetTimeout    time.Duration
	state           CircuitBreakerState
	failures        int
	lastFailureTime time.Time
	nextAttemptTime time.Time
	mu              sync.RWMutex
}

// CircuitBreakerConfig configures circuit breaker behavior. A MaxFailures of
// zero disables the breaker.
type CircuitBreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures" json:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout" json:"reset_timeout"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg RetryConfig) ServiceOption {
	return func(s *Service) {
		s.retryConfig = cfg
	}
}

// WithCircuitBreaker sets the default breaker configuration for operations
// that have none of their own.
func WithCircuitBreaker(cfg CircuitBreakerConfig) ServiceOption {
	return func(s *Service) {
		s.breakerConfig = cfg
	}
}

// NewService creates a service. By default nothing is retried and the
// breaker is disabled.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		retryConfig: RetryConfig{
			MaxRetries:    0,
			BaseDelay:     2 * time.Second,
			BackoffFactor: 2.0,
			MaxDelay:      30 * time.Second,
		},
		messageHandler:  &MessageHandler{showTechnical: false},
		circuitBreakers: make(map[string]*CircuitBreaker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithVerbose enables technical error details
func (s *Service) WithVerbose(verbose bool) *Service {
	s.messageHandler.showTechnical = verbose
	return s
}

// Execute runs operation under the circuit breaker named operationName,
// retrying infrastructure faults per the retry policy. When the breaker is
// open the operation is not attempted and the returned error wraps
// ErrCircuitOpen.
func (s *Service) Execute(ctx context.Context, operationName string, operation func(context.Context) error) error {
	cb := s.getOrCreateCircuitBreaker(operationName)
	if cb != nil && !cb.CanExecute() {
		return Infrastructure(operationName, ErrCircuitOpen)
	}

	err := s.ExecuteWithRetry(ctx, operationName, operation)
	if cb != nil {
		if err != nil && ctx.Err() == nil {
			cb.RecordFailure()
		} else if err == nil {
			cb.RecordSuccess()
		}
	}
	return err
}

// ExecuteWithRetry runs operation until it succeeds, returns a fault that is
// not worth retrying, or the retry budget is spent.
func (s *Service) ExecuteWithRetry(ctx context.Context, operationName string, operation func(context.Context) error) error {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		attempts++
		err := operation(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !s.shouldRetry(ctx, err, attempt) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.calculateDelay(attempt)):
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("operation %s failed after %d attempts: %w", operationName, attempts, lastErr)
}

// getOrCreateCircuitBreaker returns nil when breaking is disabled.
func (s *Service) getOrCreateCircuitBreaker(operationName string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, exists := s.circuitBreakers[operationName]; exists {
		return cb
	}
	if s.breakerConfig.MaxFailures <= 0 {
		return nil
	}

	cb := newCircuitBreaker(operationName, s.breakerConfig)
	s.circuitBreakers[operationName] = cb
	return cb
}

func newCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxFailures:  config.MaxFailures,
		resetTimeout: config.ResetTimeout,
		state:        CircuitClosed,
	}
}

// shouldRetry retries infrastructure faults only. Element and assertion
// faults describe the page, and repeating the call would not change them.
func (s *Service) shouldRetry(ctx context.Context, err error, attempt int) bool {
	if attempt >= s.retryConfig.MaxRetries || ctx.Err() != nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return Classify(err) == KindInfrastructure
}

// calculateDelay computes exponential backoff delay
func (s *Service) calculateDelay(attempt int) time.Duration {
	factor := s.retryConfig.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := time.Duration(float64(s.retryConfig.BaseDelay) * math.Pow(factor, float64(attempt)))
	if s.retryConfig.MaxDelay > 0 && delay > s.retryConfig.MaxDelay {
		delay = s.retryConfig.MaxDelay
	}
	return delay
}

// GetUserFriendlyError converts technical errors to user-friendly messages
func (s *Service) GetUserFriendlyError(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	errStr := strings.ToLower(err.Error())

	if stderrors.Is(err, ErrCircuitOpen) {
		return "Browser Unavailable",
			"Starting the browser failed repeatedly, so remaining scenarios were not attempted.",
			[]string{
				"Run 'prismcheck probe' to check the target and the browser separately",
				"Check that Chrome or Chromium is installed and on PATH",
				"Set browser.exec_path to the Chrome binary",
			}
	}

	if strings.Contains(errStr, "preflight") {
		return "Site Unavailable",
			"The site under test failed its preflight check, so no browser was started.",
			[]string{
				"Run 'prismcheck probe' to see which check failed",
				"Check that base_url is correct and reachable",
				"Set preflight.enabled to false to skip the check",
			}
	}

	switch Classify(err) {
	case KindElement:
		return "Element Not Found",
			"A page element could not be located within the implicit wait.",
			[]string{
				"Check that the locator still matches the live page",
				"The website structure might have changed",
				"Increase browser.implicit_wait if the page renders slowly",
			}
	case KindAssertion:
		return "Assertion Failed",
			"The page did not show the expected content.",
			[]string{
				"Compare the reported value with the live page",
				"Run with -v to see the steps that led to the failure",
			}
	}

	if strings.Contains(errStr, "executable file not found") || strings.Contains(errStr, "starting browser") {
		return "Browser Not Started",
			"Chrome could not be launched for the scenario.",
			[]string{
				"Check that Chrome or Chromium is installed and on PATH",
				"Set browser.exec_path to the Chrome binary",
				"Keep browser.no_sandbox enabled when running in a container",
			}
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Connection Timeout",
			"The site did not finish loading in time.",
			[]string{
				"Check your internet connection",
				"Increase browser.page_load_timeout in the configuration",
				"The website might be slow or experiencing issues",
			}
	}

	if strings.Contains(errStr, "no such host") || strings.Contains(errStr, "err_name_not_resolved") {
		return "Domain Not Found",
			"Could not find the website domain.",
			[]string{
				"Check that base_url is spelled correctly",
				"Check your DNS settings",
			}
	}

	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "err_connection_refused") {
		return "Connection Refused",
			"The website server refused the connection.",
			[]string{
				"Check if the website is accessible in a browser",
				"The server might be temporarily down",
			}
	}

	if strings.Contains(errStr, "yaml") || strings.Contains(errStr, "config") {
		return "Configuration Error",
			"The configuration file could not be used.",
			[]string{
				"Check YAML indentation (use spaces, not tabs)",
				"Run 'prismcheck validate <config>' for details",
				"Run 'prismcheck template' for a working example",
			}
	}

	return "Unexpected Error",
		"An unexpected error occurred during the run.",
		[]string{
			"Try running the command again",
			"Check your configuration file",
		}
}

// FormatErrorForCLI formats error for command-line display
func (s *Service) FormatErrorForCLI(err error) string {
	title, message, suggestions := s.GetUserFriendlyError(err)

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n%s\n", title, message)

	if s.messageHandler.showTechnical {
		fmt.Fprintf(&b, "\nTechnical details: %s\n", err.Error())
	}

	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(&b, "  - %s\n", suggestion)
		}
	}

	return b.String()
}

// CanExecute checks if circuit breaker allows execution
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if time.Now().After(cb.nextAttemptTime) {
			cb.state = CircuitHalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess records successful execution
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
}

// RecordFailure records failed execution
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = time.Now()

	if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = CircuitOpen
		cb.nextAttemptTime = cb.lastFailureTime.Add(cb.resetTimeout)
	}
}

// GetStats returns circuit breaker statistics
func (cb *CircuitBreaker) GetStats() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return map[string]interface{}{
		"name":              cb.name,
		"state":             cb.state.String(),
		"failures":          cb.failures,
		"max_failures":      cb.maxFailures,
		"last_failure_time": cb.lastFailureTime,
		"next_attempt_time": cb.nextAttemptTime,
		"reset_timeout":     cb.resetTimeout,
	}
}

// GetCircuitBreakerStats returns statistics for every breaker created so far,
// keyed by operation name.
func (s *Service) GetCircuitBreakerStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})
	for name, cb := range s.circuitBreakers {
		stats[name] = cb.GetStats()
	}
	return stats
}
