// internal/monitoring/health.go
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// HealthCheck is one precondition of a run, such as a reachable site or an
// installed browser. A failing critical check makes the whole run
// unhealthy; a failing non-critical check only degrades it.
type HealthCheck struct {
	Name      string
	Critical  bool
	Timeout   time.Duration
	CheckFunc func(ctx context.Context) HealthCheckResult
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Name     string                 `json:"name" yaml:"name"`
	Status   HealthStatus           `json:"status" yaml:"status"`
	Message  string                 `json:"message,omitempty" yaml:"message,omitempty"`
	Error    string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Critical bool                   `json:"critical" yaml:"critical"`
	Duration time.Duration          `json:"duration" yaml:"duration"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// HealthConfig configuration for health checks
type HealthConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout" json:"default_timeout"`
}

// HealthSummary provides a summary of health checks
type HealthSummary struct {
	Total     int `json:"total" yaml:"total"`
	Healthy   int `json:"healthy" yaml:"healthy"`
	Unhealthy int `json:"unhealthy" yaml:"unhealthy"`
	Degraded  int `json:"degraded" yaml:"degraded"`
	Unknown   int `json:"unknown" yaml:"unknown"`
	Critical  int `json:"critical" yaml:"critical"`
}

// SystemHealth is the outcome of one RunChecks call.
type SystemHealth struct {
	Status    HealthStatus        `json:"status" yaml:"status"`
	Timestamp time.Time           `json:"timestamp" yaml:"timestamp"`
	Checks    []HealthCheckResult `json:"checks" yaml:"checks"`
	Summary   HealthSummary       `json:"summary" yaml:"summary"`
}

// Err returns an error naming every failed critical check, or nil.
func (h SystemHealth) Err() error {
	var errs []error
	for _, c := range h.Checks {
		if c.Critical && c.Status == HealthStatusUnhealthy {
			reason := c.Error
			if reason == "" {
				reason = c.Message
			}
			errs = append(errs, fmt.Errorf("%s check failed: %s", c.Name, reason))
		}
	}
	return errors.Join(errs...)
}

// HealthManager runs registered checks on demand.
type HealthManager struct {
	mu     sync.RWMutex
	checks []*HealthCheck
	config HealthConfig
}

// NewHealthManager creates a new health manager
func NewHealthManager(config HealthConfig) *HealthManager {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 10 * time.Second
	}
	return &HealthManager{config: config}
}

// RegisterCheck adds check, replacing any check with the same name.
func (hm *HealthManager) RegisterCheck(check *HealthCheck) {
	if check.Timeout == 0 {
		check.Timeout = hm.config.DefaultTimeout
	}

	hm.mu.Lock()
	defer hm.mu.Unlock()
	for i, c := range hm.checks {
		if c.Name == check.Name {
			hm.checks[i] = check
			return
		}
	}
	hm.checks = append(hm.checks, check)
}

// RemoveCheck removes a health check
func (hm *HealthManager) RemoveCheck(name string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	for i, c := range hm.checks {
		if c.Name == name {
			hm.checks = append(hm.checks[:i], hm.checks[i+1:]...)
			return
		}
	}
}

// RunChecks runs every check concurrently and reports them in registration
// order.
func (hm *HealthManager) RunChecks(ctx context.Context) SystemHealth {
	hm.mu.RLock()
	checks := append([]*HealthCheck(nil), hm.checks...)
	hm.mu.RUnlock()

	results := make([]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, c *HealthCheck) {
			defer wg.Done()
			results[i] = runCheck(ctx, c)
		}(i, check)
	}
	wg.Wait()

	health := SystemHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Checks:    results,
	}
	for _, r := range results {
		health.Summary.Total++
		if r.Critical {
			health.Summary.Critical++
		}
		switch r.Status {
		case HealthStatusHealthy:
			health.Summary.Healthy++
		case HealthStatusUnhealthy:
			health.Summary.Unhealthy++
			if r.Critical {
				health.Status = HealthStatusUnhealthy
			} else if health.Status == HealthStatusHealthy {
				health.Status = HealthStatusDegraded
			}
		case HealthStatusDegraded:
			health.Summary.Degraded++
			if health.Status == HealthStatusHealthy {
				health.Status = HealthStatusDegraded
			}
		default:
			health.Summary.Unknown++
			if health.Status == HealthStatusHealthy {
				health.Status = HealthStatusDegraded
			}
		}
	}
	return health
}

func runCheck(ctx context.Context, check *HealthCheck) HealthCheckResult {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	var result HealthCheckResult
	if check.CheckFunc != nil {
		result = check.CheckFunc(checkCtx)
	} else {
		result = HealthCheckResult{Status: HealthStatusUnknown, Message: "No check function defined"}
	}

	result.Name = check.Name
	result.Critical = check.Critical
	result.Duration = time.Since(start)
	return result
}

// FuncHealthCheck wraps fn as a check that is healthy when fn returns nil.
func FuncHealthCheck(name string, critical bool, fn func(ctx context.Context) error) *HealthCheck {
	return &HealthCheck{
		Name:     name,
		Critical: critical,
		CheckFunc: func(ctx context.Context) HealthCheckResult {
			if err := fn(ctx); err != nil {
				return HealthCheckResult{Status: HealthStatusUnhealthy, Error: err.Error()}
			}
			return HealthCheckResult{Status: HealthStatusHealthy}
		},
	}
}

// ExecutableHealthCheck verifies that a program is installed. When path is
// set it must exist; otherwise lookup must find one.
func ExecutableHealthCheck(name, path string, critical bool, lookup func() string) *HealthCheck {
	return &HealthCheck{
		Name:     name,
		Critical: critical,
		CheckFunc: func(ctx context.Context) HealthCheckResult {
			p := path
			if p == "" && lookup != nil {
				p = lookup()
			}
			if p == "" {
				return HealthCheckResult{Status: HealthStatusUnhealthy, Message: "executable not found on PATH"}
			}
			if _, err := os.Stat(p); err != nil {
				return HealthCheckResult{Status: HealthStatusUnhealthy, Error: err.Error()}
			}
			return HealthCheckResult{
				Status:   HealthStatusHealthy,
				Metadata: map[string]interface{}{"path": p},
			}
		},
	}
}
