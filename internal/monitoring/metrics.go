// internal/monitoring/metrics.go
package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager manages Prometheus metrics for a suite run. Each manager
// owns its registry, so several runs in one process do not collide.
type MetricsManager struct {
	registry *prometheus.Registry

	// Scenario metrics
	scenariosTotal   *prometheus.CounterVec
	scenarioDuration *prometheus.HistogramVec

	// Browser step metrics
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec

	// Session lifecycle metrics
	sessionsActive prometheus.Gauge
	sessionsTotal  *prometheus.CounterVec
	teardownErrors prometheus.Counter

	namespace string
	subsystem string
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	Namespace       string `yaml:"namespace" json:"namespace"`
	Subsystem       string `yaml:"subsystem,omitempty" json:"subsystem,omitempty"`
	EnableGoMetrics bool   `yaml:"go_metrics" json:"go_metrics"`
	MetricsPath     string `yaml:"path" json:"path"`
	ListenAddress   string `yaml:"listen_address" json:"listen_address"`
}

// DefaultMetricsConfig returns the defaults applied to missing fields.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:     "prismcheck",
		Subsystem:     "suite",
		MetricsPath:   "/metrics",
		ListenAddress: ":9090",
	}
}

// NewMetricsManager creates a new metrics manager
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	defaults := DefaultMetricsConfig()
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.Subsystem == "" {
		config.Subsystem = defaults.Subsystem
	}

	mm := &MetricsManager{
		registry:  prometheus.NewRegistry(),
		namespace: config.Namespace,
		subsystem: config.Subsystem,
	}

	mm.initializeMetrics()

	if config.EnableGoMetrics {
		mm.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return mm
}

// initializeMetrics initializes all Prometheus metrics
func (mm *MetricsManager) initializeMetrics() {
	factory := func(c prometheus.Collector) {
		mm.registry.MustRegister(c)
	}

	mm.scenariosTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "scenarios_total",
			Help:      "Total number of scenarios run, by outcome",
		},
		[]string{"group", "outcome"},
	)
	factory(mm.scenariosTotal)

	mm.scenarioDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "scenario_duration_seconds",
			Help:      "Scenario duration in seconds, including session setup and teardown",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"group"},
	)
	factory(mm.scenarioDuration)

	mm.stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "steps_total",
			Help:      "Total number of browser actions, by result",
		},
		[]string{"action", "status"},
	)
	factory(mm.stepsTotal)

	mm.stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "step_duration_seconds",
			Help:      "Browser action duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	factory(mm.stepDuration)

	mm.sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "sessions_active",
			Help:      "Number of browser sessions currently open",
		},
	)
	factory(mm.sessionsActive)

	mm.sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "sessions_total",
			Help:      "Total number of browser session provisioning attempts",
		},
		[]string{"status"},
	)
	factory(mm.sessionsTotal)

	mm.teardownErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "teardown_errors_total",
			Help:      "Total number of browser sessions that failed to close cleanly",
		},
	)
	factory(mm.teardownErrors)
}

// The Record methods are no-ops on a nil manager, so callers need not check
// whether metrics are enabled.

// Scenario metrics
func (mm *MetricsManager) RecordScenario(group, outcome string, duration time.Duration) {
	if mm == nil {
		return
	}
	mm.scenariosTotal.WithLabelValues(group, outcome).Inc()
	mm.scenarioDuration.WithLabelValues(group).Observe(duration.Seconds())
}

// Step metrics
func (mm *MetricsManager) RecordStep(action string, err error, duration time.Duration) {
	if mm == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	mm.stepsTotal.WithLabelValues(action, status).Inc()
	mm.stepDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// Session metrics
func (mm *MetricsManager) RecordSessionOpened() {
	if mm == nil {
		return
	}
	mm.sessionsTotal.WithLabelValues("opened").Inc()
	mm.sessionsActive.Inc()
}

func (mm *MetricsManager) RecordSessionFailed() {
	if mm == nil {
		return
	}
	mm.sessionsTotal.WithLabelValues("failed").Inc()
}

func (mm *MetricsManager) RecordSessionClosed(err error) {
	if mm == nil {
		return
	}
	mm.sessionsActive.Dec()
	if err != nil {
		mm.teardownErrors.Inc()
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

// MetricsHandler returns an HTTP handler for metrics endpoint
func (mm *MetricsManager) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(mm.registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves the metrics endpoint until ctx is done.
func (mm *MetricsManager) StartMetricsServer(ctx context.Context, address, path string) error {
	if path == "" {
		path = DefaultMetricsConfig().MetricsPath
	}

	mux := http.NewServeMux()
	mux.Handle(path, mm.MetricsHandler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
