package monitoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHealthManager_AllHealthy(t *testing.T) {
	hm := NewHealthManager(HealthConfig{})
	hm.RegisterCheck(FuncHealthCheck("site", true, func(ctx context.Context) error { return nil }))
	hm.RegisterCheck(FuncHealthCheck("landmarks", false, func(ctx context.Context) error { return nil }))

	health := hm.RunChecks(context.Background())
	if health.Status != HealthStatusHealthy {
		t.Errorf("Status = %s, want healthy", health.Status)
	}
	if health.Summary.Total != 2 || health.Summary.Healthy != 2 || health.Summary.Critical != 1 {
		t.Errorf("unexpected summary: %+v", health.Summary)
	}
	if health.Checks[0].Name != "site" || health.Checks[1].Name != "landmarks" {
		t.Errorf("checks out of registration order: %+v", health.Checks)
	}
	if err := health.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestHealthManager_NonCriticalFailureDegrades(t *testing.T) {
	hm := NewHealthManager(HealthConfig{})
	hm.RegisterCheck(FuncHealthCheck("site", true, func(ctx context.Context) error { return nil }))
	hm.RegisterCheck(FuncHealthCheck("landmarks", false, func(ctx context.Context) error {
		return errors.New("missing h2 Why Choose Prism")
	}))

	health := hm.RunChecks(context.Background())
	if health.Status != HealthStatusDegraded {
		t.Errorf("Status = %s, want degraded", health.Status)
	}
	if err := health.Err(); err != nil {
		t.Errorf("non-critical failure should not produce an error: %v", err)
	}
	if health.Checks[1].Error != "missing h2 Why Choose Prism" {
		t.Errorf("Error = %q", health.Checks[1].Error)
	}
}

func TestHealthManager_CriticalFailure(t *testing.T) {
	hm := NewHealthManager(HealthConfig{})
	hm.RegisterCheck(FuncHealthCheck("site", true, func(ctx context.Context) error {
		return errors.New("503 Service Unavailable")
	}))
	hm.RegisterCheck(&HealthCheck{Name: "pending"})

	health := hm.RunChecks(context.Background())
	if health.Status != HealthStatusUnhealthy {
		t.Errorf("Status = %s, want unhealthy", health.Status)
	}
	if health.Summary.Unhealthy != 1 || health.Summary.Unknown != 1 {
		t.Errorf("unexpected summary: %+v", health.Summary)
	}

	err := health.Err()
	if err == nil || !strings.Contains(err.Error(), "site check failed: 503 Service Unavailable") {
		t.Errorf("Err() = %v", err)
	}
}

func TestHealthManager_Timeout(t *testing.T) {
	hm := NewHealthManager(HealthConfig{DefaultTimeout: 20 * time.Millisecond})
	hm.RegisterCheck(FuncHealthCheck("slow", true, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	start := time.Now()
	health := hm.RunChecks(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("check was not bounded by its timeout: %v", elapsed)
	}
	if health.Status != HealthStatusUnhealthy {
		t.Errorf("Status = %s, want unhealthy", health.Status)
	}
}

func TestHealthManager_RegisterReplacesAndRemove(t *testing.T) {
	hm := NewHealthManager(HealthConfig{})
	hm.RegisterCheck(FuncHealthCheck("site", true, func(ctx context.Context) error { return errors.New("down") }))
	hm.RegisterCheck(FuncHealthCheck("site", true, func(ctx context.Context) error { return nil }))

	health := hm.RunChecks(context.Background())
	if health.Summary.Total != 1 || health.Status != HealthStatusHealthy {
		t.Errorf("expected replaced check to run once and pass: %+v", health)
	}

	hm.RemoveCheck("site")
	if got := hm.RunChecks(context.Background()).Summary.Total; got != 0 {
		t.Errorf("Total = %d after RemoveCheck", got)
	}
}

func TestExecutableHealthCheck(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		lookup func() string
		want   HealthStatus
	}{
		{"explicit path", exe, nil, HealthStatusHealthy},
		{"missing explicit path", exe + "-missing", nil, HealthStatusUnhealthy},
		{"found on PATH", "", func() string { return exe }, HealthStatusHealthy},
		{"not installed", "", func() string { return "" }, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := NewHealthManager(HealthConfig{})
			hm.RegisterCheck(ExecutableHealthCheck("chrome", tt.path, false, tt.lookup))
			health := hm.RunChecks(context.Background())
			if got := health.Checks[0].Status; got != tt.want {
				t.Errorf("Status = %s, want %s", got, tt.want)
			}
		})
	}
}
