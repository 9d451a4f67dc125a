// internal/browser/launcher.go
package browser

import (
	"context"
	"fmt"
	"os/exec"
)

// Launcher provisions one fresh Session per call. Sessions are never reused
// or handed to a second caller.
type Launcher struct {
	config *Config
	opts   []SessionOption
}

// NewLauncher creates a launcher that starts sessions with config and opts.
func NewLauncher(config *Config, opts ...SessionOption) *Launcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &Launcher{
		config: config,
		opts:   opts,
	}
}

// Provision starts a new browser session.
func (l *Launcher) Provision(ctx context.Context) (Driver, error) {
	session, err := NewSession(ctx, l.config, l.opts...)
	if err != nil {
		return nil, fmt.Errorf("provisioning browser session: %w", err)
	}
	return session, nil
}

// Config returns the configuration sessions are started with.
func (l *Launcher) Config() *Config {
	return l.config
}

// chromeNames mirrors the executable names chromedp probes on PATH.
var chromeNames = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
}

// FindChrome returns the path of a Chrome executable on PATH, or "" when
// none is installed.
func FindChrome() string {
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
