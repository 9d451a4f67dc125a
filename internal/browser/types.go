// internal/browser/types.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrElementNotFound is returned when a locator matched nothing, or its
	// match never became interactable, within the implicit wait.
	ErrElementNotFound = errors.New("element not found")

	// ErrSessionClosed is returned by every Driver call made after Close.
	ErrSessionClosed = errors.New("browser session closed")

	// ErrUnknownLocator is returned when a page object is asked for a
	// locator name missing from its table.
	ErrUnknownLocator = errors.New("unknown locator")
)

// ElementError describes a failed element-level action.
type ElementError struct {
	Action  string
	Locator Locator
	Wait    time.Duration
	Err     error
}

func (e *ElementError) Error() string {
	if e.Wait > 0 {
		return fmt.Sprintf("%s %s: %v (waited %s)", e.Action, e.Locator, e.Err, e.Wait)
	}
	return fmt.Sprintf("%s %s: %v", e.Action, e.Locator, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Config defines browser session configuration
type Config struct {
	Headless        bool          `yaml:"headless" json:"headless"`
	WindowWidth     int           `yaml:"window_width" json:"window_width"`
	WindowHeight    int           `yaml:"window_height" json:"window_height"`
	ImplicitWait    time.Duration `yaml:"implicit_wait" json:"implicit_wait"`
	PageLoadTimeout time.Duration `yaml:"page_load_timeout" json:"page_load_timeout"`
	UserAgent       string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	UserDataDir     string        `yaml:"user_data_dir,omitempty" json:"user_data_dir,omitempty"`
	ExecPath        string        `yaml:"exec_path,omitempty" json:"exec_path,omitempty"`
	NoSandbox       bool          `yaml:"no_sandbox" json:"no_sandbox"`
	ScreenshotDir   string        `yaml:"screenshot_dir,omitempty" json:"screenshot_dir,omitempty"`
}

// DefaultConfig returns default browser configuration
func DefaultConfig() *Config {
	return &Config{
		Headless:        true,
		WindowWidth:     1920,
		WindowHeight:    1080,
		ImplicitWait:    10 * time.Second,
		PageLoadTimeout: 30 * time.Second,
		NoSandbox:       true, // Required for Docker environments
	}
}

// Driver is the set of browser operations page objects and scenarios rely
// on. Element operations take a Locator and resolve it at call time.
type Driver interface {
	// Navigate loads url and waits for the document body.
	Navigate(ctx context.Context, url string) error

	// Back and Forward move through the session history.
	Back(ctx context.Context) error
	Forward(ctx context.Context) error

	// Location returns the current document URL.
	Location(ctx context.Context) (string, error)

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// Click clicks the first element matched by loc.
	Click(ctx context.Context, loc Locator) error

	// SendKeys clears the matched field and types text into it.
	SendKeys(ctx context.Context, loc Locator, text string) error

	// Text returns the rendered text of the first matched element.
	Text(ctx context.Context, loc Locator) (string, error)

	// Displayed reports whether the first matched element is rendered.
	Displayed(ctx context.Context, loc Locator) (bool, error)

	// ScrollIntoView scrolls the first matched element into the viewport.
	ScrollIntoView(ctx context.Context, loc Locator) error

	// Screenshot captures the full page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close terminates the browser. It is safe to call more than once.
	Close() error
}

// Stats contains per-session automation statistics
type Stats struct {
	PagesLoaded     int           `json:"pages_loaded"`
	AverageLoadTime time.Duration `json:"average_load_time"`
	ElementActions  int           `json:"element_actions"`
	ElementFaults   int           `json:"element_faults"`
	ScriptErrors    int           `json:"script_errors"`
	Errors          int           `json:"errors"`
}
