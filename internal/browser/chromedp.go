// internal/browser/chromedp.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/valpere/PrismCheck/internal/utils"
)

// Session implements Driver using chromedp. Each Session owns one Chrome
// process and one tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	config      *Config
	limiter     *utils.RateLimiter
	log         utils.Logger
	stats       Stats
	mu          sync.Mutex
	closed      bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger routes session and chromedp logs to log.
func WithLogger(log utils.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRateLimiter paces Navigate calls through limiter.
func WithRateLimiter(limiter *utils.RateLimiter) SessionOption {
	return func(s *Session) {
		s.limiter = limiter
	}
}

// NewSession launches a fresh, maximized Chrome and returns a session bound
// to its first tab. The browser lives until Close or until parent is done.
func NewSession(parent context.Context, config *Config, opts ...SessionOption) (*Session, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Session{
		config: config,
		log:    utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOptions(config)...)
	ctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(s.log.Debugf),
		chromedp.WithErrorf(s.log.Debugf),
	)
	s.ctx, s.cancel, s.allocCancel = ctx, cancel, allocCancel

	// The first Run allocates the browser; a timeout here would bound the
	// browser's whole lifetime, so it runs on the session context itself.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"headless": config.Headless,
		"window":   fmt.Sprintf("%dx%d", config.WindowWidth, config.WindowHeight),
	}).Debug("browser session started")

	return s, nil
}

func allocatorOptions(config *Config) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
	}

	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if config.WindowWidth > 0 && config.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(config.WindowWidth, config.WindowHeight))
	}
	if config.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(config.UserDataDir))
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}

	return opts
}

// runCtx derives a context for one browser action from the session context.
// It ends when timeout elapses, when the caller's ctx is done, or when the
// session is closed.
func (s *Session) runCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, nil, ErrSessionClosed
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}, nil
}

func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, done, err := s.runCtx(ctx, timeout)
	if err != nil {
		return err
	}
	defer done()
	return chromedp.Run(runCtx, actions...)
}

// element runs an element-level action, translating a lapsed implicit wait
// into an ElementError wrapping ErrElementNotFound.
func (s *Session) element(ctx context.Context, action string, loc Locator, actions ...chromedp.Action) error {
	if err := loc.Validate(); err != nil {
		return &ElementError{Action: action, Locator: loc, Err: err}
	}

	s.mu.Lock()
	s.stats.ElementActions++
	s.mu.Unlock()

	err := s.run(ctx, s.config.ImplicitWait, actions...)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionClosed) {
		return err
	}
	// The run was cancelled or timed out from outside; the element is not at fault.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", action, loc, ctxErr)
	}

	s.mu.Lock()
	s.stats.ElementFaults++
	s.mu.Unlock()

	if errors.Is(err, context.DeadlineExceeded) {
		return &ElementError{Action: action, Locator: loc, Wait: s.config.ImplicitWait, Err: ErrElementNotFound}
	}
	return &ElementError{Action: action, Locator: loc, Err: err}
}

// Navigate navigates to a URL and waits for page load
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("navigation to %s: %w", url, err)
	}

	start := time.Now()
	err := s.run(ctx, s.config.PageLoadTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	loadTime := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.stats.Errors++
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	s.stats.PagesLoaded++
	if s.stats.PagesLoaded == 1 {
		s.stats.AverageLoadTime = loadTime
	} else {
		s.stats.AverageLoadTime = (s.stats.AverageLoadTime + loadTime) / 2
	}
	return nil
}

// Back navigates one step back in history.
func (s *Session) Back(ctx context.Context) error {
	if err := s.run(ctx, s.config.PageLoadTimeout, chromedp.NavigateBack(), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("history back: %w", err)
	}
	return nil
}

// Forward navigates one step forward in history.
func (s *Session) Forward(ctx context.Context) error {
	if err := s.run(ctx, s.config.PageLoadTimeout, chromedp.NavigateForward(), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("history forward: %w", err)
	}
	return nil
}

// Location returns the current document URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, s.config.ImplicitWait, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return url, nil
}

// Title returns the current document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, s.config.ImplicitWait, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("reading title: %w", err)
	}
	return title, nil
}

// Click waits for the element to become visible and clicks it.
func (s *Session) Click(ctx context.Context, loc Locator) error {
	sel, by := loc.query()
	return s.element(ctx, "click", loc, chromedp.Click(sel, by))
}

// SendKeys clears the field and types text into it.
func (s *Session) SendKeys(ctx context.Context, loc Locator, text string) error {
	sel, by := loc.query()
	return s.element(ctx, "type into", loc,
		chromedp.WaitVisible(sel, by),
		chromedp.Clear(sel, by),
		chromedp.SendKeys(sel, text, by),
	)
}

// Text returns the rendered text of the element.
func (s *Session) Text(ctx context.Context, loc Locator) (string, error) {
	sel, by := loc.query()
	var text string
	if err := s.element(ctx, "read text of", loc, chromedp.Text(sel, &text, by)); err != nil {
		return "", err
	}
	return text, nil
}

// Displayed waits for the element to exist, then reports whether it is
// rendered. It does not wait for visibility.
func (s *Session) Displayed(ctx context.Context, loc Locator) (bool, error) {
	sel, by := loc.query()
	var nodes []*cdp.Node
	if err := s.element(ctx, "locate", loc, chromedp.Nodes(sel, &nodes, by, chromedp.NodeReady)); err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, &ElementError{Action: "locate", Locator: loc, Err: ErrElementNotFound}
	}

	var visible bool
	if err := s.script(ctx, loc.displayedScript(), &visible); err != nil {
		return false, &ElementError{Action: "check visibility of", Locator: loc, Err: err}
	}
	return visible, nil
}

// ScrollIntoView scrolls the element into the viewport through the page's
// script bridge.
func (s *Session) ScrollIntoView(ctx context.Context, loc Locator) error {
	sel, by := loc.query()
	if err := s.element(ctx, "locate", loc, chromedp.WaitReady(sel, by)); err != nil {
		return err
	}

	var found bool
	if err := s.script(ctx, loc.scrollScript(), &found); err != nil {
		return &ElementError{Action: "scroll to", Locator: loc, Err: err}
	}
	if !found {
		return &ElementError{Action: "scroll to", Locator: loc, Err: ErrElementNotFound}
	}
	return nil
}

func (s *Session) script(ctx context.Context, expr string, res interface{}) error {
	err := s.run(ctx, s.config.ImplicitWait, chromedp.Evaluate(expr, res))
	if err != nil {
		s.mu.Lock()
		s.stats.ScriptErrors++
		s.mu.Unlock()
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

// Screenshot takes a full-page screenshot.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, s.config.PageLoadTimeout, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// Stats returns a copy of the session statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close shuts the browser down. The first call reports any error from the
// graceful shutdown; later calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
