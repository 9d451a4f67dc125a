// Package browsertest provides an in-memory browser.Driver for tests that
// exercise page objects and the harness without Chrome.
package browsertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/valpere/PrismCheck/internal/browser"
)

// Call records one Driver invocation.
type Call struct {
	Method  string
	Locator browser.Locator
	Arg     string
}

func (c Call) String() string {
	switch {
	case c.Locator.Selector != "" && c.Arg != "":
		return fmt.Sprintf("%s(%s, %q)", c.Method, c.Locator, c.Arg)
	case c.Locator.Selector != "":
		return fmt.Sprintf("%s(%s)", c.Method, c.Locator)
	case c.Arg != "":
		return fmt.Sprintf("%s(%q)", c.Method, c.Arg)
	default:
		return c.Method + "()"
	}
}

// Driver is a scripted browser.Driver. Elements are present and displayed
// unless listed in Missing or Hidden. Navigation keeps a simple history so
// Location, Back and Forward behave like a browser.
type Driver struct {
	// Texts maps a locator to the text Text returns for it.
	Texts map[browser.Locator]string
	// Missing lists locators that never resolve.
	Missing map[browser.Locator]bool
	// Hidden lists locators that resolve but are not displayed.
	Hidden map[browser.Locator]bool
	// Links maps a clicked locator to the URL the click navigates to.
	Links map[browser.Locator]string
	// Titles maps a URL to its document title.
	Titles map[string]string
	// NavigateErr, when set, is returned by every Navigate call.
	NavigateErr error
	// CloseErr is returned by the first Close call.
	CloseErr error

	mu      sync.Mutex
	calls   []Call
	history []string
	pos     int
	closed  int
}

// New returns an empty fake driver.
func New() *Driver {
	return &Driver{
		Texts:   make(map[browser.Locator]string),
		Missing: make(map[browser.Locator]bool),
		Hidden:  make(map[browser.Locator]bool),
		Links:   make(map[browser.Locator]string),
		Titles:  make(map[string]string),
		pos:     -1,
	}
}

// Calls returns the recorded calls in order.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Methods returns the recorded calls as strings.
func (d *Driver) Methods() []string {
	calls := d.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// CloseCount reports how many times Close was called.
func (d *Driver) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) record(c Call) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, c)
	if d.closed > 0 {
		return browser.ErrSessionClosed
	}
	return nil
}

func (d *Driver) lookup(ctx context.Context, action string, loc browser.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return &browser.ElementError{Action: action, Locator: loc, Err: err}
	}
	if d.Missing[loc] {
		return &browser.ElementError{Action: action, Locator: loc, Err: browser.ErrElementNotFound}
	}
	return nil
}

func (d *Driver) visit(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history[:d.pos+1], url)
	d.pos = len(d.history) - 1
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.record(Call{Method: "Navigate", Arg: url}); err != nil {
		return err
	}
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.visit(url)
	return nil
}

func (d *Driver) Back(ctx context.Context) error {
	if err := d.record(Call{Method: "Back"}); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos > 0 {
		d.pos--
	}
	return nil
}

func (d *Driver) Forward(ctx context.Context) error {
	if err := d.record(Call{Method: "Forward"}); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos < len(d.history)-1 {
		d.pos++
	}
	return nil
}

func (d *Driver) current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos < 0 {
		return "about:blank"
	}
	return d.history[d.pos]
}

func (d *Driver) Location(ctx context.Context) (string, error) {
	if err := d.record(Call{Method: "Location"}); err != nil {
		return "", err
	}
	return d.current(), nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := d.record(Call{Method: "Title"}); err != nil {
		return "", err
	}
	return d.Titles[d.current()], nil
}

func (d *Driver) Click(ctx context.Context, loc browser.Locator) error {
	if err := d.record(Call{Method: "Click", Locator: loc}); err != nil {
		return err
	}
	if err := d.lookup(ctx, "click", loc); err != nil {
		return err
	}
	if url, ok := d.Links[loc]; ok {
		d.visit(url)
	}
	return nil
}

func (d *Driver) SendKeys(ctx context.Context, loc browser.Locator, text string) error {
	if err := d.record(Call{Method: "SendKeys", Locator: loc, Arg: text}); err != nil {
		return err
	}
	return d.lookup(ctx, "type into", loc)
}

func (d *Driver) Text(ctx context.Context, loc browser.Locator) (string, error) {
	if err := d.record(Call{Method: "Text", Locator: loc}); err != nil {
		return "", err
	}
	if err := d.lookup(ctx, "read text of", loc); err != nil {
		return "", err
	}
	return d.Texts[loc], nil
}

func (d *Driver) Displayed(ctx context.Context, loc browser.Locator) (bool, error) {
	if err := d.record(Call{Method: "Displayed", Locator: loc}); err != nil {
		return false, err
	}
	if err := d.lookup(ctx, "locate", loc); err != nil {
		return false, err
	}
	return !d.Hidden[loc], nil
}

func (d *Driver) ScrollIntoView(ctx context.Context, loc browser.Locator) error {
	if err := d.record(Call{Method: "ScrollIntoView", Locator: loc}); err != nil {
		return err
	}
	return d.lookup(ctx, "scroll to", loc)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.record(Call{Method: "Screenshot"}); err != nil {
		return nil, err
	}
	// PNG signature only
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	if d.closed == 1 {
		return d.CloseErr
	}
	return nil
}

// Provisioner hands out fake drivers and records them.
type Provisioner struct {
	// New builds each driver. It defaults to browsertest.New.
	New func() *Driver
	// Err, when set, fails every Provision call.
	Err error

	mu      sync.Mutex
	drivers []*Driver
}

// Provision returns a fresh fake driver.
func (p *Provisioner) Provision(ctx context.Context) (browser.Driver, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	build := p.New
	if build == nil {
		build = New
	}
	d := build()

	p.mu.Lock()
	p.drivers = append(p.drivers, d)
	p.mu.Unlock()
	return d, nil
}

// Drivers returns every driver handed out so far.
func (p *Provisioner) Drivers() []*Driver {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Driver(nil), p.drivers...)
}
