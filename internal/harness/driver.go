package harness

import (
	"context"
	"time"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/monitoring"
)

// closedDriver stands in for a session after teardown.
type closedDriver struct{}

func (closedDriver) Navigate(context.Context, string) error       { return browser.ErrSessionClosed }
func (closedDriver) Back(context.Context) error                   { return browser.ErrSessionClosed }
func (closedDriver) Forward(context.Context) error                { return browser.ErrSessionClosed }
func (closedDriver) Location(context.Context) (string, error)     { return "", browser.ErrSessionClosed }
func (closedDriver) Title(context.Context) (string, error)        { return "", browser.ErrSessionClosed }
func (closedDriver) Click(context.Context, browser.Locator) error { return browser.ErrSessionClosed }
func (closedDriver) Text(context.Context, browser.Locator) (string, error) {
	return "", browser.ErrSessionClosed
}
func (closedDriver) SendKeys(context.Context, browser.Locator, string) error {
	return browser.ErrSessionClosed
}
func (closedDriver) Displayed(context.Context, browser.Locator) (bool, error) {
	return false, browser.ErrSessionClosed
}
func (closedDriver) ScrollIntoView(context.Context, browser.Locator) error {
	return browser.ErrSessionClosed
}
func (closedDriver) Screenshot(context.Context) ([]byte, error) { return nil, browser.ErrSessionClosed }
func (closedDriver) Close() error                               { return nil }

// instrumentedDriver records a step metric for every browser action.
type instrumentedDriver struct {
	browser.Driver
	metrics *monitoring.MetricsManager
}

func instrument(d browser.Driver, metrics *monitoring.MetricsManager) browser.Driver {
	if metrics == nil {
		return d
	}
	return &instrumentedDriver{Driver: d, metrics: metrics}
}

func (d *instrumentedDriver) observe(action string, start time.Time, err error) {
	d.metrics.RecordStep(action, err, time.Since(start))
}

func (d *instrumentedDriver) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	err := d.Driver.Navigate(ctx, url)
	d.observe("navigate", start, err)
	return err
}

func (d *instrumentedDriver) Back(ctx context.Context) error {
	start := time.Now()
	err := d.Driver.Back(ctx)
	d.observe("back", start, err)
	return err
}

func (d *instrumentedDriver) Forward(ctx context.Context) error {
	start := time.Now()
	err := d.Driver.Forward(ctx)
	d.observe("forward", start, err)
	return err
}

func (d *instrumentedDriver) Click(ctx context.Context, loc browser.Locator) error {
	start := time.Now()
	err := d.Driver.Click(ctx, loc)
	d.observe("click", start, err)
	return err
}

func (d *instrumentedDriver) SendKeys(ctx context.Context, loc browser.Locator, text string) error {
	start := time.Now()
	err := d.Driver.SendKeys(ctx, loc, text)
	d.observe("send_keys", start, err)
	return err
}

func (d *instrumentedDriver) Text(ctx context.Context, loc browser.Locator) (string, error) {
	start := time.Now()
	text, err := d.Driver.Text(ctx, loc)
	d.observe("text", start, err)
	return text, err
}

func (d *instrumentedDriver) Displayed(ctx context.Context, loc browser.Locator) (bool, error) {
	start := time.Now()
	shown, err := d.Driver.Displayed(ctx, loc)
	d.observe("displayed", start, err)
	return shown, err
}

func (d *instrumentedDriver) ScrollIntoView(ctx context.Context, loc browser.Locator) error {
	start := time.Now()
	err := d.Driver.ScrollIntoView(ctx, loc)
	d.observe("scroll", start, err)
	return err
}
