// Package pages holds the page objects for the site under test. Each page
// object owns a fixed table of named locators and exposes semantic
// operations that resolve a locator and delegate to a browser.Driver.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/utils"
)

// DefaultBaseURL is the production site the suite targets.
const DefaultBaseURL = "https://prismsoftwaresolutions.com"

// Page carries what every page object shares. It holds no state between
// calls; locators are resolved against the live DOM on every use.
type Page struct {
	name     string
	driver   browser.Driver
	baseURL  string
	locators map[string]browser.Locator
	log      utils.Logger
}

// Option configures a page object.
type Option func(*Page)

// WithBaseURL points the page at a different deployment of the site.
func WithBaseURL(baseURL string) Option {
	return func(p *Page) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger sets the logger page actions are reported to.
func WithLogger(log utils.Logger) Option {
	return func(p *Page) {
		if log != nil {
			p.log = log
		}
	}
}

func newPage(name string, driver browser.Driver, locators map[string]browser.Locator, opts ...Option) Page {
	p := Page{
		name:     name,
		driver:   driver,
		baseURL:  DefaultBaseURL,
		locators: locators,
		log:      utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	p.log = p.log.WithField("page", name)
	return p
}

// Locators returns a copy of the page's locator table.
func (p *Page) Locators() map[string]browser.Locator {
	out := make(map[string]browser.Locator, len(p.locators))
	for k, v := range p.locators {
		out[k] = v
	}
	return out
}

// URL returns the absolute URL of path on the configured site.
func (p *Page) URL(path string) string {
	if path == "" || path == "/" {
		return p.baseURL
	}
	return p.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (p *Page) resolve(name string) (browser.Locator, error) {
	loc, ok := p.locators[name]
	if !ok {
		return browser.Locator{}, fmt.Errorf("%s page: %w %q", p.name, browser.ErrUnknownLocator, name)
	}
	return loc, nil
}

func (p *Page) open(ctx context.Context, path string) error {
	url := p.URL(path)
	p.log.Infof("Navigating to: %s", url)
	return p.driver.Navigate(ctx, url)
}

func (p *Page) click(ctx context.Context, name string) error {
	loc, err := p.resolve(name)
	if err != nil {
		return err
	}
	p.log.WithField("locator", loc.String()).Infof("Clicking %s", name)
	return p.driver.Click(ctx, loc)
}

func (p *Page) typeInto(ctx context.Context, name, text string) error {
	loc, err := p.resolve(name)
	if err != nil {
		return err
	}
	p.log.WithField("locator", loc.String()).Infof("Typing in %s: %s", name, text)
	return p.driver.SendKeys(ctx, loc, text)
}

func (p *Page) text(ctx context.Context, name string) (string, error) {
	loc, err := p.resolve(name)
	if err != nil {
		return "", err
	}
	p.log.WithField("locator", loc.String()).Infof("Getting text from %s", name)
	text, err := p.driver.Text(ctx, loc)
	if err != nil {
		return "", err
	}
	return utils.NormalizeText(text), nil
}

func (p *Page) displayed(ctx context.Context, name string) (bool, error) {
	loc, err := p.resolve(name)
	if err != nil {
		return false, err
	}
	p.log.WithField("locator", loc.String()).Debugf("Checking %s is displayed", name)
	return p.driver.Displayed(ctx, loc)
}

func (p *Page) scrollTo(ctx context.Context, name string) error {
	loc, err := p.resolve(name)
	if err != nil {
		return err
	}
	p.log.WithField("locator", loc.String()).Infof("Scrolling to %s", name)
	return p.driver.ScrollIntoView(ctx, loc)
}
