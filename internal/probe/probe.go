// Package probe checks the site under test over plain HTTP, without a
// browser. It is used as a preflight before any session is started and by
// the probe command.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/PrismCheck/internal/pages"
	"github.com/valpere/PrismCheck/internal/utils"
)

// DefaultUserAgent identifies probe requests.
const DefaultUserAgent = "PrismCheck-Probe/1.0"

// RouteReport is the result of probing one route.
type RouteReport struct {
	Name     string        `json:"name" yaml:"name"`
	URL      string        `json:"url" yaml:"url"`
	Status   int           `json:"status" yaml:"status"`
	Title    string        `json:"title" yaml:"title"`
	Found    []string      `json:"found,omitempty" yaml:"found,omitempty"`
	Missing  []string      `json:"missing,omitempty" yaml:"missing,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the route answered successfully.
func (r RouteReport) OK() bool {
	return r.Error == "" && r.Status > 0 && r.Status < 400
}

// Report is the result of probing every route.
type Report struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Routes  []RouteReport `json:"routes" yaml:"routes"`
}

// Reachable reports whether every route answered successfully.
func (r *Report) Reachable() bool {
	for _, route := range r.Routes {
		if !route.OK() {
			return false
		}
	}
	return len(r.Routes) > 0
}

// Prober issues the HTTP requests.
type Prober struct {
	client    *http.Client
	limiter   *utils.RateLimiter
	log       utils.Logger
	userAgent string
}

// Option configures a Prober.
type Option func(*Prober)

func WithLogger(log utils.Logger) Option {
	return func(p *Prober) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRateLimiter shares the navigation pacing with browser sessions.
func WithRateLimiter(limiter *utils.RateLimiter) Option {
	return func(p *Prober) {
		p.limiter = limiter
	}
}

func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) {
		if client != nil {
			p.client = client
		}
	}
}

// New creates a prober whose requests time out after timeout.
func New(timeout time.Duration, opts ...Option) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &Prober{
		client:    &http.Client{Timeout: timeout},
		log:       utils.NewNopLogger(),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check fetches baseURL and fails when it cannot be reached or answers with
// an error status. Page content is not inspected.
func (p *Prober) Check(ctx context.Context, baseURL string) error {
	resp, err := p.get(ctx, baseURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s answered %s", baseURL, resp.Status)
	}
	p.log.Debugf("Preflight: %s answered %s", baseURL, resp.Status)
	return nil
}

// Probe fetches every route and records its title and which landmarks
// appear in the served HTML. Missing landmarks are not errors: the live site
// may render them with JavaScript.
func (p *Prober) Probe(ctx context.Context, baseURL string, routes []pages.Route) *Report {
	baseURL = strings.TrimRight(baseURL, "/")
	report := &Report{BaseURL: baseURL}

	for _, route := range routes {
		rr := p.probeRoute(ctx, baseURL, route)
		if len(rr.Missing) > 0 {
			p.log.WithField("route", route.Name).Warnf("Landmarks not in served HTML: %s", strings.Join(rr.Missing, ", "))
		}
		report.Routes = append(report.Routes, rr)
	}
	return report
}

func (p *Prober) probeRoute(ctx context.Context, baseURL string, route pages.Route) RouteReport {
	url := baseURL
	if route.Path != "" && route.Path != "/" {
		url += route.Path
	}
	rr := RouteReport{Name: route.Name, URL: url}

	start := time.Now()
	resp, err := p.get(ctx, url)
	if err != nil {
		rr.Error = err.Error()
		rr.Duration = time.Since(start)
		return rr
	}
	defer resp.Body.Close()
	rr.Status = resp.StatusCode

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	rr.Duration = time.Since(start)
	if err != nil {
		rr.Error = fmt.Sprintf("failed to parse HTML: %v", err)
		return rr
	}

	rr.Title = utils.NormalizeText(doc.Find("title").First().Text())
	for _, lm := range route.Landmarks {
		label := lm.Tag + ": " + lm.Text
		if hasLandmark(doc, lm) {
			rr.Found = append(rr.Found, label)
		} else {
			rr.Missing = append(rr.Missing, label)
		}
	}
	return rr
}

func hasLandmark(doc *goquery.Document, lm pages.Landmark) bool {
	found := false
	doc.Find(lm.Tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = utils.ContainsText(s.Text(), lm.Text)
		return !found
	})
	return found
}

func (p *Prober) get(ctx context.Context, url string) (*http.Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	return resp, nil
}
