package harness

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/valpere/PrismCheck/internal/browser"
	errs "github.com/valpere/PrismCheck/internal/errors"
	"github.com/valpere/PrismCheck/internal/pages"
	"github.com/valpere/PrismCheck/internal/utils"
)

// abort is panicked by FailNow outside of go test and recovered by
// Harness.Run.
type abort struct{}

// Scope is what a scenario sees while it runs: the live session, the site
// it targets and a place to report failures. Scope satisfies testify's
// require.TestingT, so assertions can be made against it directly.
type Scope struct {
	ctx     context.Context
	name    string
	baseURL string
	log     utils.Logger
	tb      testing.TB

	mu       sync.Mutex
	driver   browser.Driver
	failures []string
	kind     errs.Kind
	err      error
}

func newScope(ctx context.Context, name, baseURL string, driver browser.Driver, log utils.Logger, tb testing.TB) *Scope {
	return &Scope{
		ctx:     ctx,
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		tb:      tb,
		driver:  driver,
	}
}

// Name returns the scenario name.
func (s *Scope) Name() string { return s.name }

// Context returns the context browser calls should run under.
func (s *Scope) Context() context.Context { return s.ctx }

// Logger returns the scenario's logger.
func (s *Scope) Logger() utils.Logger { return s.log }

// BaseURL returns the site under test without a trailing slash.
func (s *Scope) BaseURL() string { return s.baseURL }

// ExpectedHost returns the host name of the site under test.
func (s *Scope) ExpectedHost() string {
	host, err := utils.ExtractHost(s.baseURL)
	if err != nil || host == "" {
		return s.baseURL
	}
	return host
}

// Driver returns the scenario's session. After teardown it returns a driver
// whose every call fails with browser.ErrSessionClosed.
func (s *Scope) Driver() browser.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver
}

func (s *Scope) pageOptions() []pages.Option {
	return []pages.Option{pages.WithBaseURL(s.baseURL), pages.WithLogger(s.log)}
}

// Home returns a page object for the landing page bound to this session.
func (s *Scope) Home() *pages.HomePage {
	return pages.NewHomePage(s.Driver(), s.pageOptions()...)
}

// About returns a page object for the about page bound to this session.
func (s *Scope) About() *pages.AboutPage {
	return pages.NewAboutPage(s.Driver(), s.pageOptions()...)
}

// Contact returns a page object for the contact page bound to this session.
func (s *Scope) Contact() *pages.ContactPage {
	return pages.NewContactPage(s.Driver(), s.pageOptions()...)
}

// Errorf records an assertion failure and lets the scenario continue.
func (s *Scope) Errorf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	s.fail(errs.KindAssertion, errs.Assertion(msg))
	s.log.Error(msg)
	if s.tb != nil {
		s.tb.Helper()
		s.tb.Errorf(format, args...)
	}
}

// FailNow stops the scenario. Under go test it defers to testing.TB.
func (s *Scope) FailNow() {
	if s.tb != nil {
		s.tb.Helper()
		s.tb.FailNow()
		return
	}
	panic(abort{})
}

// Helper marks the caller as a helper when running under go test.
func (s *Scope) Helper() {
	if s.tb != nil {
		s.tb.Helper()
	}
}

// Logf logs an informational line for the scenario.
func (s *Scope) Logf(format string, args ...interface{}) {
	s.log.Infof(format, args...)
	if s.tb != nil {
		s.tb.Helper()
		s.tb.Logf(format, args...)
	}
}

// Must stops the scenario when err is non-nil, recording it as an element
// or infrastructure fault depending on what went wrong.
func (s *Scope) Must(err error) {
	if err == nil {
		return
	}
	if s.tb != nil {
		s.tb.Helper()
	}

	kind := errs.Classify(err)
	s.fail(kind, err)
	s.log.WithField("kind", kind.String()).Error(err.Error())
	if s.tb != nil {
		s.tb.Errorf("%s: %v", kind, err)
	}
	s.FailNow()
}

// MustText returns text, stopping the scenario first if err is non-nil.
// It takes a page-object read directly: s.MustText(about.Title(ctx)).
func (s *Scope) MustText(text string, err error) string {
	s.Helper()
	s.Must(err)
	return text
}

// MustFlag is MustText for boolean reads such as visibility checks.
func (s *Scope) MustFlag(ok bool, err error) bool {
	s.Helper()
	s.Must(err)
	return ok
}

// fail records a fault. The most severe kind seen decides the outcome and
// the first error of that kind is kept.
func (s *Scope) fail(kind errs.Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err.Error())
	if kind > s.kind {
		s.kind = kind
		s.err = err
	}
}

func (s *Scope) outcome() (errs.Kind, error, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind, s.err, append([]string(nil), s.failures...)
}

// release swaps the live driver for a closed one and returns the live one.
func (s *Scope) release() browser.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.driver
	s.driver = closedDriver{}
	return d
}
