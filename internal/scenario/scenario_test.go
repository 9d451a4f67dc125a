package scenario

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/browser/browsertest"
	"github.com/valpere/PrismCheck/internal/fixture"
	"github.com/valpere/PrismCheck/internal/harness"
	"github.com/valpere/PrismCheck/internal/pages"
)

const siteURL = "http://prism.test"

// simulatedSite returns a fake driver factory that behaves like the three
// pages of the site: headings resolve, links navigate and titles follow the
// current URL.
func simulatedSite() func() *browsertest.Driver {
	home, about, contact := pages.HomeLocators(), pages.AboutLocators(), pages.ContactLocators()

	return func() *browsertest.Driver {
		d := browsertest.New()

		d.Titles[siteURL] = fixture.HomeTitle
		d.Titles[siteURL+"/about"] = fixture.AboutTitle
		d.Titles[siteURL+"/contact"] = fixture.ContactTitle
		d.Titles[DefaultSampleURL] = "Example Domain"

		d.Texts[home[pages.HomeMainHeading]] = "Building Cutting-Edge Software Solutions"
		d.Texts[about[pages.AboutHeading]] = "About Prism Software Solutions"
		d.Texts[about[pages.AboutMission]] = "Our Mission"
		d.Texts[about[pages.AboutVision]] = "Our Vision"
		d.Texts[contact[pages.ContactHeading]] = "Contact Us"

		d.Links[home[pages.HomeAboutLink]] = siteURL + "/about"
		d.Links[home[pages.HomeContactUs]] = siteURL + "/contact"
		d.Links[home[pages.HomeLearnMore]] = siteURL + "/about"
		d.Links[about[pages.AboutHomeLink]] = siteURL
		d.Links[about[pages.AboutContactLink]] = siteURL + "/contact"
		return d
	}
}

func TestAll(t *testing.T) {
	all := All(Options{})
	assert.Len(t, all, 31)

	ids := make(map[string]bool)
	for _, sc := range all {
		assert.NotEmpty(t, sc.Name)
		assert.NotEmpty(t, sc.Description, ID(sc))
		assert.NotNil(t, sc.Run, ID(sc))
		assert.False(t, ids[ID(sc)], "duplicate scenario %s", ID(sc))
		ids[ID(sc)] = true
	}

	assert.Equal(t, []string{GroupAbout, GroupContact, GroupHome, GroupNavigation, GroupSample}, Groups(all))
}

func TestSelect(t *testing.T) {
	all := All(Options{})

	tests := []struct {
		name    string
		group   string
		pattern string
		want    int
	}{
		{"everything", "", "", 31},
		{"home group", GroupHome, "", 7},
		{"about group", GroupAbout, "", 9},
		{"contact group", GroupContact, "", 9},
		{"navigation group", GroupNavigation, "", 6},
		{"pattern across groups", "", "loads_successfully$", 3},
		{"group and pattern", GroupContact, "form", 3},
		{"no match", "missing", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(all, tt.group, tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := Select(all, "", "(")
	assert.Error(t, err)
}

func TestExclude(t *testing.T) {
	all := All(Options{})
	kept := Exclude(all, GroupSample)
	assert.Len(t, kept, 30)
	for _, sc := range kept {
		assert.NotEqual(t, GroupSample, sc.Group)
	}
}

func TestScenarios_SimulatedSite(t *testing.T) {
	prov := &browsertest.Provisioner{New: simulatedSite()}
	h := harness.New(prov, siteURL)

	all := All(Options{})
	results := h.RunAll(context.Background(), all, nil)
	require.Len(t, results, len(all))

	for _, res := range results {
		assert.True(t, res.Passed(), "%s/%s: %s %v %v", res.Group, res.Scenario, res.Outcome, res.Err, res.Failures)
	}

	drivers := prov.Drivers()
	require.Len(t, drivers, len(all), "one session per scenario")
	for _, d := range drivers {
		assert.Equal(t, 1, d.CloseCount())
	}
}

func TestScenarios_SampleURLOverride(t *testing.T) {
	const sample = "http://sample.test/"
	prov := &browsertest.Provisioner{New: func() *browsertest.Driver {
		d := browsertest.New()
		d.Titles[sample] = "Sample"
		return d
	}}
	h := harness.New(prov, siteURL)

	scs, err := Select(All(Options{SampleURL: sample}), GroupSample, "")
	require.NoError(t, err)
	require.Len(t, scs, 1)

	res := h.Run(context.Background(), scs[0])
	assert.True(t, res.Passed(), "%v", res.Err)
	assert.Contains(t, prov.Drivers()[0].Methods(), `Navigate("`+sample+`")`)
}

func TestScenarios_ChangedHeadingIsAssertionFailure(t *testing.T) {
	build := simulatedSite()
	prov := &browsertest.Provisioner{New: func() *browsertest.Driver {
		d := build()
		d.Texts[pages.HomeLocators()[pages.HomeMainHeading]] = "Something Else Entirely"
		return d
	}}
	h := harness.New(prov, siteURL)

	scs, err := Select(All(Options{}), GroupHome, "main_heading")
	require.NoError(t, err)
	require.Len(t, scs, 1)

	res := h.Run(context.Background(), scs[0])
	assert.Equal(t, harness.OutcomeAssertion, res.Outcome)
}

func TestScenarios_MissingElementIsElementFault(t *testing.T) {
	build := simulatedSite()
	prov := &browsertest.Provisioner{New: func() *browsertest.Driver {
		d := build()
		d.Missing[pages.ContactLocators()[pages.ContactEmail]] = true
		return d
	}}
	h := harness.New(prov, siteURL)

	scs, err := Select(All(Options{}), GroupContact, "form")
	require.NoError(t, err)

	for _, res := range h.RunAll(context.Background(), scs, nil) {
		assert.Equal(t, harness.OutcomeElement, res.Outcome, res.Scenario)
		var elemErr *browser.ElementError
		assert.ErrorAs(t, res.Err, &elemErr, res.Scenario)
	}
}

func TestScenarios_HiddenSectionFailsVisibilityCheck(t *testing.T) {
	build := simulatedSite()
	prov := &browsertest.Provisioner{New: func() *browsertest.Driver {
		d := build()
		d.Hidden[pages.AboutLocators()[pages.AboutVision]] = true
		return d
	}}
	h := harness.New(prov, siteURL)

	scs, err := Select(All(Options{}), GroupAbout, "vision")
	require.NoError(t, err)

	outcomes := make(map[string]harness.Outcome)
	for _, res := range h.RunAll(context.Background(), scs, nil) {
		outcomes[res.Scenario] = res.Outcome
	}
	assert.Equal(t, harness.OutcomeAssertion, outcomes["vision_visible"])
	assert.Equal(t, harness.OutcomePassed, outcomes["vision_content"])
}

func newBrowserHarness(t *testing.T, baseURL string) *harness.Harness {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser scenarios in short mode")
	}
	if browser.FindChrome() == "" {
		t.Skip("no Chrome or Chromium executable found")
	}

	config := browser.DefaultConfig()
	config.ImplicitWait = 5 * time.Second
	return harness.New(browser.NewLauncher(config), baseURL,
		harness.WithScreenshotDir(t.TempDir()))
}

// TestScenarios_Fixture drives a real browser against the local replica of
// the site.
func TestScenarios_Fixture(t *testing.T) {
	srv, err := fixture.New()
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	h := newBrowserHarness(t, ts.URL)
	for _, sc := range Exclude(All(Options{}), GroupSample) {
		t.Run(ID(sc), func(t *testing.T) {
			harness.RunTest(t, h, sc)
		})
	}
}

// TestScenarios_Live runs the whole suite against the production site.
func TestScenarios_Live(t *testing.T) {
	if os.Getenv("PRISM_LIVE") != "1" {
		t.Skip("set PRISM_LIVE=1 to run against the live site")
	}
	baseURL := os.Getenv("PRISM_BASE_URL")
	if baseURL == "" {
		baseURL = pages.DefaultBaseURL
	}

	h := newBrowserHarness(t, baseURL)
	for _, sc := range All(Options{}) {
		t.Run(ID(sc), func(t *testing.T) {
			harness.RunTest(t, h, sc)
		})
	}
}
