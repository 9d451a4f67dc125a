package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/PrismCheck/internal/browser"
	"github.com/valpere/PrismCheck/internal/browser/browsertest"
)

func TestPageURL(t *testing.T) {
	driver := browsertest.New()

	home := NewHomePage(driver)
	assert.Equal(t, DefaultBaseURL, home.URL("/"))

	about := NewAboutPage(driver, WithBaseURL("http://127.0.0.1:8080/"))
	assert.Equal(t, "http://127.0.0.1:8080/about", about.URL("/about"))
	assert.Equal(t, "http://127.0.0.1:8080/contact", about.URL("contact"))
}

func TestNavigateLoadsRoute(t *testing.T) {
	ctx := context.Background()
	driver := browsertest.New()

	require.NoError(t, NewHomePage(driver).Navigate(ctx))
	require.NoError(t, NewAboutPage(driver).Navigate(ctx))
	require.NoError(t, NewContactPage(driver).Navigate(ctx))

	assert.Equal(t, []string{
		`Navigate("https://prismsoftwaresolutions.com")`,
		`Navigate("https://prismsoftwaresolutions.com/about")`,
		`Navigate("https://prismsoftwaresolutions.com/contact")`,
	}, driver.Methods())
}

func TestHomePage_MainHeading(t *testing.T) {
	driver := browsertest.New()
	driver.Texts[HomeLocators()[HomeMainHeading]] = "  Building Cutting-Edge\n  Software Solutions "

	heading, err := NewHomePage(driver).MainHeading(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Building Cutting-Edge Software Solutions", heading)
}

func TestHomePage_ScrollThenCheck(t *testing.T) {
	ctx := context.Background()
	driver := browsertest.New()
	home := NewHomePage(driver)

	require.NoError(t, home.ScrollToWhyChoosePrism(ctx))
	visible, err := home.WhyChoosePrismVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	calls := driver.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "ScrollIntoView", calls[0].Method)
	assert.Equal(t, HomeLocators()[HomeWhyChoose], calls[0].Locator)
	assert.Equal(t, "Displayed", calls[1].Method)
}

func TestHomePage_AboutLinkIsExactLinkText(t *testing.T) {
	driver := browsertest.New()
	require.NoError(t, NewHomePage(driver).ClickAbout(context.Background()))

	calls := driver.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, browser.StrategyLinkText, calls[0].Locator.Strategy)
	assert.Equal(t, "About", calls[0].Locator.Selector)
}

func TestAboutPage_ReadOperations(t *testing.T) {
	ctx := context.Background()
	driver := browsertest.New()
	locators := AboutLocators()
	driver.Texts[locators[AboutHeading]] = "About Prism Software"
	driver.Texts[locators[AboutMission]] = "Our Mission"
	driver.Hidden[locators[AboutVision]] = true

	about := NewAboutPage(driver)

	title, err := about.Title(ctx)
	require.NoError(t, err)
	assert.Contains(t, title, "About Prism")

	mission, err := about.MissionText(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, mission)

	visible, err := about.VisionVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestReadOfMissingElementIsElementFault(t *testing.T) {
	driver := browsertest.New()
	driver.Missing[AboutLocators()[AboutSmartOperations]] = true

	_, err := NewAboutPage(driver).SmartOperationsVisible(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, browser.ErrElementNotFound))

	var elemErr *browser.ElementError
	require.True(t, errors.As(err, &elemErr))
	assert.Equal(t, AboutLocators()[AboutSmartOperations], elemErr.Locator)
}

func TestResolveUnknownLocator(t *testing.T) {
	page := newPage("test", browsertest.New(), map[string]browser.Locator{})

	_, err := page.text(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, browser.ErrUnknownLocator))
}

func TestContactPage_SubmitContactFormOrder(t *testing.T) {
	driver := browsertest.New()
	contact := NewContactPage(driver)

	err := contact.SubmitContactForm(context.Background(),
		"John Doe", "john.doe@example.com", "I am interested in learning more about your services.")
	require.NoError(t, err)

	assert.Equal(t, []string{
		`SendKeys(xpath="//input[@placeholder]", "John Doe")`,
		`SendKeys(xpath="//input[@type='email']", "john.doe@example.com")`,
		`SendKeys(xpath="//textarea", "I am interested in learning more about your services.")`,
		`Click(xpath="//button[contains(., 'Submit')]")`,
	}, driver.Methods())
}

func TestContactPage_SubmitStopsAtFirstFailure(t *testing.T) {
	driver := browsertest.New()
	driver.Missing[ContactLocators()[ContactEmail]] = true

	err := NewContactPage(driver).SubmitContactForm(context.Background(),
		"Jane Smith", "jane.smith@example.com", "Please contact me regarding your AI solutions.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, browser.ErrElementNotFound))

	methods := driver.Methods()
	require.Len(t, methods, 2, "message and submit must not be attempted")
	assert.Contains(t, methods[0], "Jane Smith")
	assert.Contains(t, methods[1], "jane.smith@example.com")
}

func TestContactPage_AcceptsMalformedEmail(t *testing.T) {
	driver := browsertest.New()

	require.NoError(t, NewContactPage(driver).EnterEmail(context.Background(), "invalid-email"))
	assert.Equal(t, []string{`SendKeys(xpath="//input[@type='email']", "invalid-email")`}, driver.Methods())
}

func TestContactPage_DisplayedChecks(t *testing.T) {
	ctx := context.Background()
	driver := browsertest.New()
	contact := NewContactPage(driver)

	for name, check := range map[string]func(context.Context) (bool, error){
		"name":    contact.NameInputDisplayed,
		"email":   contact.EmailInputDisplayed,
		"submit":  contact.SubmitButtonDisplayed,
		"connect": contact.ConnectSectionVisible,
	} {
		shown, err := check(ctx)
		require.NoError(t, err, name)
		assert.True(t, shown, name)
	}
}

func TestLocatorTablesAreValid(t *testing.T) {
	for name, table := range map[string]map[string]browser.Locator{
		"home":    HomeLocators(),
		"about":   AboutLocators(),
		"contact": ContactLocators(),
	} {
		for key, loc := range table {
			assert.NoError(t, loc.Validate(), "%s/%s", name, key)
		}
	}
}

func TestLocatorsReturnsCopy(t *testing.T) {
	home := NewHomePage(browsertest.New())
	table := home.Locators()
	delete(table, HomeLogo)

	_, err := home.LogoDisplayed(context.Background())
	assert.NoError(t, err)
}
