package pages

import (
	"context"

	"github.com/valpere/PrismCheck/internal/browser"
)

// About page locator names.
const (
	AboutHeading         = "page_heading"
	AboutMission         = "mission_section"
	AboutVision          = "vision_section"
	AboutSmartOperations = "smart_operations_section"
	AboutHomeLink        = "home_link"
	AboutContactLink     = "contact_link"
)

// AboutLocators returns the locator table for the about page.
func AboutLocators() map[string]browser.Locator {
	return map[string]browser.Locator{
		AboutHeading:         browser.ByXPath("//h1[contains(text(), 'About Prism')]"),
		AboutMission:         browser.ByXPath("//h3[contains(text(), 'Our Mission')]"),
		AboutVision:          browser.ByXPath("//h3[contains(text(), 'Our Vision')]"),
		AboutSmartOperations: browser.ByXPath("//h2[contains(text(), 'Smart Operations')]"),
		AboutHomeLink:        browser.ByXPath("//a[contains(text(), 'Home')]"),
		AboutContactLink:     browser.ByXPath("//a[contains(text(), 'Contact')]"),
	}
}

// AboutPage models the /about page.
type AboutPage struct {
	Page
}

// NewAboutPage creates a page object for the about page.
func NewAboutPage(driver browser.Driver, opts ...Option) *AboutPage {
	return &AboutPage{Page: newPage("about", driver, AboutLocators(), opts...)}
}

// Navigate loads <base>/about.
func (a *AboutPage) Navigate(ctx context.Context) error {
	if err := a.open(ctx, "/about"); err != nil {
		return err
	}
	a.log.Info("Navigated to About page")
	return nil
}

// Title returns the text of the page heading, not the document title.
func (a *AboutPage) Title(ctx context.Context) (string, error) {
	return a.text(ctx, AboutHeading)
}

// MissionText returns the text of the "Our Mission" heading.
func (a *AboutPage) MissionText(ctx context.Context) (string, error) {
	return a.text(ctx, AboutMission)
}

// VisionText returns the text of the "Our Vision" heading.
func (a *AboutPage) VisionText(ctx context.Context) (string, error) {
	return a.text(ctx, AboutVision)
}

func (a *AboutPage) MissionVisible(ctx context.Context) (bool, error) {
	return a.displayed(ctx, AboutMission)
}

func (a *AboutPage) VisionVisible(ctx context.Context) (bool, error) {
	return a.displayed(ctx, AboutVision)
}

func (a *AboutPage) SmartOperationsVisible(ctx context.Context) (bool, error) {
	return a.displayed(ctx, AboutSmartOperations)
}

// ClickHome follows the first link whose text contains "Home".
func (a *AboutPage) ClickHome(ctx context.Context) error {
	return a.click(ctx, AboutHomeLink)
}

// ClickContact follows the first link whose text contains "Contact".
func (a *AboutPage) ClickContact(ctx context.Context) error {
	return a.click(ctx, AboutContactLink)
}

func (a *AboutPage) ScrollToMission(ctx context.Context) error {
	return a.scrollTo(ctx, AboutMission)
}

func (a *AboutPage) ScrollToVision(ctx context.Context) error {
	return a.scrollTo(ctx, AboutVision)
}
