package pages

import (
	"context"

	"github.com/valpere/PrismCheck/internal/browser"
)

// Home page locator names.
const (
	HomeMainHeading = "main_heading"
	HomeWhyChoose   = "why_choose_section"
	HomeProducts    = "products_section"
	HomeLearnMore   = "learn_more_button"
	HomeContactUs   = "contact_us_button"
	HomeAboutLink   = "about_link"
	HomeLogo        = "logo"
)

// HomeLocators returns the locator table for the landing page.
func HomeLocators() map[string]browser.Locator {
	return map[string]browser.Locator{
		HomeMainHeading: browser.ByXPath("//h1[contains(text(), 'Building Cutting-Edge Software')]"),
		HomeWhyChoose:   browser.ByXPath("//h2[contains(text(), 'Why Choose Prism')]"),
		HomeProducts:    browser.ByXPath("//h2[contains(text(), 'Our Latest Products')]"),
		HomeLearnMore:   browser.ByXPath("//a[contains(text(), 'Learn More')]"),
		HomeContactUs:   browser.ByXPath("//a[contains(text(), 'Contact Us')]"),
		HomeAboutLink:   browser.ByLinkText("About"),
		HomeLogo:        browser.ByXPath("//img[@alt]"),
	}
}

// HomePage models the landing page.
type HomePage struct {
	Page
}

// NewHomePage creates a page object for the landing page.
func NewHomePage(driver browser.Driver, opts ...Option) *HomePage {
	return &HomePage{Page: newPage("home", driver, HomeLocators(), opts...)}
}

// Navigate loads the landing page.
func (h *HomePage) Navigate(ctx context.Context) error {
	if err := h.open(ctx, "/"); err != nil {
		return err
	}
	h.log.Info("Navigated to Home page")
	return nil
}

// MainHeading returns the hero heading text.
func (h *HomePage) MainHeading(ctx context.Context) (string, error) {
	return h.text(ctx, HomeMainHeading)
}

// WhyChoosePrismVisible reports whether the "Why Choose Prism" heading is displayed.
func (h *HomePage) WhyChoosePrismVisible(ctx context.Context) (bool, error) {
	return h.displayed(ctx, HomeWhyChoose)
}

// ProductsVisible reports whether the "Our Latest Products" heading is displayed.
func (h *HomePage) ProductsVisible(ctx context.Context) (bool, error) {
	return h.displayed(ctx, HomeProducts)
}

// LogoDisplayed reports whether the first image with alt text is displayed.
func (h *HomePage) LogoDisplayed(ctx context.Context) (bool, error) {
	return h.displayed(ctx, HomeLogo)
}

func (h *HomePage) ClickLearnMore(ctx context.Context) error {
	return h.click(ctx, HomeLearnMore)
}

func (h *HomePage) ClickContactUs(ctx context.Context) error {
	return h.click(ctx, HomeContactUs)
}

func (h *HomePage) ClickAbout(ctx context.Context) error {
	return h.click(ctx, HomeAboutLink)
}

func (h *HomePage) ScrollToWhyChoosePrism(ctx context.Context) error {
	return h.scrollTo(ctx, HomeWhyChoose)
}

func (h *HomePage) ScrollToProducts(ctx context.Context) error {
	return h.scrollTo(ctx, HomeProducts)
}
