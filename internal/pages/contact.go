package pages

import (
	"context"

	"github.com/valpere/PrismCheck/internal/browser"
)

// Contact page locator names.
const (
	ContactHeading  = "page_heading"
	ContactConnect  = "connect_section"
	ContactName     = "name_input"
	ContactEmail    = "email_input"
	ContactMessage  = "message_input"
	ContactSubmit   = "submit_button"
	ContactHomeLink = "home_link"
)

// ContactLocators returns the locator table for the contact page.
func ContactLocators() map[string]browser.Locator {
	return map[string]browser.Locator{
		ContactHeading:  browser.ByXPath("//h1[contains(text(), 'Contact Us')]"),
		ContactConnect:  browser.ByXPath(`//h2[contains(text(), "Let's Connect")]`),
		ContactName:     browser.ByXPath("//input[@placeholder]"),
		ContactEmail:    browser.ByXPath("//input[@type='email']"),
		ContactMessage:  browser.ByXPath("//textarea"),
		ContactSubmit:   browser.ByXPath("//button[contains(., 'Submit')]"),
		ContactHomeLink: browser.ByXPath("//a[contains(text(), 'Home')]"),
	}
}

// ContactPage models the /contact page and its enquiry form.
type ContactPage struct {
	Page
}

// NewContactPage creates a page object for the contact page.
func NewContactPage(driver browser.Driver, opts ...Option) *ContactPage {
	return &ContactPage{Page: newPage("contact", driver, ContactLocators(), opts...)}
}

// Navigate loads <base>/contact.
func (c *ContactPage) Navigate(ctx context.Context) error {
	if err := c.open(ctx, "/contact"); err != nil {
		return err
	}
	c.log.Info("Navigated to Contact page")
	return nil
}

// Title returns the text of the page heading.
func (c *ContactPage) Title(ctx context.Context) (string, error) {
	return c.text(ctx, ContactHeading)
}

func (c *ContactPage) ConnectSectionVisible(ctx context.Context) (bool, error) {
	return c.displayed(ctx, ContactConnect)
}

// EnterName clears the name field and types name. The input's shape is not
// checked.
func (c *ContactPage) EnterName(ctx context.Context, name string) error {
	return c.typeInto(ctx, ContactName, name)
}

func (c *ContactPage) EnterEmail(ctx context.Context, email string) error {
	return c.typeInto(ctx, ContactEmail, email)
}

func (c *ContactPage) EnterMessage(ctx context.Context, message string) error {
	return c.typeInto(ctx, ContactMessage, message)
}

func (c *ContactPage) ClickSubmit(ctx context.Context) error {
	return c.click(ctx, ContactSubmit)
}

// SubmitContactForm fills name, email and message in that order and then
// clicks submit. It stops at the first failing step; fields already filled
// stay filled.
func (c *ContactPage) SubmitContactForm(ctx context.Context, name, email, message string) error {
	steps := []func(context.Context) error{
		func(ctx context.Context) error { return c.EnterName(ctx, name) },
		func(ctx context.Context) error { return c.EnterEmail(ctx, email) },
		func(ctx context.Context) error { return c.EnterMessage(ctx, message) },
		c.ClickSubmit,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	c.log.Infof("Contact form submitted with name: %s", name)
	return nil
}

func (c *ContactPage) ClickHome(ctx context.Context) error {
	return c.click(ctx, ContactHomeLink)
}

func (c *ContactPage) NameInputDisplayed(ctx context.Context) (bool, error) {
	return c.displayed(ctx, ContactName)
}

func (c *ContactPage) EmailInputDisplayed(ctx context.Context) (bool, error) {
	return c.displayed(ctx, ContactEmail)
}

func (c *ContactPage) SubmitButtonDisplayed(ctx context.Context) (bool, error) {
	return c.displayed(ctx, ContactSubmit)
}
