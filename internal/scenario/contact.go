package scenario

import (
	"github.com/stretchr/testify/assert"

	"github.com/valpere/PrismCheck/internal/harness"
)

func contactScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "loads_successfully",
			Group:       GroupContact,
			Description: "Contact page URL contains contact",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Contact().Navigate(ctx))

				url := s.MustText(s.Driver().Location(ctx))
				s.Logf("Page URL: %s", url)
				assert.Contains(s, url, "contact", "Page URL should contain 'contact'")
			},
		},
		{
			Name:        "page_heading",
			Group:       GroupContact,
			Description: "Contact page heading reads Contact Us",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				assert.Contains(s, s.MustText(contact.Title(ctx)), "Contact Us")
			},
		},
		{
			Name:        "form_elements_displayed",
			Group:       GroupContact,
			Description: "Name, email and submit controls are displayed",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				name := s.MustFlag(contact.NameInputDisplayed(ctx))
				email := s.MustFlag(contact.EmailInputDisplayed(ctx))
				submit := s.MustFlag(contact.SubmitButtonDisplayed(ctx))

				assert.True(s, name, "Name input should be displayed")
				assert.True(s, email, "Email input should be displayed")
				assert.True(s, submit, "Submit button should be displayed")
			},
		},
		{
			Name:        "connect_section_visible",
			Group:       GroupContact,
			Description: "Let's Connect section is displayed",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				assert.True(s, s.MustFlag(contact.ConnectSectionVisible(ctx)), "Connect section should be visible")
			},
		},
		{
			Name:        "fill_form",
			Group:       GroupContact,
			Description: "Form fields accept input",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				s.Must(contact.EnterName(ctx, "John Doe"))
				s.Must(contact.EnterEmail(ctx, "john.doe@example.com"))
				s.Must(contact.EnterMessage(ctx, "I am interested in learning more about your services."))
				s.Logf("Contact form filled with test data")
			},
		},
		{
			Name:        "submit_form",
			Group:       GroupContact,
			Description: "Form can be filled and submitted in one go",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				s.Must(contact.SubmitContactForm(ctx,
					"Jane Smith", "jane.smith@example.com", "Please contact me regarding your AI solutions."))
			},
		},
		{
			Name:        "home_link",
			Group:       GroupContact,
			Description: "Home link leads back to the landing page",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))
				s.Must(contact.ClickHome(ctx))

				assert.Contains(s, s.MustText(s.Home().MainHeading(ctx)), "Building", "Should be on home page")
			},
		},
		{
			Name:        "navigation_path",
			Group:       GroupContact,
			Description: "Contact page is reachable via Home, About, Contact links",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				s.Must(home.ClickAbout(ctx))
				s.Must(s.About().ClickContact(ctx))

				title := s.MustText(s.Contact().Title(ctx))
				s.Logf("Final page reached: %s", title)
				assert.Contains(s, title, "Contact Us", "Should be able to navigate from Home -> About -> Contact")
			},
		},
		{
			Name:        "email_accepts_any_input",
			Group:       GroupContact,
			Description: "Email field accepts a malformed address; validation is left to the site",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				contact := s.Contact()
				s.Must(contact.Navigate(ctx))

				s.Must(contact.EnterName(ctx, "Test User"))
				s.Must(contact.EnterEmail(ctx, "invalid-email"))
				s.Must(contact.EnterMessage(ctx, "Test message"))
			},
		},
	}
}
