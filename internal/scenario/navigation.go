package scenario

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/PrismCheck/internal/harness"
)

func navigationScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "complete_flow",
			Group:       GroupNavigation,
			Description: "Home, About, Contact and back to Home using only links",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				assert.NotEmpty(s, s.MustText(s.Driver().Title(ctx)), "Home page should load")

				s.Must(home.ClickAbout(ctx))
				about := s.About()
				require.Contains(s, s.MustText(about.Title(ctx)), "About", "Should be on About page")

				s.Must(about.ClickContact(ctx))
				contact := s.Contact()
				require.Contains(s, s.MustText(contact.Title(ctx)), "Contact", "Should be on Contact page")

				s.Must(contact.ClickHome(ctx))
				assert.NotEmpty(s, s.MustText(s.Home().MainHeading(ctx)), "Should be back on Home page")
				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), s.ExpectedHost())
			},
		},
		{
			Name:        "direct_navigation",
			Group:       GroupNavigation,
			Description: "Each page is reachable by URL",
			Run: func(s *harness.Scope) {
				ctx := s.Context()

				s.Must(s.Home().Navigate(ctx))
				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), s.ExpectedHost(), "Should be on home page")

				s.Must(s.About().Navigate(ctx))
				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), "/about", "Should be on About page")

				s.Must(s.Contact().Navigate(ctx))
				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), "/contact", "Should be on Contact page")
			},
		},
		{
			Name:        "home_accessible",
			Group:       GroupNavigation,
			Description: "Home page loads on the expected host",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Home().Navigate(ctx))

				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), s.ExpectedHost(), "Home page should load")
			},
		},
		{
			Name:        "title_consistency",
			Group:       GroupNavigation,
			Description: "Every page has a document title",
			Run: func(s *harness.Scope) {
				ctx := s.Context()

				s.Must(s.Home().Navigate(ctx))
				homeTitle := s.MustText(s.Driver().Title(ctx))
				s.Logf("Home page title: %s", homeTitle)
				assert.NotEmpty(s, homeTitle, "Home page title should not be empty")

				s.Must(s.About().Navigate(ctx))
				aboutTitle := s.MustText(s.Driver().Title(ctx))
				s.Logf("About page title: %s", aboutTitle)
				assert.NotEmpty(s, aboutTitle, "About page title should not be empty")

				s.Must(s.Contact().Navigate(ctx))
				assert.Contains(s, s.MustText(s.Driver().Location(ctx)), "/contact", "Should be on Contact page")
			},
		},
		{
			Name:        "back_button",
			Group:       GroupNavigation,
			Description: "History back from About returns to Home",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Home().Navigate(ctx))
				s.Must(s.About().Navigate(ctx))
				s.Logf("Current URL (About): %s", s.MustText(s.Driver().Location(ctx)))

				s.Must(s.Driver().Back(ctx))
				url := s.MustText(s.Driver().Location(ctx))
				s.Logf("URL after back button: %s", url)
				assert.Contains(s, url, s.ExpectedHost(), "Back button should navigate to home page")
				assert.NotContains(s, url, "/about", "Back button should leave the About page")
			},
		},
		{
			Name:        "forward_button",
			Group:       GroupNavigation,
			Description: "History forward after back returns to About",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Home().Navigate(ctx))
				s.Must(s.About().Navigate(ctx))
				s.Must(s.Driver().Back(ctx))
				s.Must(s.Driver().Forward(ctx))

				url := s.MustText(s.Driver().Location(ctx))
				s.Logf("URL after forward button: %s", url)
				assert.Contains(s, url, "/about", "Forward button should navigate to About page")
			},
		},
	}
}
