package scenario

import (
	"github.com/stretchr/testify/assert"

	"github.com/valpere/PrismCheck/internal/harness"
)

func homeScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "loads_successfully",
			Group:       GroupHome,
			Description: "Home page loads and its document title mentions Prism",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Home().Navigate(ctx))

				title := s.MustText(s.Driver().Title(ctx))
				s.Logf("Page title: %s", title)
				assert.Contains(s, title, "Prism", "Page title should contain 'Prism'")
			},
		},
		{
			Name:        "main_heading",
			Group:       GroupHome,
			Description: "Hero heading carries the company tagline",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))

				heading := s.MustText(home.MainHeading(ctx))
				s.Logf("Main heading: %s", heading)
				assert.Contains(s, heading, "Building Cutting-Edge Software")
			},
		},
		{
			Name:        "why_choose_prism_visible",
			Group:       GroupHome,
			Description: "Why Choose Prism section is displayed after scrolling to it",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				s.Must(home.ScrollToWhyChoosePrism(ctx))

				assert.True(s, s.MustFlag(home.WhyChoosePrismVisible(ctx)), "Why Choose Prism section should be visible")
			},
		},
		{
			Name:        "products_visible",
			Group:       GroupHome,
			Description: "Our Latest Products section is displayed after scrolling to it",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				s.Must(home.ScrollToProducts(ctx))

				assert.True(s, s.MustFlag(home.ProductsVisible(ctx)), "Our Products section should be visible")
			},
		},
		{
			Name:        "logo_displayed",
			Group:       GroupHome,
			Description: "Site logo is displayed in the header",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))

				assert.True(s, s.MustFlag(home.LogoDisplayed(ctx)), "Logo should be displayed")
			},
		},
		{
			Name:        "about_link",
			Group:       GroupHome,
			Description: "About link leads to a page with a heading",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				s.Must(home.ClickAbout(ctx))

				title := s.MustText(s.About().Title(ctx))
				s.Logf("About page title: %s", title)
				assert.NotEmpty(s, title, "About page title should not be empty")
			},
		},
		{
			Name:        "contact_us_link",
			Group:       GroupHome,
			Description: "Contact Us button leads to the contact page",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				home := s.Home()
				s.Must(home.Navigate(ctx))
				s.Must(home.ClickContactUs(ctx))

				assert.True(s, s.MustFlag(s.Contact().ConnectSectionVisible(ctx)), "Should navigate to Contact page")
			},
		},
	}
}
