package scenario

import (
	"github.com/stretchr/testify/assert"

	"github.com/valpere/PrismCheck/internal/harness"
)

func aboutScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "loads_successfully",
			Group:       GroupAbout,
			Description: "About page document title mentions About",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.About().Navigate(ctx))

				title := s.MustText(s.Driver().Title(ctx))
				s.Logf("Page title: %s", title)
				assert.Contains(s, title, "About", "Page title should contain 'About'")
			},
		},
		{
			Name:        "page_heading",
			Group:       GroupAbout,
			Description: "About page heading names the company",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))

				assert.Contains(s, s.MustText(about.Title(ctx)), "About Prism")
			},
		},
		{
			Name:        "mission_visible",
			Group:       GroupAbout,
			Description: "Our Mission section is displayed after scrolling to it",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ScrollToMission(ctx))

				assert.True(s, s.MustFlag(about.MissionVisible(ctx)), "Mission section should be visible")
			},
		},
		{
			Name:        "vision_visible",
			Group:       GroupAbout,
			Description: "Our Vision section is displayed after scrolling to it",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ScrollToVision(ctx))

				assert.True(s, s.MustFlag(about.VisionVisible(ctx)), "Vision section should be visible")
			},
		},
		{
			Name:        "smart_operations_visible",
			Group:       GroupAbout,
			Description: "Smart Operations section is displayed",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))

				assert.True(s, s.MustFlag(about.SmartOperationsVisible(ctx)), "Smart Operations section should be visible")
			},
		},
		{
			Name:        "home_link",
			Group:       GroupAbout,
			Description: "Home link leads back to the landing page",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ClickHome(ctx))

				heading := s.MustText(s.Home().MainHeading(ctx))
				s.Logf("Home page heading: %s", heading)
				assert.Contains(s, heading, "Building", "Should be on home page")
			},
		},
		{
			Name:        "contact_link",
			Group:       GroupAbout,
			Description: "Contact link leads to the contact form",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ClickContact(ctx))

				assert.True(s, s.MustFlag(s.Contact().NameInputDisplayed(ctx)), "Should navigate to Contact page")
			},
		},
		{
			Name:        "mission_content",
			Group:       GroupAbout,
			Description: "Mission heading has text",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ScrollToMission(ctx))

				text := s.MustText(about.MissionText(ctx))
				s.Logf("Mission text: %s", text)
				assert.NotEmpty(s, text, "Mission text should not be empty")
			},
		},
		{
			Name:        "vision_content",
			Group:       GroupAbout,
			Description: "Vision heading has text",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				about := s.About()
				s.Must(about.Navigate(ctx))
				s.Must(about.ScrollToVision(ctx))

				text := s.MustText(about.VisionText(ctx))
				s.Logf("Vision text: %s", text)
				assert.NotEmpty(s, text, "Vision text should not be empty")
			},
		},
	}
}
