package scenario

import (
	"github.com/stretchr/testify/assert"

	"github.com/valpere/PrismCheck/internal/harness"
)

func sampleScenarios(sampleURL string) []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "navigation",
			Group:       GroupSample,
			Description: "Smoke check that the browser can load a public page",
			Run: func(s *harness.Scope) {
				ctx := s.Context()
				s.Must(s.Driver().Navigate(ctx, sampleURL))

				title := s.MustText(s.Driver().Title(ctx))
				s.Logf("Page title: %s", title)
				assert.NotEmpty(s, title, "Page title should not be empty")
			},
		},
	}
}
