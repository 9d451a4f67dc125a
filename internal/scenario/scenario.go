// Package scenario registers the regression scenarios. Each scenario is a
// flat script of page-object calls and assertions run against a fresh
// browser session.
package scenario

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/valpere/PrismCheck/internal/harness"
)

// Scenario groups.
const (
	GroupHome       = "home"
	GroupAbout      = "about"
	GroupContact    = "contact"
	GroupNavigation = "navigation"
	GroupSample     = "sample"
)

// DefaultSampleURL is the page the sample scenario loads.
const DefaultSampleURL = "https://www.example.com"

// Options tunes the registered scenarios.
type Options struct {
	// SampleURL overrides the page loaded by the sample group.
	SampleURL string
}

// All returns every registered scenario in a stable order.
func All(opts Options) []harness.Scenario {
	if opts.SampleURL == "" {
		opts.SampleURL = DefaultSampleURL
	}

	var all []harness.Scenario
	all = append(all, homeScenarios()...)
	all = append(all, aboutScenarios()...)
	all = append(all, contactScenarios()...)
	all = append(all, navigationScenarios()...)
	all = append(all, sampleScenarios(opts.SampleURL)...)
	return all
}

// ID returns the "group/name" identifier of sc.
func ID(sc harness.Scenario) string {
	return sc.Group + "/" + sc.Name
}

// Groups returns the distinct groups in scenarios, sorted.
func Groups(scenarios []harness.Scenario) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, sc := range scenarios {
		if !seen[sc.Group] {
			seen[sc.Group] = true
			groups = append(groups, sc.Group)
		}
	}
	sort.Strings(groups)
	return groups
}

// Select filters scenarios by group and by a regular expression matched
// against the scenario ID. Empty arguments match everything.
func Select(scenarios []harness.Scenario, group, pattern string) ([]harness.Scenario, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		if re, err = regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("invalid scenario pattern %q: %w", pattern, err)
		}
	}

	var selected []harness.Scenario
	for _, sc := range scenarios {
		if group != "" && sc.Group != group {
			continue
		}
		if re != nil && !re.MatchString(ID(sc)) {
			continue
		}
		selected = append(selected, sc)
	}
	return selected, nil
}

// Exclude drops the scenarios of the named groups.
func Exclude(scenarios []harness.Scenario, groups ...string) []harness.Scenario {
	drop := make(map[string]bool, len(groups))
	for _, g := range groups {
		drop[g] = true
	}
	var kept []harness.Scenario
	for _, sc := range scenarios {
		if !drop[sc.Group] {
			kept = append(kept, sc)
		}
	}
	return kept
}
