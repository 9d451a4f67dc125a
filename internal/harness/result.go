package harness

import (
	"time"

	errs "github.com/valpere/PrismCheck/internal/errors"
)

// Outcome is the final state of one scenario run.
type Outcome string

const (
	OutcomePassed         Outcome = "passed"
	OutcomeAssertion      Outcome = "assertion_failed"
	OutcomeElement        Outcome = "element_fault"
	OutcomeInfrastructure Outcome = "infrastructure_fault"
)

// OutcomeOf maps a fault kind to an outcome.
func OutcomeOf(kind errs.Kind) Outcome {
	switch kind {
	case errs.KindNone:
		return OutcomePassed
	case errs.KindAssertion:
		return OutcomeAssertion
	case errs.KindElement:
		return OutcomeElement
	default:
		return OutcomeInfrastructure
	}
}

// Kind maps the outcome back to its fault kind.
func (o Outcome) Kind() errs.Kind {
	switch o {
	case OutcomePassed:
		return errs.KindNone
	case OutcomeAssertion:
		return errs.KindAssertion
	case OutcomeElement:
		return errs.KindElement
	default:
		return errs.KindInfrastructure
	}
}

// Result describes one scenario run. Err is the fault that decided the
// outcome; TeardownErr is reported separately and never changes Outcome.
type Result struct {
	Scenario    string
	Group       string
	Outcome     Outcome
	Failures    []string
	Err         error
	TeardownErr error
	Screenshot  string
	Duration    time.Duration
}

// Passed reports whether the scenario passed.
func (r Result) Passed() bool {
	return r.Outcome == OutcomePassed
}
