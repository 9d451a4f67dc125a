// internal/errors/kind.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/valpere/PrismCheck/internal/browser"
)

// Kind classifies why a scenario did not pass.
type Kind int

const (
	KindNone Kind = iota
	KindAssertion
	KindElement
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAssertion:
		return "assertion"
	case KindElement:
		return "element"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Exit codes returned by the CLI.
const (
	ExitOK             = 0
	ExitAssertion      = 1
	ExitConfig         = 2
	ExitElement        = 3
	ExitInfrastructure = 4
)

// ExitCode maps a fault kind to the process exit code.
func (k Kind) ExitCode() int {
	switch k {
	case KindNone:
		return ExitOK
	case KindAssertion:
		return ExitAssertion
	case KindElement:
		return ExitElement
	default:
		return ExitInfrastructure
	}
}

// Fault is an error tagged with its kind and the operation that raised it.
type Fault struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Op == "" {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Infrastructure wraps err as an infrastructure fault raised by op.
func Infrastructure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: KindInfrastructure, Op: op, Err: err}
}

// Assertion returns an assertion fault with the given message.
func Assertion(msg string) error {
	return &Fault{Kind: KindAssertion, Err: stderrors.New(msg)}
}

// Classify reports the kind of err. Engine errors for a locator that never
// resolved are element faults. A cancelled run and anything not otherwise
// recognised are infrastructure.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if stderrors.Is(err, context.Canceled) {
		return KindInfrastructure
	}

	var fault *Fault
	if stderrors.As(err, &fault) {
		return fault.Kind
	}

	var elemErr *browser.ElementError
	switch {
	case stderrors.Is(err, browser.ErrElementNotFound),
		stderrors.Is(err, browser.ErrUnknownLocator),
		stderrors.As(err, &elemErr):
		return KindElement
	default:
		return KindInfrastructure
	}
}
