package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// Strategy names how a Locator's selector is interpreted.
type Strategy string

const (
	StrategyXPath    Strategy = "xpath"
	StrategyCSS      Strategy = "css"
	StrategyLinkText Strategy = "link_text"
)

// Locator is an immutable (strategy, selector) pair. It is resolved against
// the live DOM every time it is used.
type Locator struct {
	Strategy Strategy `yaml:"strategy" json:"strategy"`
	Selector string   `yaml:"selector" json:"selector"`
}

// ByXPath returns an XPath locator.
func ByXPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Selector: expr}
}

// ByCSS returns a CSS selector locator.
func ByCSS(selector string) Locator {
	return Locator{Strategy: StrategyCSS, Selector: selector}
}

// ByLinkText returns a locator matching anchors whose whitespace-normalized
// text equals text exactly.
func ByLinkText(text string) Locator {
	return Locator{Strategy: StrategyLinkText, Selector: text}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.Strategy, l.Selector)
}

// Validate checks that the locator can be resolved.
func (l Locator) Validate() error {
	if strings.TrimSpace(l.Selector) == "" {
		return fmt.Errorf("locator %s: empty selector", l.Strategy)
	}
	switch l.Strategy {
	case StrategyXPath, StrategyCSS, StrategyLinkText:
		return nil
	default:
		return fmt.Errorf("locator %q: unsupported strategy %q", l.Selector, l.Strategy)
	}
}

// XPath returns the locator as an XPath expression, or "" for CSS locators.
func (l Locator) XPath() string {
	switch l.Strategy {
	case StrategyXPath:
		return l.Selector
	case StrategyLinkText:
		return "//a[normalize-space(.)=" + xpathLiteral(strings.TrimSpace(l.Selector)) + "]"
	default:
		return ""
	}
}

// query returns the selector and query option chromedp should use.
func (l Locator) query() (string, chromedp.QueryOption) {
	if l.Strategy == StrategyCSS {
		return l.Selector, chromedp.ByQuery
	}
	return l.XPath(), chromedp.BySearch
}

// lookupScript returns a JavaScript expression evaluating to the first
// element matched by the locator, or null.
func (l Locator) lookupScript() string {
	if l.Strategy == StrategyCSS {
		return "document.querySelector(" + jsString(l.Selector) + ")"
	}
	return "document.evaluate(" + jsString(l.XPath()) +
		", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue"
}

// displayedScript mirrors WebDriver's notion of a displayed element: it has
// a non-empty box and is not hidden by display, visibility or opacity.
func (l Locator) displayedScript() string {
	return `(() => {
	const el = ` + l.lookupScript() + `;
	if (!el) return false;
	const style = window.getComputedStyle(el);
	if (style.display === "none" || style.visibility === "hidden" || style.opacity === "0") return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})()`
}

func (l Locator) scrollScript() string {
	return `(() => {
	const el = ` + l.lookupScript() + `;
	if (!el) return false;
	el.scrollIntoView(true);
	return true;
})()`
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
