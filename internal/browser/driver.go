package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/internal/chain"
	"github.com/hfadhel/tawseel-cli/internal/fill"
)

// PageDriver executes chain actions against a live page. Element resolution
// and option matching run inside the page via evaluated snippets; clicks and
// keystrokes go through chromedp so the browser produces trusted events.
type PageDriver struct {
	page   context.Context
	logger *zap.Logger
}

// NewPageDriver wraps an open page context from Session.NewPage.
func NewPageDriver(page context.Context, logger *zap.Logger) *PageDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageDriver{page: page, logger: logger.Named("driver")}
}

var _ chain.Driver = (*PageDriver)(nil)

// locatorExpr returns a JS expression that resolves the locator to an
// element, or null when nothing matches.
func locatorExpr(loc chain.Locator) string {
	if loc.By == chain.ByXPath {
		return fmt.Sprintf(
			"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
			jsEncode(loc.Expr))
	}
	return fmt.Sprintf("document.querySelector(%s)", jsEncode(loc.Expr))
}

func queryOption(loc chain.Locator) chromedp.QueryOption {
	if loc.By == chain.ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (d *PageDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := CombineContext(d.page, ctx)
	defer cancel()
	return chromedp.Run(combined, actions...)
}

// Ready reports whether the document has finished loading.
func (d *PageDriver) Ready(ctx context.Context) (bool, error) {
	var ready bool
	err := d.run(ctx, chromedp.Evaluate(`document.readyState === "complete"`, &ready))
	if err != nil {
		return false, fmt.Errorf("checking document readiness: %w", err)
	}
	return ready, nil
}

// Exists reports whether the locator matches an element on the page.
func (d *PageDriver) Exists(ctx context.Context, loc chain.Locator) (bool, error) {
	var found bool
	expr := fmt.Sprintf("%s !== null", locatorExpr(loc))
	if err := d.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return false, fmt.Errorf("locating %s: %w", loc, err)
	}
	return found, nil
}

// TypeText clicks the element to focus it, then sends one key event per
// character with keyDelay between keystrokes.
func (d *PageDriver) TypeText(ctx context.Context, loc chain.Locator, text string, keyDelay time.Duration) error {
	if err := d.run(ctx, chromedp.Click(loc.Expr, queryOption(loc))); err != nil {
		return fmt.Errorf("focusing %s: %w", loc, err)
	}
	for _, r := range text {
		if err := d.run(ctx, chromedp.KeyEvent(string(r))); err != nil {
			return fmt.Errorf("typing into %s: %w", loc, err)
		}
		if keyDelay > 0 {
			select {
			case <-time.After(keyDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	d.logger.Debug("typed text", zap.Stringer("locator", loc), zap.Int("chars", len(text)))
	return nil
}

type pageOption struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled"`
}

// SelectOption reads the dropdown's options, picks the best match for the
// target text (exact first, then fuzzy), sets it and fires a change event.
func (d *PageDriver) SelectOption(ctx context.Context, loc chain.Locator, text string) error {
	collect := fmt.Sprintf(`(function () {
	var el = %s;
	if (!el || el.tagName !== "SELECT") { return null; }
	var out = [];
	for (var i = 0; i < el.options.length; i++) {
		var o = el.options[i];
		out.push({ value: o.value, text: o.text, disabled: o.disabled });
	}
	return out;
})()`, locatorExpr(loc))

	var options []pageOption
	if err := d.run(ctx, chromedp.Evaluate(collect, &options)); err != nil {
		return fmt.Errorf("reading options of %s: %w", loc, err)
	}
	if options == nil {
		return fmt.Errorf("element %s is not a select", loc)
	}

	best := pickOption(options, text)
	if best < 0 {
		return fmt.Errorf("no option of %s matches %q", loc, text)
	}

	apply := fmt.Sprintf(`(function () {
	var el = %s;
	el.selectedIndex = %d;
	el.dispatchEvent(new Event("change", { bubbles: true }));
})()`, locatorExpr(loc), best)
	if err := d.run(ctx, chromedp.Evaluate(apply, nil)); err != nil {
		return fmt.Errorf("selecting option of %s: %w", loc, err)
	}
	d.logger.Debug("selected option",
		zap.Stringer("locator", loc),
		zap.String("target", text),
		zap.String("option", options[best].Text))
	return nil
}

// pickOption mirrors the matching used for heuristic fills: an exact
// case-insensitive hit on text or value wins outright, otherwise the
// highest-scoring fuzzy candidate is chosen. Disabled options never match.
func pickOption(options []pageOption, target string) int {
	want := strings.TrimSpace(target)
	for i, o := range options {
		if o.Disabled {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(o.Text), want) ||
			strings.EqualFold(strings.TrimSpace(o.Value), want) {
			return i
		}
	}
	bestIdx, bestScore := -1, 0.0
	for i, o := range options {
		if o.Disabled {
			continue
		}
		if score := fill.ScoreMatch(o.Text, o.Value, target); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return bestIdx
}

// Click clicks the element matched by the locator.
func (d *PageDriver) Click(ctx context.Context, loc chain.Locator) error {
	if err := d.run(ctx, chromedp.Click(loc.Expr, queryOption(loc))); err != nil {
		return fmt.Errorf("clicking %s: %w", loc, err)
	}
	return nil
}
