// internal/chain/chain.go

// Package chain implements the explicit, sequential automation mode used for
// hand-authored company scripts: actions are enqueued through a fluent
// builder and executed strictly in order, failing fast on the first error.
// Unlike the heuristic fill path, nothing is swallowed here; a failing step
// means the page layout changed and must be surfaced immediately.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// By selects the location strategy for an element.
type By int

const (
	ByCSS By = iota
	ByXPath
)

func (b By) String() string {
	if b == ByXPath {
		return "xpath"
	}
	return "css"
}

// Locator addresses one element on the target page.
type Locator struct {
	By   By
	Expr string
}

// CSS builds a CSS-selector locator.
func CSS(expr string) Locator { return Locator{By: ByCSS, Expr: expr} }

// XPath builds an XPath locator.
func XPath(expr string) Locator { return Locator{By: ByXPath, Expr: expr} }

func (l Locator) String() string { return l.By.String() + ":" + l.Expr }

// Driver is the page surface a chain runs against. The production driver is
// backed by a live browser session; tests substitute a fake.
type Driver interface {
	// Ready reports whether the page has finished loading.
	Ready(ctx context.Context) (bool, error)
	// Exists reports whether the locator currently matches an element.
	Exists(ctx context.Context, loc Locator) (bool, error)
	// TypeText focuses the element and types character by character with
	// the given inter-character delay.
	TypeText(ctx context.Context, loc Locator, text string, keyDelay time.Duration) error
	// SelectOption chooses a dropdown option by exact-then-fuzzy matching
	// of the given text and dispatches change.
	SelectOption(ctx context.Context, loc Locator, text string) error
	// Click clicks the element.
	Click(ctx context.Context, loc Locator) error
}

// ErrControllerUsed is returned when Execute is called on a controller that
// already ran. Controllers are single-use.
var ErrControllerUsed = errors.New("chain: controller already executed")

type state int

const (
	stateBuilding state = iota
	stateExecuting
	stateDone
	stateFailed
)

type action struct {
	name string
	run  func(ctx context.Context) error
}

// Controller queues actions against a driver and runs them in order. All
// builder methods return the controller for chaining. A controller is not
// safe for concurrent use and serves exactly one Execute call.
type Controller struct {
	driver Driver
	logger *zap.Logger

	actions []action
	state   state

	// Defaults captured by actions at enqueue time; SetDelay and
	// SetDebugMode only affect actions queued after them.
	keyDelay     time.Duration
	debug        bool
	pollInterval time.Duration
}

// Option adjusts a new controller.
type Option func(*Controller)

// WithKeyDelay sets the initial inter-character typing delay.
func WithKeyDelay(d time.Duration) Option {
	return func(c *Controller) { c.keyDelay = d }
}

// WithPollInterval overrides how often waiting actions re-check the page.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// NewController creates a controller over a driver.
func NewController(driver Driver, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		driver:       driver,
		logger:       logger.Named("chain"),
		keyDelay:     45 * time.Millisecond,
		pollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebugMode toggles per-step debug logging for subsequently queued
// actions.
func (c *Controller) SetDebugMode(enabled bool) *Controller {
	c.debug = enabled
	return c
}

// SetDelay changes the inter-character typing delay for subsequently queued
// typing actions.
func (c *Controller) SetDelay(d time.Duration) *Controller {
	c.keyDelay = d
	return c
}

// WaitForPageLoad suspends the chain until the page reports a complete load.
func (c *Controller) WaitForPageLoad() *Controller {
	return c.enqueue("waitForPageLoad", func(ctx context.Context) error {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			ready, err := c.driver.Ready(ctx)
			if err != nil {
				return err
			}
			if ready {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("page never finished loading: %w", ctx.Err())
			case <-ticker.C:
			}
		}
	})
}

// WaitForElement polls until the selector matches at least one element,
// failing the chain when the timeout elapses first.
func (c *Controller) WaitForElement(selector string, timeout time.Duration) *Controller {
	loc := CSS(selector)
	return c.enqueue("waitForElement "+loc.String(), func(ctx context.Context) error {
		deadline := time.NewTimer(timeout)
		defer deadline.Stop()
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			found, err := c.driver.Exists(ctx, loc)
			if err != nil {
				return err
			}
			if found {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-deadline.C:
				return fmt.Errorf("element %s did not appear within %s", loc, timeout)
			case <-ticker.C:
			}
		}
	})
}

// TypeText types into the element matched by a CSS selector.
func (c *Controller) TypeText(selector, text string) *Controller {
	return c.typeInto(CSS(selector), text)
}

// TypeTextByXPath types into the element matched by an XPath expression.
func (c *Controller) TypeTextByXPath(xpath, text string) *Controller {
	return c.typeInto(XPath(xpath), text)
}

func (c *Controller) typeInto(loc Locator, text string) *Controller {
	keyDelay := c.keyDelay
	return c.enqueue("typeText "+loc.String(), func(ctx context.Context) error {
		return c.locateThen(ctx, loc, func() error {
			return c.driver.TypeText(ctx, loc, text, keyDelay)
		})
	})
}

// SelectOption picks a dropdown option by visible text, with the same
// exact-then-fuzzy matching the heuristic filler uses.
func (c *Controller) SelectOption(selector, text string) *Controller {
	loc := CSS(selector)
	return c.enqueue("selectOption "+loc.String(), func(ctx context.Context) error {
		return c.locateThen(ctx, loc, func() error {
			return c.driver.SelectOption(ctx, loc, text)
		})
	})
}

// Click clicks the element matched by a CSS selector.
func (c *Controller) Click(selector string) *Controller {
	return c.clickOn(CSS(selector))
}

// ClickByXPath clicks the element matched by an XPath expression.
func (c *Controller) ClickByXPath(xpath string) *Controller {
	return c.clickOn(XPath(xpath))
}

func (c *Controller) clickOn(loc Locator) *Controller {
	return c.enqueue("click "+loc.String(), func(ctx context.Context) error {
		return c.locateThen(ctx, loc, func() error {
			return c.driver.Click(ctx, loc)
		})
	})
}

// locateThen fails immediately when the locator matches nothing, otherwise
// runs the interaction.
func (c *Controller) locateThen(ctx context.Context, loc Locator, interact func() error) error {
	found, err := c.driver.Exists(ctx, loc)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("element %s not found", loc)
	}
	return interact()
}

func (c *Controller) enqueue(name string, run func(ctx context.Context) error) *Controller {
	debug := c.debug
	c.actions = append(c.actions, action{
		name: name,
		run: func(ctx context.Context) error {
			if debug {
				c.logger.Debug("Executing action.", zap.String("action", name))
			}
			return run(ctx)
		},
	})
	return c
}

// Execute runs the queued actions strictly in order. The first failure
// aborts the rest of the queue and is returned wrapped with the failing
// action's name. A controller can execute only once.
func (c *Controller) Execute(ctx context.Context) error {
	if c.state != stateBuilding {
		return ErrControllerUsed
	}
	c.state = stateExecuting

	for i, act := range c.actions {
		if err := ctx.Err(); err != nil {
			c.state = stateFailed
			return err
		}
		if err := act.run(ctx); err != nil {
			c.state = stateFailed
			c.logger.Warn("Chain aborted.",
				zap.Int("step", i+1),
				zap.Int("of", len(c.actions)),
				zap.String("action", act.name),
				zap.Error(err))
			return fmt.Errorf("action %d/%d (%s): %w", i+1, len(c.actions), act.name, err)
		}
	}

	c.state = stateDone
	c.logger.Info("Chain complete.", zap.Int("actions", len(c.actions)))
	return nil
}
