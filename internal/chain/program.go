// internal/chain/program.go
package chain

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Step is one declarative chain action as it appears in a program file.
// Which fields matter depends on the action.
type Step struct {
	Action   string `json:"action"`
	Selector string `json:"selector,omitempty"`
	XPath    string `json:"xpath,omitempty"`
	Text     string `json:"text,omitempty"`
	// Timeout applies to waitForElement; Delay to setDelay. Both are
	// Go duration strings ("500ms", "3s").
	Timeout string `json:"timeout,omitempty"`
	Delay   string `json:"delay,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
}

// Program is an ordered list of steps, usually loaded from a JSON file, that
// can be replayed onto a Controller.
type Program []Step

// LoadProgram reads and parses a program file.
func LoadProgram(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain program: %w", err)
	}
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing chain program %s: %w", path, err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("chain program %s has no steps", path)
	}
	return p, nil
}

// Apply queues every step onto the controller in program order. Unknown
// actions and missing attributes fail here, before anything touches a page.
func (p Program) Apply(c *Controller, defaultElementTimeout time.Duration) error {
	for i, step := range p {
		if err := applyStep(c, step, defaultElementTimeout); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return nil
}

func applyStep(c *Controller, step Step, defaultElementTimeout time.Duration) error {
	switch step.Action {
	case "waitForPageLoad":
		c.WaitForPageLoad()
	case "waitForElement":
		if step.Selector == "" {
			return fmt.Errorf("selector is required")
		}
		timeout := defaultElementTimeout
		if step.Timeout != "" {
			parsed, err := time.ParseDuration(step.Timeout)
			if err != nil {
				return fmt.Errorf("bad timeout: %w", err)
			}
			timeout = parsed
		}
		c.WaitForElement(step.Selector, timeout)
	case "typeText":
		switch {
		case step.Selector != "":
			c.TypeText(step.Selector, step.Text)
		case step.XPath != "":
			c.TypeTextByXPath(step.XPath, step.Text)
		default:
			return fmt.Errorf("selector or xpath is required")
		}
	case "selectOption":
		if step.Selector == "" {
			return fmt.Errorf("selector is required")
		}
		c.SelectOption(step.Selector, step.Text)
	case "click":
		switch {
		case step.Selector != "":
			c.Click(step.Selector)
		case step.XPath != "":
			c.ClickByXPath(step.XPath)
		default:
			return fmt.Errorf("selector or xpath is required")
		}
	case "setDelay":
		if step.Delay == "" {
			return fmt.Errorf("delay is required")
		}
		parsed, err := time.ParseDuration(step.Delay)
		if err != nil {
			return fmt.Errorf("bad delay: %w", err)
		}
		c.SetDelay(parsed)
	case "setDebugMode":
		c.SetDebugMode(step.Enabled)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}
