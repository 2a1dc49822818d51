// internal/fill/match.go
package fill

import (
	"strings"

	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// Containment scores for fuzzy option matching, highest to lowest: a match
// on visible text outranks a match on the value attribute, and an option
// containing the target outranks the target containing the option.
const (
	scoreTextContainsTarget  = 0.7
	scoreTargetContainsText  = 0.6
	scoreValueContainsTarget = 0.5
	scoreTargetContainsValue = 0.4
)

// ScoreMatch rates one select option against a target value, returning 0
// when neither text nor value overlaps. Pure string work, case-insensitive,
// so it is testable without any document.
func ScoreMatch(optionText, optionValue, target string) float64 {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return 0
	}
	text := strings.ToLower(strings.TrimSpace(optionText))
	value := strings.ToLower(strings.TrimSpace(optionValue))

	best := 0.0
	if text != "" {
		if strings.Contains(text, target) {
			best = scoreTextContainsTarget
		} else if strings.Contains(target, text) {
			best = scoreTargetContainsText
		}
	}
	if value != "" && best < scoreValueContainsTarget {
		if strings.Contains(value, target) {
			best = scoreValueContainsTarget
		} else if best < scoreTargetContainsValue && strings.Contains(target, value) {
			best = scoreTargetContainsValue
		}
	}
	return best
}

// bestOption picks the option to select for a target value: an exact
// case-insensitive match on text or value wins outright, otherwise the
// highest non-zero fuzzy score. Disabled options are never candidates. The
// returned bool is false when nothing scored above zero.
func bestOption(options []dom.Option, target string) (dom.Option, bool) {
	lowered := strings.ToLower(strings.TrimSpace(target))
	for _, opt := range options {
		if opt.Disabled {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(opt.Text), lowered) ||
			strings.EqualFold(strings.TrimSpace(opt.Value), lowered) {
			return opt, true
		}
	}

	var best dom.Option
	bestScore := 0.0
	for _, opt := range options {
		if opt.Disabled {
			continue
		}
		if score := ScoreMatch(opt.Text, opt.Value, target); score > bestScore {
			best = opt
			bestScore = score
		}
	}
	return best, bestScore > 0
}
