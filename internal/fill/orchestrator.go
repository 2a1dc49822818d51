// internal/fill/orchestrator.go
package fill

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/classify"
	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// Summary is the outcome of one fill pass. FoundCount counts elements the
// classifier matched to a category; FilledFields holds each category that
// received a value at least once, in first-fill order.
type Summary struct {
	FilledFields []classify.Category
	FilledCount  int
	FoundCount   int
}

// Filled reports whether the pass wrote anything at all. Callers typically
// map this onto an item-succeeded / item-failed status.
func (s Summary) Filled() bool { return s.FilledCount > 0 }

// Orchestrator drives discovery, classification and filling across a
// document for one record. A fresh pass owns all of its state; nothing is
// cached between passes.
type Orchestrator struct {
	logger *zap.Logger
}

// NewOrchestrator creates an orchestrator logging through the given logger.
func NewOrchestrator(logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{logger: logger.Named("fill")}
}

// Run performs one heuristic fill pass: every discovered candidate is
// classified, unknown elements are skipped, and each matched element is
// filled from the record. Partial success is a normal outcome; the page is
// left as-is with no rollback.
func (o *Orchestrator) Run(doc *dom.Document, record schemas.Record) Summary {
	return o.run(dom.Discover(doc), record, Summary{}, nil)
}

// RunWithProfile runs a fill pass narrowed by a company profile's selector
// hints: each hinted selector is resolved and filled under its declared
// category first, then the generic heuristic pass covers whatever the hints
// did not reach. Hinted elements are not re-attempted by the heuristic pass.
func (o *Orchestrator) RunWithProfile(doc *dom.Document, record schemas.Record, profile schemas.CompanyProfile) Summary {
	var summary Summary
	filled := make(map[classify.Category]bool)
	claimed := make(map[*html.Node]bool)

	for _, pf := range profile.Fields {
		category := classify.Category(pf.Name)
		if ValueFor(category, record) == "" {
			continue
		}
		for _, selector := range pf.Selectors {
			field, err := resolveField(doc, selector)
			if err != nil {
				o.logger.Debug("Profile selector matched nothing.",
					zap.String("profile", profile.ID),
					zap.String("selector", selector))
				continue
			}
			claimed[field.Node] = true
			summary.FoundCount++
			if Fill(field, category, ValueFor(category, record)) {
				if !filled[category] {
					filled[category] = true
					summary.FilledFields = append(summary.FilledFields, category)
				}
				break
			}
		}
	}
	summary.FilledCount = len(summary.FilledFields)

	remaining := make([]*dom.Field, 0)
	for _, f := range dom.Discover(doc) {
		if !claimed[f.Node] {
			remaining = append(remaining, f)
		}
	}
	return o.run(remaining, record, summary, filled)
}

func (o *Orchestrator) run(fields []*dom.Field, record schemas.Record, summary Summary, filled map[classify.Category]bool) Summary {
	if filled == nil {
		filled = make(map[classify.Category]bool)
	}

	for _, f := range fields {
		category := classify.ClassifyField(f)
		if category == classify.Unknown {
			continue
		}
		summary.FoundCount++

		value := ValueFor(category, record)
		ok := Fill(f, category, value)
		o.logger.Debug("Fill attempt.",
			zap.String("category", string(category)),
			zap.String("kind", f.Kind.String()),
			zap.Bool("filled", ok))
		if ok && !filled[category] {
			filled[category] = true
			summary.FilledFields = append(summary.FilledFields, category)
		}
	}

	summary.FilledCount = len(summary.FilledFields)
	o.logger.Info("Fill pass complete.",
		zap.Int("found", summary.FoundCount),
		zap.Int("filled", summary.FilledCount))
	return summary
}

// resolveField wraps the node addressed by an XPath selector as a fillable
// field. Profile selector hints are XPath expressions.
func resolveField(doc *dom.Document, selector string) (*dom.Field, error) {
	node, err := doc.QueryOne(selector)
	if err != nil {
		return nil, err
	}
	return dom.FieldFor(doc, node), nil
}
