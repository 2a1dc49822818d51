// internal/script/builder.go

// Package script renders a company's autofill logic and one order record
// into a single executable source string, either as plain text for direct
// injection or as a javascript: bookmarklet URI.
package script

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/classify"
)

//go:embed assets/autofill.js
var autofillAsset string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Mode says how a build was produced.
type Mode string

const (
	// ModeInlineCall packages the embedded heuristic engine with the record
	// inlined as a JSON literal.
	ModeInlineCall Mode = "inline-call"
	// ModeCustomScript substitutes record placeholders into a profile's
	// hand-authored script.
	ModeCustomScript Mode = "custom-script"
)

// Options tune the generic in-page engine.
type Options struct {
	// ShowOverlay controls the fixed-position summary overlay the injected
	// script renders in the target document.
	ShowOverlay bool
	// Watch keeps a mutation observer alive after the first pass and
	// refills when the candidate set changes.
	Watch bool
}

// DefaultOptions matches the bookmarklet behavior users expect: overlay on,
// no watcher.
func DefaultOptions() Options {
	return Options{ShowOverlay: true}
}

// Build is one packaged script plus the audit trail of its generation.
type Build struct {
	// Source is the complete executable script, wrapped in an IIFE.
	Source string
	Mode   Mode
	// Manifest lists the placeholders substituted into a custom script, in
	// sorted order; empty for inline-call builds.
	Manifest []string
}

// Builder packages autofill scripts. It is stateless apart from its logger.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a script builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.Named("script")}
}

// ForProfile packages the right strategy for a company: the profile's custom
// script when it carries one, the generic heuristic engine otherwise. The
// generated source is compile-checked before it is returned so a broken
// profile script fails here rather than silently inside the target page.
func (b *Builder) ForProfile(profile schemas.CompanyProfile, record schemas.Record, opts Options) (Build, error) {
	if err := profile.Validate(); err != nil {
		return Build{}, err
	}
	if profile.IsCustomScript {
		return b.Custom(profile.AutofillScript, record)
	}
	return b.Generic(record, opts)
}

// Generic packages the embedded in-page engine with the record and the
// classifier keyword table inlined as JSON literals.
func (b *Builder) Generic(record schemas.Record, opts Options) (Build, error) {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return Build{}, fmt.Errorf("encoding record: %w", err)
	}
	rulesJSON, err := json.Marshal(classify.KeywordTable())
	if err != nil {
		return Build{}, fmt.Errorf("encoding keyword table: %w", err)
	}
	optsJSON, err := json.Marshal(map[string]bool{
		"showOverlay": opts.ShowOverlay,
		"watch":       opts.Watch,
	})
	if err != nil {
		return Build{}, fmt.Errorf("encoding options: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(autofillAsset)
	sb.WriteString("\ntawseelAutofill(")
	sb.Write(recordJSON)
	sb.WriteString(", ")
	sb.Write(rulesJSON)
	sb.WriteString(", ")
	sb.Write(optsJSON)
	sb.WriteString(");\n")

	source := wrapIIFE(sb.String())
	if err := Validate(source); err != nil {
		return Build{}, err
	}
	b.logger.Debug("Packaged generic engine.", zap.Int("bytes", len(source)))
	return Build{Source: source, Mode: ModeInlineCall}, nil
}

// Custom substitutes {{field}} placeholders in a hand-authored script with
// the record's JSON-stringified values and wraps the result in an IIFE. The
// returned manifest records which placeholders were actually replaced, so
// profile authors can audit what their template consumed.
func (b *Builder) Custom(template string, record schemas.Record) (Build, error) {
	substitutions := map[string]string{
		"code":        record.Code,
		"senderName":  record.SenderName,
		"phoneNumber": record.PhoneNumber,
		"province":    record.Province,
		"price":       record.Price,
		"companyName": record.CompanyName,
		"notes":       record.Notes,
		"address":     record.Address(),
	}

	source := template
	var manifest []string
	for name, value := range substitutions {
		placeholder := "{{" + name + "}}"
		if !strings.Contains(source, placeholder) {
			continue
		}
		source = strings.ReplaceAll(source, placeholder, jsEncode(value))
		manifest = append(manifest, name)
	}
	sort.Strings(manifest)

	if leftover := leftoverPlaceholder(source); leftover != "" {
		return Build{}, fmt.Errorf("unknown placeholder %s in custom script", leftover)
	}

	source = wrapIIFE(source + "\n")
	if err := Validate(source); err != nil {
		return Build{}, err
	}
	b.logger.Debug("Packaged custom script.",
		zap.Strings("substituted", manifest),
		zap.Int("bytes", len(source)))
	return Build{Source: source, Mode: ModeCustomScript, Manifest: manifest}, nil
}

// Validate compile-checks a script without running it.
func Validate(source string) error {
	if _, err := goja.Compile("", source, false); err != nil {
		return fmt.Errorf("generated script does not compile: %w", err)
	}
	return nil
}

func wrapIIFE(body string) string {
	return "(function () {\n'use strict';\n" + body + "})();"
}

// jsEncode renders a value as a JS literal via JSON, so substituted strings
// arrive quoted and escaped.
func jsEncode(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(data)
}

// leftoverPlaceholder reports the first {{...}} token that survived
// substitution.
func leftoverPlaceholder(source string) string {
	start := strings.Index(source, "{{")
	if start == -1 {
		return ""
	}
	end := strings.Index(source[start:], "}}")
	if end == -1 {
		return ""
	}
	return source[start : start+end+2]
}
