// internal/dom/signals.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ancestorSignalDepth bounds how far up the tree surrounding text is taken
// from. Three levels captures the usual label/wrapper/row nesting of form
// markup without dragging in the whole page.
const ancestorSignalDepth = 3

// Signals collects every textual hint available for a field into one
// lower-cased search corpus for the classifier. No individual source is
// weighted; the corpus is a plain union of:
//
//	name, id and class attributes, the placeholder, the text of a
//	<label for=...> pointing at the element, the text content of up to
//	three ancestor levels, and the text of the parent's sibling nodes
//	(which catches label text typed loosely next to the input).
//
// Lower-casing makes Latin keyword matching case-insensitive; Arabic has no
// case, so it passes through unchanged.
func Signals(f *Field) string {
	var sb strings.Builder

	appendSignal(&sb, f.Name())
	appendSignal(&sb, f.ID())
	appendSignal(&sb, f.Attr("class"))
	appendSignal(&sb, f.Attr("placeholder"))

	if id := f.ID(); id != "" {
		expr := fmt.Sprintf(`//label[@for=%q]`, id)
		if label := htmlquery.FindOne(f.doc.root, expr); label != nil {
			appendSignal(&sb, htmlquery.InnerText(label))
		}
	}

	depth := 0
	for parent := f.Node.Parent; parent != nil && depth < ancestorSignalDepth; parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}
		appendSignal(&sb, htmlquery.InnerText(parent))
		depth++
	}

	if parent := f.Node.Parent; parent != nil {
		for sib := parent.PrevSibling; sib != nil; sib = sib.PrevSibling {
			appendSignal(&sb, nodeText(sib))
		}
		for sib := parent.NextSibling; sib != nil; sib = sib.NextSibling {
			appendSignal(&sb, nodeText(sib))
		}
	}

	return strings.ToLower(sb.String())
}

func appendSignal(sb *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(s)
}

func nodeText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
		return htmlquery.InnerText(n)
	default:
		return ""
	}
}
