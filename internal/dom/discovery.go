// internal/dom/discovery.go
package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// candidateXPath matches every element the engine considers fillable.
const candidateXPath = `//input | //select | //textarea | //*[@contenteditable="true"]`

// Discover enumerates the fillable candidates of a document and of every
// reachable same-origin frame, recursively. Cross-origin frames are skipped
// without error: the same-origin policy makes their content unreachable and
// that is an expected condition, not a failure.
//
// The traversal is read-only. Returned fields are live references into the
// documents; ordering is whatever the current tree yields and callers must
// not assume it is stable across calls on a mutating page.
func Discover(doc *Document) []*Field {
	fields := make([]*Field, 0, 16)
	for _, node := range doc.Find(candidateXPath) {
		fields = append(fields, &Field{
			Node: node,
			Kind: kindOf(node),
			doc:  doc,
		})
	}
	for _, frame := range doc.Frames() {
		content, err := frame.ContentDocument()
		if errors.Is(err, ErrAccessDenied) || content == nil {
			continue
		}
		fields = append(fields, Discover(content)...)
	}
	return fields
}

// FieldFor wraps an arbitrary node of a document as a fillable field, for
// callers addressing elements directly by selector instead of discovery.
func FieldFor(doc *Document, node *html.Node) *Field {
	return &Field{Node: node, Kind: kindOf(node), doc: doc}
}

func kindOf(node *html.Node) Kind {
	switch strings.ToLower(node.Data) {
	case "select":
		return KindSelect
	case "input", "textarea":
		return KindText
	default:
		return KindEditable
	}
}
