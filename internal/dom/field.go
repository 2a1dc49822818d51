// internal/dom/field.go
package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Kind tags a candidate element with the interaction strategy it supports.
// The kind is determined once at discovery time so fillers dispatch on a
// closed set of variants instead of re-probing attributes.
type Kind int

const (
	// KindText covers <input> and <textarea>: value is written directly.
	KindText Kind = iota
	// KindSelect covers <select>: one option is chosen by matching.
	KindSelect
	// KindEditable covers contenteditable elements: text content is written.
	KindEditable
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSelect:
		return "select"
	case KindEditable:
		return "editable"
	default:
		return "unknown"
	}
}

// Field is a live reference to a fillable element inside a Document. It is
// transient: valid for one fill pass only, never stored across navigations.
type Field struct {
	Node *html.Node
	Kind Kind

	doc *Document
}

// Option is one <option> of a select field.
type Option struct {
	Node     *html.Node
	Value    string
	Text     string
	Disabled bool
}

// Document returns the document the field belongs to.
func (f *Field) Document() *Document { return f.doc }

// Tag returns the element's lower-cased tag name.
func (f *Field) Tag() string { return strings.ToLower(f.Node.Data) }

// Attr returns the named attribute, or "" when absent.
func (f *Field) Attr(name string) string { return htmlquery.SelectAttr(f.Node, name) }

// Name returns the element's name attribute.
func (f *Field) Name() string { return f.Attr("name") }

// ID returns the element's id attribute.
func (f *Field) ID() string { return f.Attr("id") }

// Type returns the lower-cased type attribute of an input element.
func (f *Field) Type() string { return strings.ToLower(f.Attr("type")) }

// XPath returns a unique XPath selector addressing the field's node.
func (f *Field) XPath() string { return UniqueXPath(f.Node) }

// Value reads the field's current value: the value attribute for inputs, the
// selected option's value for selects, the text content for textareas and
// editable elements.
func (f *Field) Value() string {
	switch f.Kind {
	case KindSelect:
		for _, opt := range f.Options() {
			if htmlquery.SelectAttr(opt.Node, "selected") != "" {
				return opt.Value
			}
		}
		return ""
	case KindEditable:
		return strings.TrimSpace(htmlquery.InnerText(f.Node))
	default:
		if f.Tag() == "textarea" {
			return strings.TrimSpace(htmlquery.InnerText(f.Node))
		}
		return f.Attr("value")
	}
}

// Options returns the select field's options in document order. The value
// falls back to the option text when the value attribute is missing, and an
// option inside a disabled <optgroup> is itself disabled.
func (f *Field) Options() []Option {
	if f.Kind != KindSelect {
		return nil
	}
	var options []Option
	for _, node := range htmlquery.Find(f.Node, ".//option") {
		text := strings.TrimSpace(htmlquery.InnerText(node))
		value := htmlquery.SelectAttr(node, "value")
		if value == "" {
			value = text
		}
		disabled := hasAttr(node, "disabled")
		if !disabled && node.Parent != nil && node.Parent.Type == html.ElementNode &&
			strings.EqualFold(node.Parent.Data, "optgroup") && hasAttr(node.Parent, "disabled") {
			disabled = true
		}
		options = append(options, Option{Node: node, Value: value, Text: text, Disabled: disabled})
	}
	return options
}

// SetValue writes a plain value to a text-like field. Inputs get the value
// attribute, textareas get their text content replaced.
func (f *Field) SetValue(v string) {
	if f.Tag() == "textarea" {
		setNodeText(f.Node, v)
		return
	}
	setAttr(f.Node, "value", v)
}

// SetText writes text content, used for contenteditable elements.
func (f *Field) SetText(v string) {
	setNodeText(f.Node, v)
}

// SelectOption marks the given option as selected, clearing any previous
// selection.
func (f *Field) SelectOption(opt Option) {
	for _, other := range f.Options() {
		removeAttr(other.Node, "selected")
	}
	setAttr(opt.Node, "selected", "selected")
}

// DispatchFilled fires the synthetic event sequence host pages expect after a
// programmatic write: input, change, blur, keyup, all bubbling. Reactive
// frameworks ignore silent value mutations, so the order and presence of
// these events is part of the fill contract.
func (f *Field) DispatchFilled() {
	for _, eventType := range []string{"input", "change", "blur", "keyup"} {
		f.doc.Dispatch(f.Node, eventType)
	}
}

// -- node attribute helpers --

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func setNodeText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
