// internal/dom/document.go
package dom

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var (
	// ErrAccessDenied is returned when a frame's content document lives on a
	// different origin than its parent. This mirrors the browser's same-origin
	// policy and is an expected, non-fatal condition during discovery.
	ErrAccessDenied = errors.New("dom: cross-origin access denied")

	// ErrNotFound is returned when a selector or XPath resolves to nothing.
	ErrNotFound = errors.New("dom: element not found")
)

// Document wraps a parsed HTML tree together with its origin and any nested
// frame documents. It also owns the synthetic event listener registry, so
// handlers registered against nodes of this document observe fills the same
// way host-page scripts would.
type Document struct {
	root   *html.Node
	origin string
	frames []*Frame

	listeners map[*html.Node]map[string][]EventHandler
}

// Frame is an <iframe> discovered in a parent document. Its content document
// is reachable only when the frame shares the parent's origin.
type Frame struct {
	Node *html.Node

	origin  string
	content *Document
	parent  *Document
}

// Parse reads an HTML document and builds its frame table. The origin is the
// "scheme://host" the document was served from; srcdoc frames and frames with
// relative sources inherit it, absolute sources carry their own.
func Parse(r io.Reader, origin string) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root, origin), nil
}

// NewDocument wraps an already-parsed tree. Used by Parse and by tests that
// build trees directly.
func NewDocument(root *html.Node, origin string) *Document {
	d := &Document{
		root:      root,
		origin:    origin,
		listeners: make(map[*html.Node]map[string][]EventHandler),
	}
	d.collectFrames()
	return d
}

// Root returns the document's root node.
func (d *Document) Root() *html.Node { return d.root }

// Origin returns the document's "scheme://host" origin.
func (d *Document) Origin() string { return d.origin }

// Frames returns the document's iframes in document order.
func (d *Document) Frames() []*Frame { return d.frames }

// Find runs an XPath query against the document root.
func (d *Document) Find(expr string) []*html.Node {
	return htmlquery.Find(d.root, expr)
}

// QueryOne resolves an XPath to a single node, or ErrNotFound.
func (d *Document) QueryOne(expr string) (*html.Node, error) {
	n := htmlquery.FindOne(d.root, expr)
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// collectFrames scans the tree for iframes. Frames carrying inline srcdoc
// markup are parsed immediately and attached as same-origin content.
func (d *Document) collectFrames() {
	for _, node := range htmlquery.Find(d.root, "//iframe") {
		f := &Frame{
			Node:   node,
			parent: d,
			origin: resolveFrameOrigin(d.origin, node),
		}
		if srcdoc := htmlquery.SelectAttr(node, "srcdoc"); srcdoc != "" {
			if inner, err := htmlquery.Parse(strings.NewReader(srcdoc)); err == nil {
				f.content = NewDocument(inner, d.origin)
			}
		}
		d.frames = append(d.frames, f)
	}
}

// Origin returns the frame's resolved origin.
func (f *Frame) Origin() string { return f.origin }

// AttachContent installs a fetched content document for the frame. The caller
// is responsible for having fetched it from the frame's own origin.
func (f *Frame) AttachContent(doc *Document) { f.content = doc }

// ContentDocument returns the frame's content document. Cross-origin frames
// return ErrAccessDenied; same-origin frames whose content was never fetched
// return (nil, nil), which discovery treats as an empty frame.
func (f *Frame) ContentDocument() (*Document, error) {
	if f.origin != f.parent.origin {
		return nil, ErrAccessDenied
	}
	return f.content, nil
}

// resolveFrameOrigin derives a frame's origin from its src attribute. A
// missing or relative src, and srcdoc frames, inherit the parent origin.
func resolveFrameOrigin(parentOrigin string, node *html.Node) string {
	src := htmlquery.SelectAttr(node, "src")
	if src == "" || strings.HasPrefix(src, "about:") {
		return parentOrigin
	}
	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() {
		return parentOrigin
	}
	return u.Scheme + "://" + u.Host
}

// OriginOf extracts the "scheme://host" origin of an absolute URL.
func OriginOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return "", errors.New("dom: origin requires an absolute URL")
	}
	return u.Scheme + "://" + u.Host, nil
}
