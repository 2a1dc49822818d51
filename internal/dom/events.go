// internal/dom/events.go
package dom

import "golang.org/x/net/html"

// Event is a synthetic DOM event delivered to registered handlers. Target is
// the node the event was dispatched on; CurrentTarget is the node whose
// listener is currently running, which differs from Target while bubbling.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Bubbles       bool
}

// EventHandler receives a synthetic event.
type EventHandler func(Event)

// AddEventListener registers a handler for an event type on a node. Handlers
// fire for events dispatched on the node itself and, when the event bubbles,
// for events dispatched on any descendant.
func (d *Document) AddEventListener(node *html.Node, eventType string, h EventHandler) {
	byType, ok := d.listeners[node]
	if !ok {
		byType = make(map[string][]EventHandler)
		d.listeners[node] = byType
	}
	byType[eventType] = append(byType[eventType], h)
}

// Dispatch delivers a bubbling synthetic event: handlers on the target fire
// first, then handlers up the parent chain to the document root.
func (d *Document) Dispatch(target *html.Node, eventType string) {
	ev := Event{Type: eventType, Target: target, Bubbles: true}
	for n := target; n != nil; n = n.Parent {
		ev.CurrentTarget = n
		for _, h := range d.listeners[n][eventType] {
			h(ev)
		}
	}
}
