// Package overlay provides retained-mode styled elements positioned over
// a plot, backed by an HTML node tree.
//
// A Layer owns one absolutely positioned element per row. Elements are
// created on demand and persist across renders; a render pass only updates
// their text, style and visibility.
package overlay

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Layer is a container of overlay elements.
type Layer struct {
	id    string
	root  *html.Node
	elems []*Element
}

// NewLayer returns an empty layer of the given pixel size. The layer root
// gets a unique id so several layers can share one document.
func NewLayer(width, height float64) *Layer {
	id := "ggmark-" + uuid.New().String()
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: id},
			{Key: "class", Val: "ggmark-overlay"},
			{Key: "style", Val: fmt.Sprintf("position: absolute; left: 0px; top: 0px; width: %vpx; height: %vpx; overflow: hidden", width, height)},
		},
	}
	return &Layer{id: id, root: root}
}

// ID returns the id of the layer root.
func (l *Layer) ID() string { return l.id }

// Root returns the layer root node.
func (l *Layer) Root() *html.Node { return l.root }

// Len returns the number of created elements.
func (l *Layer) Len() int { return len(l.elems) }

// Grow creates elements until the layer holds at least n.
func (l *Layer) Grow(n int) {
	for len(l.elems) < n {
		e := newElement()
		l.root.AppendChild(e.node)
		l.elems = append(l.elems, e)
	}
}

// Element returns element i, creating it and all before it if needed.
func (l *Layer) Element(i int) *Element {
	l.Grow(i + 1)
	return l.elems[i]
}

// HideFrom hides every element with index n or greater.
func (l *Layer) HideFrom(n int) {
	for i := n; i < len(l.elems); i++ {
		l.elems[i].Hide()
	}
}

// Render writes the layer as HTML.
func (l *Layer) Render(w io.Writer) error {
	return html.Render(w, l.root)
}

// Element is one styled overlay element.
type Element struct {
	node  *html.Node
	text  *html.Node
	style map[string]string
}

func newElement() *Element {
	text := &html.Node{Type: html.TextNode}
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: "ggmark-label"}},
	}
	node.AppendChild(text)
	e := &Element{node: node, text: text, style: map[string]string{}}
	e.SetStyle("position", "absolute")
	e.SetStyle("white-space", "nowrap")
	e.Hide()
	return e
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node { return e.node }

// Text returns the text content.
func (e *Element) Text() string { return e.text.Data }

// SetText replaces the text content.
func (e *Element) SetText(s string) { e.text.Data = s }

// Style returns a style property, or "" if unset.
func (e *Element) Style(prop string) string { return e.style[prop] }

// SetStyle sets a style property.
func (e *Element) SetStyle(prop, value string) {
	e.style[prop] = value
	e.syncStyle()
}

// RemoveStyle unsets a style property.
func (e *Element) RemoveStyle(prop string) {
	if _, ok := e.style[prop]; !ok {
		return
	}
	delete(e.style, prop)
	e.syncStyle()
}

// Show makes the element visible.
func (e *Element) Show() { e.SetStyle("display", "block") }

// Hide hides the element.
func (e *Element) Hide() { e.SetStyle("display", "none") }

// Visible reports whether the element is shown.
func (e *Element) Visible() bool { return e.style["display"] != "none" }

func (e *Element) syncStyle() {
	props := make([]string, 0, len(e.style))
	for p := range e.style {
		props = append(props, p)
	}
	sort.Strings(props)

	var sb strings.Builder
	for i, p := range props {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(p)
		sb.WriteString(": ")
		sb.WriteString(e.style[p])
	}

	for i := range e.node.Attr {
		if e.node.Attr[i].Key == "style" {
			e.node.Attr[i].Val = sb.String()
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: "style", Val: sb.String()})
}
