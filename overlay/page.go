package overlay

import (
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a standalone HTML document showing a raster image with layers
// stacked on top of it.
type Page struct {
	Title  string
	Width  float64
	Height float64

	// PNG is the encoded plot image drawn under the layers. It may be nil.
	PNG []byte

	Layers []*Layer
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Render writes the document.
func (p *Page) Render(w io.Writer) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: p.Title})
	head.AppendChild(title)
	root.AppendChild(head)

	body := element(atom.Body, "style", "margin: 0")
	root.AppendChild(body)

	frame := element(atom.Div, "class", "ggmark-frame",
		"style", fmt.Sprintf("position: relative; width: %vpx; height: %vpx", p.Width, p.Height))
	body.AppendChild(frame)

	if p.PNG != nil {
		frame.AppendChild(element(atom.Img,
			"src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(p.PNG),
			"width", fmt.Sprint(p.Width),
			"height", fmt.Sprint(p.Height),
			"style", "position: absolute; left: 0px; top: 0px",
		))
	}

	// Layer roots are moved into the frame for rendering and detached
	// again so the layers stay usable.
	for _, l := range p.Layers {
		frame.AppendChild(l.root)
	}
	defer func() {
		for _, l := range p.Layers {
			frame.RemoveChild(l.root)
		}
	}()

	return html.Render(w, doc)
}
