package canvas

import (
	"github.com/gogpu/gg"
)

// GG adapts a gg.Context to the Context interface.
//
// gg shares one brush between fill and stroke and does not save paint on
// Push, so GG tracks its own drawing state and applies it before each
// paint operation.
type GG struct {
	dc    *gg.Context
	book  *FontBook
	st    ggState
	stack []ggState
}

type ggState struct {
	fill       gg.RGBA
	stroke     gg.RGBA
	width      float64
	join       gg.LineJoin
	cap        gg.LineCap
	dash       []float64
	dashOffset float64
	font       Font
	align      Align
	baseline   Baseline
}

// NewGG wraps dc. Text is drawn with faces from book; a nil book uses
// DefaultFontBook.
func NewGG(dc *gg.Context, book *FontBook) (*GG, error) {
	if book == nil {
		var err error
		if book, err = DefaultFontBook(); err != nil {
			return nil, err
		}
	}
	return &GG{
		dc:   dc,
		book: book,
		st: ggState{
			fill:     gg.Black,
			stroke:   gg.Black,
			width:    1,
			join:     gg.LineJoinMiter,
			cap:      gg.LineCapButt,
			font:     Font{Family: "sans-serif", Style: "normal", Size: 10},
			align:    AlignLeft,
			baseline: BaselineAlphabetic,
		},
	}, nil
}

// Unwrap returns the underlying gg context.
func (c *GG) Unwrap() *gg.Context { return c.dc }

// Push saves the transform and the drawing state.
func (c *GG) Push() {
	c.dc.Push()
	saved := c.st
	saved.dash = append([]float64(nil), c.st.dash...)
	c.stack = append(c.stack, saved)
}

// Pop restores the state saved by the matching Push.
func (c *GG) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.dc.Pop()
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *GG) Translate(x, y float64) { c.dc.Translate(x, y) }
func (c *GG) Rotate(angle float64)   { c.dc.Rotate(angle) }

func (c *GG) SetFillColor(col gg.RGBA)   { c.st.fill = col }
func (c *GG) SetStrokeColor(col gg.RGBA) { c.st.stroke = col }
func (c *GG) SetLineWidth(w float64)     { c.st.width = w }
func (c *GG) SetLineJoin(j gg.LineJoin)  { c.st.join = j }
func (c *GG) SetLineCap(lc gg.LineCap)   { c.st.cap = lc }

func (c *GG) SetDash(pattern ...float64) {
	c.st.dash = append(c.st.dash[:0:0], pattern...)
}

func (c *GG) SetDashOffset(offset float64) { c.st.dashOffset = offset }

func (c *GG) SetFont(f Font)             { c.st.font = f }
func (c *GG) SetTextAlign(a Align)       { c.st.align = a }
func (c *GG) SetTextBaseline(b Baseline) { c.st.baseline = b }

// MeasureText measures s with the current font. Ascent and descent are
// the face's line metrics rather than per-glyph extents.
func (c *GG) MeasureText(s string) TextMetrics {
	face := c.book.Face(c.st.font)
	if face == nil {
		return TextMetrics{}
	}
	m := face.Metrics()
	return TextMetrics{Width: face.Advance(s), Ascent: m.Ascent, Descent: m.Descent}
}

func (c *GG) NewPath() { c.dc.ClearPath() }

func (c *GG) Rect(x, y, w, h float64) { c.dc.DrawRectangle(x, y, w, h) }

// Fill fills the current path with the fill color.
func (c *GG) Fill() error {
	c.dc.SetFillBrush(gg.Solid(c.st.fill))
	return c.dc.FillPreserve()
}

// Stroke strokes the current path with the stroke color and settings.
func (c *GG) Stroke() error {
	c.dc.SetStrokeBrush(gg.Solid(c.st.stroke))
	c.dc.SetStroke(gg.Stroke{
		Width:      c.st.width,
		Cap:        c.st.cap,
		Join:       c.st.join,
		MiterLimit: 10,
		Dash:       gg.NewDash(c.st.dash...).WithOffset(c.st.dashOffset),
	})
	return c.dc.StrokePreserve()
}

// FillText draws s anchored at (x, y) using the current alignment and
// baseline. Nothing is drawn when no face is available.
func (c *GG) FillText(s string, x, y float64) error {
	face := c.book.Face(c.st.font)
	if face == nil {
		return nil
	}
	m := face.Metrics()
	tm := TextMetrics{Width: face.Advance(s), Ascent: m.Ascent, Descent: m.Descent}

	c.dc.SetFont(face)
	c.dc.SetFillBrush(gg.Solid(c.st.fill))
	c.dc.DrawString(s, x+AlignOffset(c.st.align, tm.Width), y+BaselineOffset(c.st.baseline, tm))
	return nil
}

var _ Context = (*GG)(nil)
