package annotation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/overlay"
	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/visual"
)

// LabelSetView renders a LabelSet.
//
// In canvas mode every row is painted onto ctx. In css mode every row
// updates one element of layer, and ctx is only used to measure text.
type LabelSetView struct {
	plot  *Plot
	model *LabelSet
	ctx   canvas.Context
	layer *overlay.Layer
	ctrl  *Controller
	dirty bool
}

// NewLabelSetView connects a view to model. ctx is required in both modes,
// since css mode measures text with it. layer may be nil when the model
// never renders in css mode.
func NewLabelSetView(plot *Plot, model *LabelSet, ctx canvas.Context, layer *overlay.Layer) (*LabelSetView, error) {
	if ctx == nil {
		return nil, fmt.Errorf("annotation: label set view needs a drawing context")
	}
	v := &LabelSetView{plot: plot, model: model, ctx: ctx, layer: layer}
	mode, err := model.RenderMode.Value()
	if err != nil {
		return nil, err
	}
	if mode == ModeCSS {
		if layer == nil {
			return nil, fmt.Errorf("annotation: css render mode needs an overlay layer")
		}
		if src := model.Source(); src != nil {
			layer.Grow(src.Len())
		}
	}
	v.ctrl = NewController(plot, model, v.requestRender)
	v.ctrl.Connect()
	return v, nil
}

// Controller returns the view's controller.
func (v *LabelSetView) Controller() *Controller { return v.ctrl }

// Dirty reports whether a change arrived since the last render.
func (v *LabelSetView) Dirty() bool { return v.dirty }

// Close disconnects the view from the model and its source.
func (v *LabelSetView) Close() { v.ctrl.Close() }

// requestRender renders css mode immediately, since overlay elements
// are not repainted by the plot, and defers canvas mode to the plot.
func (v *LabelSetView) requestRender() {
	v.dirty = true
	if mode, _ := v.model.RenderMode.Value(); mode == ModeCSS && v.layer != nil {
		if err := v.Render(); err != nil {
			ggmark.Logger().Warn("annotation: css render failed", "err", err)
		}
		return
	}
	if v.plot != nil {
		v.plot.RequestRender()
	}
}

// labels is the resolved state of one render pass.
type labels struct {
	rows       int
	text       []string
	angle      []float64
	xOffset    []float64
	yOffset    []float64
	sx, sy     []float64
	style      *visual.TextVector
	border     *visual.LineVector
	background *visual.FillVector
	padding    float64
}

func (v *LabelSetView) prepare() (*labels, error) {
	snap, err := v.ctrl.Prepare()
	if err != nil {
		return nil, err
	}
	m := v.model
	r := &labels{rows: snap.Rows()}

	if r.text, err = property.ArrayOf[string](snap, m.Text.Attr()); err != nil {
		return nil, err
	}
	if r.angle, err = property.ArrayOf[float64](snap, m.Angle.Attr()); err != nil {
		return nil, err
	}
	if r.xOffset, err = property.ArrayOf[float64](snap, m.XOffset.Attr()); err != nil {
		return nil, err
	}
	if r.yOffset, err = property.ArrayOf[float64](snap, m.YOffset.Attr()); err != nil {
		return nil, err
	}
	if r.style, err = m.TextProps.Bind(snap); err != nil {
		return nil, err
	}
	if r.border, err = m.Border.Bind(snap); err != nil {
		return nil, err
	}
	if r.background, err = m.Background.Bind(snap); err != nil {
		return nil, err
	}
	if r.padding, err = m.Padding.Value(); err != nil {
		return nil, err
	}

	if err := v.mapData(snap, r); err != nil {
		return nil, err
	}

	if units, _ := m.AngleUnits.Value(); units == AngleDeg {
		rad := make([]float64, len(r.angle))
		for i, a := range r.angle {
			rad[i] = a * math.Pi / 180
		}
		r.angle = rad
	}
	return r, nil
}

func (v *LabelSetView) mapData(snap *property.Snapshot, r *labels) error {
	x, err := property.ArrayOf[float64](snap, v.model.X.Attr())
	if err != nil {
		return err
	}
	y, err := property.ArrayOf[float64](snap, v.model.Y.Attr())
	if err != nil {
		return err
	}
	xu, err := v.model.XUnits.Value()
	if err != nil {
		return err
	}
	yu, err := v.model.YUnits.Value()
	if err != nil {
		return err
	}
	r.sx = v.plot.mapX(xu, x)
	r.sy = v.plot.mapY(yu, y)
	return nil
}

// Render draws every label with the current render mode.
func (v *LabelSetView) Render() error {
	r, err := v.prepare()
	if err != nil {
		return err
	}
	mode, err := v.model.RenderMode.Value()
	if err != nil {
		return err
	}
	ggmark.Logger().Debug("annotation: render label set", "rows", r.rows, "mode", mode)

	switch mode {
	case ModeCSS:
		if v.layer == nil {
			return fmt.Errorf("annotation: css render mode needs an overlay layer")
		}
		for i := 0; i < r.rows; i++ {
			sx, sy := r.sx[i]+r.xOffset[i], r.sy[i]-r.yOffset[i]
			if !finite(sx, sy) {
				v.layer.Element(i).Hide()
				continue
			}
			v.cssText(r, i, sx, sy)
		}
		v.layer.HideFrom(r.rows)
	default:
		for i := 0; i < r.rows; i++ {
			sx, sy := r.sx[i]+r.xOffset[i], r.sy[i]-r.yOffset[i]
			if !finite(sx, sy) {
				continue
			}
			if err := v.canvasText(r, i, sx, sy); err != nil {
				return fmt.Errorf("annotation: label %d: %w", i, err)
			}
		}
	}
	v.dirty = false
	return nil
}

// finite reports whether a label position is drawable. Null positions
// resolve to NaN.
func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

func (v *LabelSetView) bbox(r *labels, i int) Rect {
	t := r.style.At(i)
	return BoundingBox(v.ctx.MeasureText(r.text[i]), t.Align, t.Baseline, r.padding)
}

func (v *LabelSetView) canvasText(r *labels, i int, sx, sy float64) error {
	ctx := v.ctx
	r.style.SetVectorize(ctx, i)
	bb := v.bbox(r, i)

	ctx.Push()
	defer ctx.Pop()

	ctx.NewPath()
	ctx.Translate(sx, sy)
	ctx.Rotate(r.angle[i])
	ctx.Rect(bb.X, bb.Y, bb.W, bb.H)

	if r.background.Doit() {
		r.background.SetVectorize(ctx, i)
		if err := ctx.Fill(); err != nil {
			return err
		}
	}
	if r.border.Doit() {
		r.border.SetVectorize(ctx, i)
		if err := ctx.Stroke(); err != nil {
			return err
		}
	}
	if r.style.Doit() {
		r.style.SetVectorize(ctx, i)
		return ctx.FillText(r.text[i], 0, 0)
	}
	return nil
}

func (v *LabelSetView) cssText(r *labels, i int, sx, sy float64) {
	el := v.layer.Element(i)
	el.SetText(r.text[i])

	r.style.SetVectorize(v.ctx, i)
	bb := v.bbox(r, i)
	t := r.style.At(i)

	el.SetStyle("position", "absolute")
	el.SetStyle("box-sizing", "border-box")
	el.SetStyle("left", px(sx+bb.X))
	el.SetStyle("top", px(sy+bb.Y))
	el.SetStyle("width", px(bb.W))
	el.SetStyle("height", px(bb.H))
	el.SetStyle("color", t.Color.CSS(1))
	el.SetStyle("opacity", num(t.Alpha))
	el.SetStyle("font", t.FontValue())
	el.SetStyle("line-height", "normal")

	if angle := r.angle[i]; angle != 0 {
		el.SetStyle("transform", "rotate("+num(angle)+"rad)")
		el.SetStyle("transform-origin", px(-bb.X)+" "+px(-bb.Y))
	} else {
		el.RemoveStyle("transform")
		el.RemoveStyle("transform-origin")
	}

	if r.background.Doit() {
		f := r.background.At(i)
		el.SetStyle("background-color", f.Color.CSS(f.Alpha))
	} else {
		el.RemoveStyle("background-color")
	}

	if r.border.Doit() {
		l := r.border.At(i)
		style := "dashed"
		if len(l.Dash) < 2 {
			style = "solid"
		}
		el.SetStyle("border-style", style)
		el.SetStyle("border-width", px(l.Width))
		el.SetStyle("border-color", l.Color.CSS(l.Alpha))
	} else {
		el.RemoveStyle("border-style")
		el.RemoveStyle("border-width")
		el.RemoveStyle("border-color")
	}

	el.Show()
}

// Size returns the measured width and font height of the first label.
func (v *LabelSetView) Size() (width, height float64, err error) {
	r, err := v.prepare()
	if err != nil {
		return 0, 0, err
	}
	if r.rows == 0 {
		return 0, 0, nil
	}
	r.style.SetVectorize(v.ctx, 0)
	m := v.ctx.MeasureText(r.text[0])
	return m.Width, m.Height(), nil
}

func px(v float64) string { return num(v) + "px" }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
