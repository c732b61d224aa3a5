package visual

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/property"
)

// LineJoins maps configuration names to join styles.
var LineJoins = map[string]gg.LineJoin{
	"miter": gg.LineJoinMiter,
	"round": gg.LineJoinRound,
	"bevel": gg.LineJoinBevel,
}

// LineCaps maps configuration names to cap styles.
var LineCaps = map[string]gg.LineCap{
	"butt":   gg.LineCapButt,
	"round":  gg.LineCapRound,
	"square": gg.LineCapSquare,
}

// JoinName returns the configuration name of j, or "" when it has none.
func JoinName(j gg.LineJoin) string { return nameOf(LineJoins, j) }

// CapName returns the configuration name of c, or "" when it has none.
func CapName(c gg.LineCap) string { return nameOf(LineCaps, c) }

func nameOf[V comparable](names map[string]V, v V) string {
	for name, x := range names {
		if x == v {
			return name
		}
	}
	return ""
}

// LineProps declares a stroke aspect.
type LineProps struct {
	prefix     string
	Color      *property.Property[Color]
	Alpha      *property.Property[float64]
	Width      *property.Property[float64]
	Join       *property.Property[gg.LineJoin]
	Cap        *property.Property[gg.LineCap]
	Dash       *property.Property[[]int]
	DashOffset *property.Property[float64]
}

// NewLineProps returns stroke declarations with the default black, 1px,
// bevel-joined, butt-capped solid line.
func NewLineProps(prefix string) *LineProps {
	a := namer(prefix, "line")
	return &LineProps{
		prefix:     prefix,
		Color:      property.New(a("color"), property.Value("black"), ParseColor),
		Alpha:      property.New(a("alpha"), property.Value(1.0), property.Alpha),
		Width:      property.New(a("width"), property.Value(1.0), property.NonNegative),
		Join:       property.New(a("join"), property.Value("bevel"), property.Enum(LineJoins)),
		Cap:        property.New(a("cap"), property.Value("butt"), property.Enum(LineCaps)),
		Dash:       property.New(a("dash"), property.Value([]int{}), ParseDash),
		DashOffset: property.New(a("dash_offset"), property.Value(0), property.Number),
	}
}

func (p *LineProps) Type() string   { return "line" }
func (p *LineProps) Prefix() string { return p.prefix }

func (p *LineProps) Properties() []property.Spec {
	return []property.Spec{p.Color, p.Alpha, p.Width, p.Join, p.Cap, p.Dash, p.DashOffset}
}

// Value returns the single-value group of constant declarations.
func (p *LineProps) Value() (Line, error) {
	var (
		l   Line
		err error
	)
	if l.Color, err = p.Color.Value(); err != nil {
		return Line{}, err
	}
	if l.Alpha, err = p.Alpha.Value(); err != nil {
		return Line{}, err
	}
	if l.Width, err = p.Width.Value(); err != nil {
		return Line{}, err
	}
	if l.Join, err = p.Join.Value(); err != nil {
		return Line{}, err
	}
	if l.Cap, err = p.Cap.Value(); err != nil {
		return Line{}, err
	}
	if l.Dash, err = p.Dash.Value(); err != nil {
		return Line{}, err
	}
	if l.DashOffset, err = p.DashOffset.Value(); err != nil {
		return Line{}, err
	}
	return l, nil
}

// Bind builds the vector group from the uniforms resolved into s.
func (p *LineProps) Bind(s *property.Snapshot) (*LineVector, error) {
	var (
		v   LineVector
		err error
	)
	if v.Color, err = property.UniformOf[Color](s, p.Color.Attr()); err != nil {
		return nil, err
	}
	if v.Alpha, err = property.UniformOf[float64](s, p.Alpha.Attr()); err != nil {
		return nil, err
	}
	if v.Width, err = property.UniformOf[float64](s, p.Width.Attr()); err != nil {
		return nil, err
	}
	if v.Join, err = property.UniformOf[gg.LineJoin](s, p.Join.Attr()); err != nil {
		return nil, err
	}
	if v.Cap, err = property.UniformOf[gg.LineCap](s, p.Cap.Attr()); err != nil {
		return nil, err
	}
	if v.Dash, err = property.UniformOf[[]int](s, p.Dash.Attr()); err != nil {
		return nil, err
	}
	if v.DashOffset, err = property.UniformOf[float64](s, p.DashOffset.Attr()); err != nil {
		return nil, err
	}
	return &v, nil
}

// Line is a stroke aspect with one value per member.
type Line struct {
	Color      Color
	Alpha      float64
	Width      float64
	Join       gg.LineJoin
	Cap        gg.LineCap
	Dash       []int
	DashOffset float64
}

// Doit reports whether the stroke can be visible.
func (l Line) Doit() bool {
	return !l.Color.IsNull() && l.Alpha != 0 && l.Width != 0
}

// SetValue applies the stroke to ctx.
func (l Line) SetValue(ctx canvas.Context) {
	ctx.SetStrokeColor(l.Color.RGBA(l.Alpha))
	ctx.SetLineWidth(l.Width)
	ctx.SetLineJoin(l.Join)
	ctx.SetLineCap(l.Cap)
	ctx.SetDash(dashFloats(l.Dash)...)
	ctx.SetDashOffset(l.DashOffset)
}

// LineVector is a stroke aspect with one uniform per member.
type LineVector struct {
	Color      property.Uniform[Color]
	Alpha      property.Uniform[float64]
	Width      property.Uniform[float64]
	Join       property.Uniform[gg.LineJoin]
	Cap        property.Uniform[gg.LineCap]
	Dash       property.Uniform[[]int]
	DashOffset property.Uniform[float64]
}

// Doit reports false only if color, alpha or width is scalar and makes
// every row invisible.
func (v *LineVector) Doit() bool {
	if c, ok := v.Color.Scalar(); ok && c.IsNull() {
		return false
	}
	if a, ok := v.Alpha.Scalar(); ok && a == 0 {
		return false
	}
	if w, ok := v.Width.Scalar(); ok && w == 0 {
		return false
	}
	return true
}

// At returns the values of row i.
func (v *LineVector) At(i int) Line {
	return Line{
		Color:      v.Color.Get(i),
		Alpha:      v.Alpha.Get(i),
		Width:      v.Width.Get(i),
		Join:       v.Join.Get(i),
		Cap:        v.Cap.Get(i),
		Dash:       v.Dash.Get(i),
		DashOffset: v.DashOffset.Get(i),
	}
}

// SetVectorize applies the stroke of row i to ctx.
func (v *LineVector) SetVectorize(ctx canvas.Context, i int) {
	v.At(i).SetValue(ctx)
}

// Scalar returns the single-value group when every member is scalar.
func (v *LineVector) Scalar() (Line, bool) {
	if !v.Color.IsScalar() || !v.Alpha.IsScalar() || !v.Width.IsScalar() ||
		!v.Join.IsScalar() || !v.Cap.IsScalar() || !v.Dash.IsScalar() || !v.DashOffset.IsScalar() {
		return Line{}, false
	}
	return v.At(0), true
}
