package visual

import (
	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/property"
)

// FillProps declares a fill aspect.
type FillProps struct {
	prefix string
	Color  *property.Property[Color]
	Alpha  *property.Property[float64]
}

// NewFillProps returns fill declarations defaulting to opaque gray.
func NewFillProps(prefix string) *FillProps {
	a := namer(prefix, "fill")
	return &FillProps{
		prefix: prefix,
		Color:  property.New(a("color"), property.Value("gray"), ParseColor),
		Alpha:  property.New(a("alpha"), property.Value(1.0), property.Alpha),
	}
}

func (p *FillProps) Type() string   { return "fill" }
func (p *FillProps) Prefix() string { return p.prefix }

func (p *FillProps) Properties() []property.Spec {
	return []property.Spec{p.Color, p.Alpha}
}

// Value returns the single-value group of constant declarations.
func (p *FillProps) Value() (Fill, error) {
	c, err := p.Color.Value()
	if err != nil {
		return Fill{}, err
	}
	a, err := p.Alpha.Value()
	if err != nil {
		return Fill{}, err
	}
	return Fill{Color: c, Alpha: a}, nil
}

// Bind builds the vector group from the uniforms resolved into s.
func (p *FillProps) Bind(s *property.Snapshot) (*FillVector, error) {
	c, err := property.UniformOf[Color](s, p.Color.Attr())
	if err != nil {
		return nil, err
	}
	a, err := property.UniformOf[float64](s, p.Alpha.Attr())
	if err != nil {
		return nil, err
	}
	return &FillVector{Color: c, Alpha: a}, nil
}

// Fill is a fill aspect with one value per member.
type Fill struct {
	Color Color
	Alpha float64
}

// Doit reports whether the fill can be visible.
func (f Fill) Doit() bool { return !f.Color.IsNull() && f.Alpha != 0 }

// SetValue applies the fill to ctx.
func (f Fill) SetValue(ctx canvas.Context) {
	ctx.SetFillColor(f.Color.RGBA(f.Alpha))
}

// FillVector is a fill aspect with one uniform per member.
type FillVector struct {
	Color property.Uniform[Color]
	Alpha property.Uniform[float64]
}

// Doit reports false only if color or alpha is scalar and makes every
// row invisible.
func (v *FillVector) Doit() bool {
	if c, ok := v.Color.Scalar(); ok && c.IsNull() {
		return false
	}
	if a, ok := v.Alpha.Scalar(); ok && a == 0 {
		return false
	}
	return true
}

// At returns the values of row i.
func (v *FillVector) At(i int) Fill {
	return Fill{Color: v.Color.Get(i), Alpha: v.Alpha.Get(i)}
}

// SetVectorize applies the fill of row i to ctx.
func (v *FillVector) SetVectorize(ctx canvas.Context, i int) {
	v.At(i).SetValue(ctx)
}

// Scalar returns the single-value group when every member is scalar.
func (v *FillVector) Scalar() (Fill, bool) {
	if !v.Color.IsScalar() || !v.Alpha.IsScalar() {
		return Fill{}, false
	}
	return v.At(0), true
}
