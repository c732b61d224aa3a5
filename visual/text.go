package visual

import (
	"fmt"

	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/property"
)

// FontStyles are the accepted text_font_style values.
var FontStyles = []string{"normal", "italic", "bold", "bold italic"}

// FontSize coerces a CSS size string ("16px", "12pt") or a number of
// pixels.
func FontSize(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return canvas.ParseSize(s)
	}
	n, err := property.NonNegative(v)
	if err != nil {
		return 0, fmt.Errorf("expected a font size, got %v", v)
	}
	return n, nil
}

// TextProps declares a text aspect.
type TextProps struct {
	prefix     string
	Font       *property.Property[string]
	FontSize   *property.Property[float64]
	FontStyle  *property.Property[string]
	Color      *property.Property[Color]
	Alpha      *property.Property[float64]
	Align      *property.Property[canvas.Align]
	Baseline   *property.Property[canvas.Baseline]
	LineHeight *property.Property[float64]
}

// NewTextProps returns text declarations defaulting to 16px helvetica in
// #444444, left aligned on the bottom baseline.
func NewTextProps(prefix string) *TextProps {
	a := namer(prefix, "text")
	return &TextProps{
		prefix:     prefix,
		Font:       property.New(a("font"), property.Value("helvetica"), property.String, property.Viewable()),
		FontSize:   property.New(a("font_size"), property.Value("16px"), FontSize),
		FontStyle:  property.New(a("font_style"), property.Value("normal"), property.OneOf(FontStyles...)),
		Color:      property.New(a("color"), property.Value("#444444"), ParseColor),
		Alpha:      property.New(a("alpha"), property.Value(1.0), property.Alpha),
		Align:      property.New(a("align"), property.Value("left"), property.Enum(canvas.Aligns)),
		Baseline:   property.New(a("baseline"), property.Value("bottom"), property.Enum(canvas.Baselines)),
		LineHeight: property.New(a("line_height"), property.Value(1.2), property.NonNegative),
	}
}

func (p *TextProps) Type() string   { return "text" }
func (p *TextProps) Prefix() string { return p.prefix }

func (p *TextProps) Properties() []property.Spec {
	return []property.Spec{p.Color, p.Alpha, p.Font, p.FontSize, p.FontStyle, p.Align, p.Baseline, p.LineHeight}
}

// Value returns the single-value group of constant declarations.
func (p *TextProps) Value() (Text, error) {
	var (
		t   Text
		err error
	)
	if t.Font.Family, err = p.Font.Value(); err != nil {
		return Text{}, err
	}
	if t.Font.Size, err = p.FontSize.Value(); err != nil {
		return Text{}, err
	}
	if t.Font.Style, err = p.FontStyle.Value(); err != nil {
		return Text{}, err
	}
	if t.Color, err = p.Color.Value(); err != nil {
		return Text{}, err
	}
	if t.Alpha, err = p.Alpha.Value(); err != nil {
		return Text{}, err
	}
	if t.Align, err = p.Align.Value(); err != nil {
		return Text{}, err
	}
	if t.Baseline, err = p.Baseline.Value(); err != nil {
		return Text{}, err
	}
	if t.LineHeight, err = p.LineHeight.Value(); err != nil {
		return Text{}, err
	}
	return t, nil
}

// Bind builds the vector group from the uniforms resolved into s.
func (p *TextProps) Bind(s *property.Snapshot) (*TextVector, error) {
	var (
		v   TextVector
		err error
	)
	if v.Font, err = property.UniformOf[string](s, p.Font.Attr()); err != nil {
		return nil, err
	}
	if v.FontSize, err = property.UniformOf[float64](s, p.FontSize.Attr()); err != nil {
		return nil, err
	}
	if v.FontStyle, err = property.UniformOf[string](s, p.FontStyle.Attr()); err != nil {
		return nil, err
	}
	if v.Color, err = property.UniformOf[Color](s, p.Color.Attr()); err != nil {
		return nil, err
	}
	if v.Alpha, err = property.UniformOf[float64](s, p.Alpha.Attr()); err != nil {
		return nil, err
	}
	if v.Align, err = property.UniformOf[canvas.Align](s, p.Align.Attr()); err != nil {
		return nil, err
	}
	if v.Baseline, err = property.UniformOf[canvas.Baseline](s, p.Baseline.Attr()); err != nil {
		return nil, err
	}
	if v.LineHeight, err = property.UniformOf[float64](s, p.LineHeight.Attr()); err != nil {
		return nil, err
	}
	return &v, nil
}

// Text is a text aspect with one value per member.
type Text struct {
	Font       canvas.Font
	Color      Color
	Alpha      float64
	Align      canvas.Align
	Baseline   canvas.Baseline
	LineHeight float64
}

// Doit reports whether the text can be visible.
func (t Text) Doit() bool { return !t.Color.IsNull() && t.Alpha != 0 }

// SetValue applies the text style to ctx.
func (t Text) SetValue(ctx canvas.Context) {
	ctx.SetFillColor(t.Color.RGBA(t.Alpha))
	ctx.SetFont(t.Font)
	ctx.SetTextAlign(t.Align)
	ctx.SetTextBaseline(t.Baseline)
}

// FontValue returns the CSS font shorthand.
func (t Text) FontValue() string { return t.Font.CSS() }

// ColorValue returns the CSS color with alpha applied.
func (t Text) ColorValue() string { return t.Color.CSS(t.Alpha) }

// TextVector is a text aspect with one uniform per member.
type TextVector struct {
	Font       property.Uniform[string]
	FontSize   property.Uniform[float64]
	FontStyle  property.Uniform[string]
	Color      property.Uniform[Color]
	Alpha      property.Uniform[float64]
	Align      property.Uniform[canvas.Align]
	Baseline   property.Uniform[canvas.Baseline]
	LineHeight property.Uniform[float64]
}

// Doit reports false only if color or alpha is scalar and makes every
// row invisible.
func (v *TextVector) Doit() bool {
	if c, ok := v.Color.Scalar(); ok && c.IsNull() {
		return false
	}
	if a, ok := v.Alpha.Scalar(); ok && a == 0 {
		return false
	}
	return true
}

// At returns the values of row i.
func (v *TextVector) At(i int) Text {
	return Text{
		Font: canvas.Font{
			Family: v.Font.Get(i),
			Style:  v.FontStyle.Get(i),
			Size:   v.FontSize.Get(i),
		},
		Color:      v.Color.Get(i),
		Alpha:      v.Alpha.Get(i),
		Align:      v.Align.Get(i),
		Baseline:   v.Baseline.Get(i),
		LineHeight: v.LineHeight.Get(i),
	}
}

// SetVectorize applies the text style of row i to ctx.
func (v *TextVector) SetVectorize(ctx canvas.Context, i int) {
	v.At(i).SetValue(ctx)
}

// FontValue returns the CSS font shorthand of row i.
func (v *TextVector) FontValue(i int) string { return v.At(i).FontValue() }

// ColorValue returns the CSS color of row i.
func (v *TextVector) ColorValue(i int) string { return v.At(i).ColorValue() }

// Scalar returns the single-value group when every member is scalar.
func (v *TextVector) Scalar() (Text, bool) {
	if !v.Font.IsScalar() || !v.FontSize.IsScalar() || !v.FontStyle.IsScalar() ||
		!v.Color.IsScalar() || !v.Alpha.IsScalar() || !v.Align.IsScalar() ||
		!v.Baseline.IsScalar() || !v.LineHeight.IsScalar() {
		return Text{}, false
	}
	return v.At(0), true
}
