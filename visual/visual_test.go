package visual

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/source"
)

func TestDecodeDash(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"solid", []int{}},
		{"dashed", []int{6}},
		{"dotted", []int{2, 4}},
		{"dotdash", []int{2, 4, 6, 4}},
		{"dashdot", []int{6, 4, 2, 4}},
		{"3 a 5", []int{3, 5}},
		{"  7\t2 ", []int{7, 2}},
		{"x y", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DecodeDash(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeDash(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeDash_NamedPatternsAreCopies(t *testing.T) {
	d := DecodeDash("dotted")
	d[0] = 99
	if DashPatterns["dotted"][0] != 2 {
		t.Error("DecodeDash returned the shared named pattern")
	}
}

func TestParseDash_Passthrough(t *testing.T) {
	in := []int{3, 1, 3}
	got, err := ParseDash(in)
	if err != nil {
		t.Fatalf("ParseDash() error = %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("ParseDash(%v) = %v", in, got)
	}
	again, _ := ParseDash(got)
	if !reflect.DeepEqual(again, in) {
		t.Errorf("ParseDash not idempotent: %v", again)
	}
	if got, _ := ParseDash([]any{6, 4.0}); !reflect.DeepEqual(got, []int{6, 4}) {
		t.Errorf("ParseDash([]any) = %v", got)
	}
	if _, err := ParseDash([]any{1.5}); err == nil {
		t.Error("ParseDash(1.5) error = nil")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      any
		want    Color
		wantErr bool
	}{
		{nil, 0, false},
		{"green", RGBA8(0, 128, 0, 255), false},
		{"Red", RGBA8(255, 0, 0, 255), false},
		{"#444444", RGBA8(0x44, 0x44, 0x44, 255), false},
		{"#abc", RGBA8(0xaa, 0xbb, 0xcc, 255), false},
		{"#11223380", RGBA8(0x11, 0x22, 0x33, 0x80), false},
		{"rgba(10, 20, 30, 0.5)", RGBA8(10, 20, 30, 128), false},
		{"rgb(10,20,30)", RGBA8(10, 20, 30, 255), false},
		{[]any{1, 2, 3}, RGBA8(1, 2, 3, 255), false},
		{"transparent", 0, false},
		{gg.Blue, RGBA8(0, 0, 255, 255), false},
		{"chartreuse-ish", 0, true},
		{"#12345", 0, true},
		{[]any{1, 2}, 0, true},
		{3.5, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColor_CSS(t *testing.T) {
	green, _ := ParseColor("green")
	if got := green.CSS(1); got != "rgba(0, 128, 0, 1)" {
		t.Errorf("CSS(1) = %q", got)
	}
	half := RGBA8(10, 20, 30, 128)
	if got := half.CSS(0.5); got != "rgba(10, 20, 30, 0.251)" {
		t.Errorf("CSS(0.5) = %q", got)
	}
}

func TestLine_Doit(t *testing.T) {
	base := Line{Color: RGBA8(0, 0, 0, 255), Alpha: 1, Width: 1}
	tests := []struct {
		name string
		edit func(*Line)
		want bool
	}{
		{"visible", func(*Line) {}, true},
		{"null color", func(l *Line) { l.Color = 0 }, false},
		{"zero alpha", func(l *Line) { l.Alpha = 0 }, false},
		{"zero width", func(l *Line) { l.Width = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			tt.edit(&l)
			if got := l.Doit(); got != tt.want {
				t.Errorf("Doit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineVector_DoitIsConservativeForVectors(t *testing.T) {
	v := &LineVector{
		Color: property.NewScalar(RGBA8(0, 0, 0, 255), 2),
		Alpha: property.NewVector([]float64{0, 0}),
		Width: property.NewScalar(1.0, 2),
	}
	if !v.Doit() {
		t.Error("Doit() = false for per-row alpha")
	}
	v.Width = property.NewScalar(0.0, 2)
	if v.Doit() {
		t.Error("Doit() = true for scalar zero width")
	}
	v.Width = property.NewScalar(1.0, 2)
	v.Color = property.NewScalar(Color(0), 2)
	if v.Doit() {
		t.Error("Doit() = true for scalar null color")
	}
}

func TestFillAndText_Doit(t *testing.T) {
	if (Fill{Color: RGBA8(1, 1, 1, 255), Alpha: 0}).Doit() {
		t.Error("Fill with zero alpha is visible")
	}
	if (Fill{}).Doit() {
		t.Error("Fill with null color is visible")
	}
	fv := &FillVector{Color: property.NewVector([]Color{0, 0}), Alpha: property.NewScalar(1.0, 2)}
	if !fv.Doit() {
		t.Error("FillVector with per-row color is not visible")
	}
	tv := &TextVector{Color: property.NewScalar(RGBA8(1, 1, 1, 255), 1), Alpha: property.NewScalar(0.0, 1)}
	if tv.Doit() {
		t.Error("TextVector with scalar zero alpha is visible")
	}
}

func TestLineProps_Defaults(t *testing.T) {
	p := NewLineProps("border_")
	if got := p.Color.Attr(); got != "border_line_color" {
		t.Errorf("Color.Attr() = %q", got)
	}
	if got := Attrs(p); len(got) != 7 || got[6] != "border_line_dash_offset" {
		t.Errorf("Attrs() = %v", got)
	}
	l, err := p.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	want := Line{Color: RGBA8(0, 0, 0, 255), Alpha: 1, Width: 1, Join: gg.LineJoinBevel, Cap: gg.LineCapButt, Dash: []int{}}
	if !reflect.DeepEqual(l, want) {
		t.Errorf("Value() = %+v, want %+v", l, want)
	}

	if err := p.Join.Set(property.Value("sharp")); err == nil {
		t.Error("Join.Set(sharp) error = nil")
	}
	if err := p.Dash.Set(property.Value("dotdash")); err != nil {
		t.Fatalf("Dash.Set(dotdash) error = %v", err)
	}
	if d, _ := p.Dash.Value(); !reflect.DeepEqual(d, []int{2, 4, 6, 4}) {
		t.Errorf("Dash.Value() = %v", d)
	}
}

func TestTextProps_Value(t *testing.T) {
	p := NewTextProps("")
	tx, err := p.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if got := tx.FontValue(); got != "normal 16px helvetica" {
		t.Errorf("FontValue() = %q", got)
	}
	if got := tx.ColorValue(); got != "rgba(68, 68, 68, 1)" {
		t.Errorf("ColorValue() = %q", got)
	}
	if tx.Baseline != canvas.BaselineBottom || tx.LineHeight != 1.2 {
		t.Errorf("Value() = %+v", tx)
	}
	if err := p.FontStyle.Set(property.Value("oblique")); err == nil {
		t.Error("FontStyle.Set(oblique) error = nil")
	}
}

func resolveUniforms(t *testing.T, props Props, src source.DataSource) *property.Snapshot {
	t.Helper()
	s := property.NewSnapshot(src.Len())
	for _, spec := range props.Properties() {
		u, err := spec.ResolveUniform(src)
		if err != nil {
			t.Fatalf("ResolveUniform(%s) error = %v", spec.Attr(), err)
		}
		s.SetUniform(spec.Attr(), u)
	}
	return s
}

// A field-bound stroke color applied at row 1 sets the second color and
// the constant members.
func TestLineVector_SetVectorizeFieldBound(t *testing.T) {
	src, err := source.NewColumnDataSource(map[string]source.Column{
		"color": source.Series[string]{"red", "green", "blue"},
	})
	if err != nil {
		t.Fatalf("NewColumnDataSource() error = %v", err)
	}
	p := NewLineProps("")
	if err := p.Color.Set(property.Field("color")); err != nil {
		t.Fatal(err)
	}
	if err := p.Width.Set(property.Value(2)); err != nil {
		t.Fatal(err)
	}

	v, err := p.Bind(resolveUniforms(t, p, src))
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if !v.Doit() {
		t.Fatal("Doit() = false")
	}
	if _, ok := v.Scalar(); ok {
		t.Error("Scalar() ok = true with a field-bound color")
	}

	rec := canvas.NewRecorder()
	v.SetVectorize(rec, 1)

	green, _ := ParseColor("green")
	want := []string{
		"SetStrokeColor(" + fmtRGBA(green.RGBA(1)) + ")",
		"SetLineWidth(2)",
		"SetLineJoin(" + fmtAny(gg.LineJoinBevel) + ")",
		"SetLineCap(" + fmtAny(gg.LineCapButt) + ")",
		"SetDash([])",
		"SetDashOffset(0)",
	}
	if len(rec.Commands) != len(want) {
		t.Fatalf("recorded %d commands, want %d: %v", len(rec.Commands), len(want), rec.Commands)
	}
	for i, c := range rec.Commands {
		if got := c.String(); got != want[i] {
			t.Errorf("command %d = %s, want %s", i, got, want[i])
		}
	}
	if got := v.At(1).Color.CSS(v.At(1).Alpha); got != "rgba(0, 128, 0, 1)" {
		t.Errorf("row 1 color = %s", got)
	}
}

func TestLineVector_ZeroAlphaIsInvisible(t *testing.T) {
	src, _ := source.NewColumnDataSource(map[string]source.Column{
		"color": source.Series[string]{"red", "green", "blue"},
	})
	p := NewLineProps("")
	_ = p.Color.Set(property.Field("color"))
	_ = p.Alpha.Set(property.Value(0))

	v, err := p.Bind(resolveUniforms(t, p, src))
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if v.Doit() {
		t.Error("Doit() = true with alpha 0")
	}
}

func TestRegistry(t *testing.T) {
	if got := Types(); !reflect.DeepEqual(got, []string{"fill", "line", "text"}) {
		t.Errorf("Types() = %v", got)
	}
	d, ok := Lookup("fill")
	if !ok || d.Attr("background_", "color") != "background_fill_color" {
		t.Errorf("Lookup(fill) = %+v, %v", d, ok)
	}
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register(Descriptor{Type: "line"})
}

func fmtRGBA(c gg.RGBA) string { return fmt.Sprint(c) }

func fmtAny(v any) string { return fmt.Sprint(v) }
