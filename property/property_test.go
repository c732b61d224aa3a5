package property

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/ggmark/source"
)

func newSource(t *testing.T, rows int) source.DataSource {
	t.Helper()
	x := make(source.Series[float64], rows)
	names := make(source.Series[string], rows)
	for i := range x {
		x[i] = float64(i)
		names[i] = "n"
	}
	src, err := source.NewColumnDataSource(map[string]source.Column{
		"x":     x,
		"names": names,
		"ints":  make(source.Series[int64], rows),
	})
	if err != nil {
		t.Fatalf("NewColumnDataSource() error = %v", err)
	}
	return src
}

func TestProperty_ConstantUniform(t *testing.T) {
	src := newSource(t, 100)
	p := New("line_width", Value(2), Number, Viewable())

	u, err := p.Uniform(src)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	if !u.IsScalar() {
		t.Fatal("Uniform() of a constant is not scalar")
	}
	if u.Len() != 100 {
		t.Errorf("Len() = %d, want 100", u.Len())
	}
	for i := 0; i < u.Len(); i++ {
		if got := u.Get(i); got != 2 {
			t.Fatalf("Get(%d) = %v, want 2", i, got)
		}
	}
}

func TestProperty_ConstantUniformDoesNotAllocatePerRow(t *testing.T) {
	p := New("line_width", Value(2.0), Number)
	small := newSource(t, 10)
	large := newSource(t, 10000)

	allocsSmall := testing.AllocsPerRun(100, func() { _, _ = p.ResolveUniform(small) })
	allocsLarge := testing.AllocsPerRun(100, func() { _, _ = p.ResolveUniform(large) })
	if allocsLarge != allocsSmall {
		t.Errorf("allocations grow with rows: %v for 10 rows, %v for 10000 rows", allocsSmall, allocsLarge)
	}
}

func TestProperty_FieldUniform(t *testing.T) {
	src := newSource(t, 5)
	p := New("x", Field("x"), Number, Viewable())

	u, err := p.Uniform(src)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	if u.IsScalar() {
		t.Fatal("Uniform() of a field is scalar")
	}
	if u.Len() != src.Len() {
		t.Errorf("Len() = %d, want %d", u.Len(), src.Len())
	}
	if got := u.Get(3); got != 3 {
		t.Errorf("Get(3) = %v, want 3", got)
	}

	col, _ := src.Column("x")
	arr := u.Array()
	if &arr[0] != &col.(source.Series[float64])[0] {
		t.Error("viewable float64 column was copied")
	}
}

func TestProperty_FieldCoercesIntegers(t *testing.T) {
	src := newSource(t, 3)
	p := New("y", Field("ints"), Number, Viewable())

	got, err := p.Array(src)
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if !reflect.DeepEqual(got, []float64{0, 0, 0}) {
		t.Errorf("Array() = %v, want [0 0 0]", got)
	}
}

func TestProperty_FieldInvalidValue(t *testing.T) {
	src := newSource(t, 3)
	p := New("y", Field("names"), Number)
	if _, err := p.Array(src); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Array() error = %v, want ErrInvalidValue", err)
	}
}

func TestProperty_MissingColumn(t *testing.T) {
	src := newSource(t, 3)
	p := New("text_color", Field("color"), String)

	_, err := p.Uniform(src)
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("Uniform() error = %v, want *MissingColumnError", err)
	}
	if mce.Column != "color" || mce.Attr != "text_color" {
		t.Errorf("MissingColumnError = %+v", mce)
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Error("errors.Is(err, ErrMissingColumn) = false")
	}
}

func TestProperty_ArrayOfConstant(t *testing.T) {
	src := newSource(t, 4)
	p := New("text", Value("hi"), String)

	got, err := p.Array(src)
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"hi", "hi", "hi", "hi"}) {
		t.Errorf("Array() = %v", got)
	}
}

func TestProperty_Expr(t *testing.T) {
	src := newSource(t, 3)
	p := New("x_offset", MustExpr("x * 10"), Number)

	got, err := p.Array(src)
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if !reflect.DeepEqual(got, []float64{0, 10, 20}) {
		t.Errorf("Array() = %v, want [0 10 20]", got)
	}
}

func TestProperty_SetRejectsBadConstant(t *testing.T) {
	p := New("line_alpha", Value(1.0), Alpha)

	err := p.Set(Value(3.0))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Set(3.0) error = %v, want ErrConfiguration", err)
	}
	v, _ := p.Value()
	if v != 1 {
		t.Errorf("Value() after rejected Set = %v, want 1", v)
	}
}

func TestProperty_PlainRejectsField(t *testing.T) {
	p := New("x_units", Value("data"), String, Plain())
	if err := p.Set(Field("units")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Set(field) error = %v, want ErrConfiguration", err)
	}
	if p.IsDataSpec() {
		t.Error("IsDataSpec() = true for plain property")
	}
}

func TestProperty_ValueOfField(t *testing.T) {
	p := New("x", Field("x"), Number)
	if _, err := p.Value(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Value() error = %v, want ErrConfiguration", err)
	}
}

func TestNewPanicsOnBadDefault(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() with invalid default did not panic")
		}
	}()
	New("line_alpha", Value("opaque"), Alpha)
}

func TestEnum(t *testing.T) {
	type join int
	coerce := Enum(map[string]join{"miter": 0, "round": 1, "bevel": 2})

	if got, err := coerce("round"); err != nil || got != 1 {
		t.Errorf("coerce(round) = %v, %v, want 1", got, err)
	}
	if got, err := coerce(join(2)); err != nil || got != 2 {
		t.Errorf("coerce(join(2)) = %v, %v, want 2", got, err)
	}
	if _, err := coerce("sharp"); err == nil {
		t.Error("coerce(sharp) error = nil, want error")
	}
}

func TestString_Normalizes(t *testing.T) {
	got, err := String("e\u0301")
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if got != "\u00e9" {
		t.Errorf("String(decomposed) = %q, want %q", got, "\u00e9")
	}
	if got, _ := String(2.5); got != "2.5" {
		t.Errorf("String(2.5) = %q, want 2.5", got)
	}
}
