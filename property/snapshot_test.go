package property

import (
	"errors"
	"testing"
)

func TestSnapshot_TypedAccess(t *testing.T) {
	s := NewSnapshot(2)
	s.SetUniform("line_width", NewScalar(2.0, 2))
	s.SetArray("text", Array[string]{"a", "b"})

	u, err := UniformOf[float64](s, "line_width")
	if err != nil {
		t.Fatalf("UniformOf() error = %v", err)
	}
	if u.Get(1) != 2 {
		t.Errorf("Get(1) = %v, want 2", u.Get(1))
	}

	text, err := ArrayOf[string](s, "text")
	if err != nil {
		t.Fatalf("ArrayOf() error = %v", err)
	}
	if len(text) != 2 || text[1] != "b" {
		t.Errorf("ArrayOf() = %v", text)
	}

	if _, err := UniformOf[string](s, "line_width"); !errors.Is(err, ErrNotResolved) {
		t.Errorf("UniformOf[string] error = %v, want ErrNotResolved", err)
	}
	if _, err := ArrayOf[float64](s, "x"); !errors.Is(err, ErrNotResolved) {
		t.Errorf("ArrayOf(x) error = %v, want ErrNotResolved", err)
	}
}

func TestUniform_Vector(t *testing.T) {
	u := NewVector([]int{3, 1, 3})
	if u.IsScalar() {
		t.Error("IsScalar() = true for vector")
	}
	if _, ok := u.Scalar(); ok {
		t.Error("Scalar() ok = true for vector")
	}
	if u.Get(1) != 1 {
		t.Errorf("Get(1) = %d, want 1", u.Get(1))
	}

	s := NewScalar("x", 3)
	if v, ok := s.Scalar(); !ok || v != "x" {
		t.Errorf("Scalar() = %q, %v", v, ok)
	}
	if got := s.Array(); len(got) != 3 || got[2] != "x" {
		t.Errorf("Array() = %v", got)
	}
}
