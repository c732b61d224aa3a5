// Package property turns attribute declarations into resolved values.
//
// A Declaration is constant, field-bound or computed. A Property pairs a
// declaration with the attribute's name and value type. Resolving a
// property against a data source yields either a Uniform (consumed by
// visual groups) or an Array (consumed directly by render code).
package property

import (
	"fmt"

	"github.com/gogpu/ggmark/source"
)

// Coercer converts a raw declaration constant or column cell to the
// attribute's value type.
type Coercer[T any] func(v any) (T, error)

// Spec is the type-erased view of a Property used by controllers that
// iterate every attribute of a mark.
type Spec interface {
	// Attr returns the attribute name, including any group prefix.
	Attr() string

	// Declaration returns the current declaration.
	Declaration() Declaration

	// Set replaces the declaration. Invalid declarations are rejected with
	// a ConfigurationError and leave the property unchanged.
	Set(d Declaration) error

	// IsDataSpec reports whether the attribute may vary per row. Plain
	// attributes (units, modes) only accept constants and are never resolved
	// against a source.
	IsDataSpec() bool

	// CanSkip reports whether resolution may be skipped for this attribute.
	CanSkip() bool

	// ResolveUniform resolves to a Uniform[T].
	ResolveUniform(src source.DataSource) (Resolution, error)

	// ResolveArray resolves to an Array[T].
	ResolveArray(src source.DataSource) (Resolution, error)
}

// Property is one typed attribute of a mark.
type Property[T any] struct {
	attr     string
	decl     Declaration
	coerce   Coercer[T]
	constant T
	dataSpec bool
	viewable bool
	canSkip  bool
}

// Option configures a Property.
type Option func(*options)

type options struct {
	plain    bool
	viewable bool
}

// Plain marks the property as a plain (non data-spec) attribute that only
// accepts constants.
func Plain() Option {
	return func(o *options) { o.plain = true }
}

// Viewable declares that the coercer is a pure type assertion, so a column
// already stored as source.Series[T] may be used without copying.
func Viewable() Option {
	return func(o *options) { o.viewable = true }
}

// New creates a property with a default declaration.
// It panics if the default does not satisfy the coercer: defaults are
// program constants.
func New[T any](attr string, def Declaration, coerce Coercer[T], opts ...Option) *Property[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	p := &Property[T]{
		attr:     attr,
		coerce:   coerce,
		dataSpec: !o.plain,
		viewable: o.viewable,
	}
	if err := p.Set(def); err != nil {
		panic(fmt.Sprintf("property: default for %q: %v", attr, err))
	}
	return p
}

// Attr returns the attribute name.
func (p *Property[T]) Attr() string { return p.attr }

// Declaration returns the current declaration.
func (p *Property[T]) Declaration() Declaration { return p.decl }

// IsDataSpec reports whether the attribute may vary per row.
func (p *Property[T]) IsDataSpec() bool { return p.dataSpec }

// CanSkip reports whether resolution may be skipped.
func (p *Property[T]) CanSkip() bool { return p.canSkip }

// SetCanSkip flags the attribute as irrelevant to the current visual
// configuration, so controllers do not resolve it.
func (p *Property[T]) SetCanSkip(skip bool) { p.canSkip = skip }

// Set replaces the declaration. Constants are coerced here, so a bad
// constant is reported at definition time rather than at render time.
func (p *Property[T]) Set(d Declaration) error {
	switch d.kind {
	case KindValue:
		v, err := p.coerce(d.value)
		if err != nil {
			return &ConfigurationError{Attr: p.attr, Reason: err.Error()}
		}
		p.constant = v
	case KindField, KindExpr:
		if !p.dataSpec {
			return &ConfigurationError{Attr: p.attr, Reason: fmt.Sprintf("only constant values are accepted, got %s", d)}
		}
		if d.kind == KindField && d.field == "" {
			return &ConfigurationError{Attr: p.attr, Reason: "empty field name"}
		}
		if d.kind == KindExpr && d.program == nil {
			return &ConfigurationError{Attr: p.attr, Reason: "empty expression"}
		}
	default:
		return &ConfigurationError{Attr: p.attr, Reason: fmt.Sprintf("unknown declaration kind %d", d.kind)}
	}
	p.decl = d
	return nil
}

// Value returns the constant value. It fails for field-bound and computed
// declarations, which have no single value.
func (p *Property[T]) Value() (T, error) {
	if p.decl.kind != KindValue {
		var zero T
		return zero, &ConfigurationError{Attr: p.attr, Reason: fmt.Sprintf("%s has no single value", p.decl)}
	}
	return p.constant, nil
}

// Uniform resolves the property for the current state of src.
// A constant yields a scalar uniform without touching src's columns.
func (p *Property[T]) Uniform(src source.DataSource) (Uniform[T], error) {
	if p.decl.kind == KindValue {
		return NewScalar(p.constant, rowCount(src)), nil
	}
	v, err := p.vector(src)
	if err != nil {
		return Uniform[T]{}, err
	}
	return NewVector(v), nil
}

// Array resolves the property to one value per row.
func (p *Property[T]) Array(src source.DataSource) ([]T, error) {
	if p.decl.kind == KindValue {
		out := make([]T, rowCount(src))
		for i := range out {
			out[i] = p.constant
		}
		return out, nil
	}
	return p.vector(src)
}

// ResolveUniform implements Spec.
func (p *Property[T]) ResolveUniform(src source.DataSource) (Resolution, error) {
	u, err := p.Uniform(src)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ResolveArray implements Spec.
func (p *Property[T]) ResolveArray(src source.DataSource) (Resolution, error) {
	a, err := p.Array(src)
	if err != nil {
		return nil, err
	}
	return Array[T](a), nil
}

func (p *Property[T]) vector(src source.DataSource) ([]T, error) {
	if src == nil {
		return nil, &MissingColumnError{Attr: p.attr, Column: p.decl.String()}
	}
	switch p.decl.kind {
	case KindField:
		col, ok := src.Column(p.decl.field)
		if !ok {
			return nil, &MissingColumnError{Attr: p.attr, Column: p.decl.field}
		}
		if p.viewable {
			if s, ok := col.(source.Series[T]); ok {
				return s, nil
			}
		}
		out := make([]T, col.Len())
		for i := range out {
			v, err := p.coerce(col.At(i))
			if err != nil {
				return nil, fmt.Errorf("%w: %q row %d: %v", ErrInvalidValue, p.attr, i, err)
			}
			out[i] = v
		}
		return out, nil

	case KindExpr:
		raw, err := p.decl.program.Eval(src)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.attr, err)
		}
		out := make([]T, len(raw))
		for i, r := range raw {
			v, err := p.coerce(r)
			if err != nil {
				return nil, fmt.Errorf("%w: %q row %d: %v", ErrInvalidValue, p.attr, i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	panic("property: vector called on a constant declaration")
}

func rowCount(src source.DataSource) int {
	if src == nil {
		return 0
	}
	return src.Len()
}
