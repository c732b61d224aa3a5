// Package visual implements visual property groups: bundles of
// attributes that jointly define one styling aspect of a mark (stroke,
// fill, text) and know how to apply themselves to a canvas.Context.
//
// Each aspect comes in three forms:
//
//   - a declaration bundle (LineProps, FillProps, TextProps) holding the
//     typed properties of the aspect under an attribute prefix;
//   - a single-value group (Line, Fill, Text) with one value per member,
//     built from constant declarations or from all-scalar uniforms;
//   - a vector group (LineVector, FillVector, TextVector) holding one
//     property.Uniform per member and applying the values of row i.
//
// Every group has a visibility guard, Doit, that reports false only when
// the group is provably invisible for every row.
package visual

import (
	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/property"
)

// Group is a vector group applied row by row.
type Group interface {
	Doit() bool
	SetVectorize(ctx canvas.Context, i int)
}

// Props is a declaration bundle.
type Props interface {
	// Type is the registered descriptor type of the bundle.
	Type() string
	// Prefix is the attribute prefix, e.g. "border_".
	Prefix() string
	// Properties returns the member properties in descriptor order.
	Properties() []property.Spec
}

// Attrs returns the full attribute names of a bundle.
func Attrs(p Props) []string {
	return mustLookup(p.Type()).AttrNames(p.Prefix())
}

func namer(prefix, typ string) func(member string) string {
	d := mustLookup(typ)
	return func(member string) string { return d.Attr(prefix, member) }
}
