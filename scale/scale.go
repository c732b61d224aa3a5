// Package scale maps data-space values to screen pixels.
package scale

import "fmt"

// Scale maps a sequence of data values to screen coordinates.
type Scale interface {
	Compute(v float64) float64
	VCompute(values []float64) []float64
}

// Range is a closed numeric interval. Start may exceed End.
type Range struct {
	Start, End float64
}

// Span returns End - Start.
func (r Range) Span() float64 { return r.End - r.Start }

// Linear maps Source linearly onto Target.
type Linear struct {
	Source Range
	Target Range
}

// NewLinear returns a linear scale. It fails for an empty source range.
func NewLinear(source, target Range) (*Linear, error) {
	if source.Span() == 0 {
		return nil, fmt.Errorf("scale: empty source range [%v, %v]", source.Start, source.End)
	}
	return &Linear{Source: source, Target: target}, nil
}

// Compute maps one value.
func (s *Linear) Compute(v float64) float64 {
	k := s.Target.Span() / s.Source.Span()
	return s.Target.Start + (v-s.Source.Start)*k
}

// VCompute maps a sequence of values into a new slice.
func (s *Linear) VCompute(values []float64) []float64 {
	k := s.Target.Span() / s.Source.Span()
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Target.Start + (v-s.Source.Start)*k
	}
	return out
}

// BBox is a screen rectangle with y growing downward.
type BBox struct {
	Left, Top, Width, Height float64
}

// Right returns Left + Width.
func (b BBox) Right() float64 { return b.Left + b.Width }

// Bottom returns Top + Height.
func (b BBox) Bottom() float64 { return b.Top + b.Height }

// XView maps panel-relative x offsets to screen x.
func (b BBox) XView() Scale { return view{origin: b.Left, sign: 1} }

// YView maps panel-relative y offsets, measured upward from the bottom
// edge, to screen y.
func (b BBox) YView() Scale { return view{origin: b.Bottom(), sign: -1} }

// XScale maps data range x onto the horizontal extent of b.
func (b BBox) XScale(x Range) (*Linear, error) {
	return NewLinear(x, Range{b.Left, b.Right()})
}

// YScale maps data range y onto the vertical extent of b, bottom up.
func (b BBox) YScale(y Range) (*Linear, error) {
	return NewLinear(y, Range{b.Bottom(), b.Top})
}

type view struct {
	origin float64
	sign   float64
}

func (v view) Compute(x float64) float64 { return v.origin + v.sign*x }

func (v view) VCompute(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, x := range values {
		out[i] = v.origin + v.sign*x
	}
	return out
}
