package source

import (
	"fmt"
	"math"
)

// Series is a typed column backed by a plain slice.
// The resolver views a Series directly when the attribute value type matches
// T, so a float64 column bound to a numeric attribute is never copied.
type Series[T any] []T

// Len returns the number of rows in the series.
func (s Series[T]) Len() int { return len(s) }

// At returns the value at row i.
func (s Series[T]) At(i int) any { return s[i] }

// columnOps is implemented by columns that can be appended, sliced and
// patched without widening to Series[any]. Every operation returns a new
// column; the receiver is never modified.
type columnOps interface {
	Column
	appended(tail Column) Column
	sliced(from int) Column
	patched(ops []PatchOp) (Column, error)
}

func (s Series[T]) appended(tail Column) Column {
	if t, ok := tail.(Series[T]); ok {
		out := make(Series[T], 0, len(s)+len(t))
		out = append(out, s...)
		return append(out, t...)
	}
	return widen(s).appended(widen(tail))
}

func (s Series[T]) sliced(from int) Column {
	out := make(Series[T], len(s)-from)
	copy(out, s[from:])
	return out
}

func (s Series[T]) patched(ops []PatchOp) (Column, error) {
	out := make(Series[T], len(s))
	copy(out, s)
	for _, op := range ops {
		if op.Index < 0 || op.Index >= len(out) {
			return nil, fmt.Errorf("%w: index %d, rows %d", ErrPatchOutOfRange, op.Index, len(out))
		}
		if op.Value == nil {
			switch cell := any(&out[op.Index]).(type) {
			case *float64:
				*cell = math.NaN()
			case *any:
				*cell = nil
			default:
				// No null in T: hold the column untyped.
				return widen(out).patched(ops)
			}
			continue
		}
		v, ok := op.Value.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %T into %T", ErrTypeMismatch, op.Value, s)
		}
		out[op.Index] = v
	}
	return out, nil
}

// widen converts any column into a Series[any].
func widen(c Column) Series[any] {
	if s, ok := c.(Series[any]); ok {
		return s
	}
	out := make(Series[any], c.Len())
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func opsOf(c Column) columnOps {
	if o, ok := c.(columnOps); ok {
		return o
	}
	return widen(c)
}
