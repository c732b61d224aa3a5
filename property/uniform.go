package property

// Resolution is a resolved attribute stored in a Snapshot: a Uniform[T]
// or an Array[T].
type Resolution interface {
	Len() int

	// At returns the value at row i as an interface value.
	At(i int) any
}

// Uniform is a resolved attribute that is either one value shared by all
// rows (scalar) or one value per row (vector). Get hides the difference
// from the render loop.
//
// A scalar Uniform never allocates per-row storage.
type Uniform[T any] struct {
	scalar   T
	vector   []T
	length   int
	isVector bool
}

// NewScalar returns a scalar uniform valid for length rows.
func NewScalar[T any](v T, length int) Uniform[T] {
	return Uniform[T]{scalar: v, length: length}
}

// NewVector returns a vector uniform over values. The slice is not copied.
func NewVector[T any](values []T) Uniform[T] {
	return Uniform[T]{vector: values, length: len(values), isVector: true}
}

// Get returns the value at row i. For a scalar uniform i is ignored.
// For a vector uniform i must be in [0, Len()); it is not bounds-checked
// beyond the slice access itself.
func (u Uniform[T]) Get(i int) T {
	if u.isVector {
		return u.vector[i]
	}
	return u.scalar
}

// IsScalar reports whether u holds a single shared value.
func (u Uniform[T]) IsScalar() bool { return !u.isVector }

// Scalar returns the shared value and true for a scalar uniform.
func (u Uniform[T]) Scalar() (T, bool) {
	if u.isVector {
		var zero T
		return zero, false
	}
	return u.scalar, true
}

// Len returns the number of rows the uniform was resolved for.
func (u Uniform[T]) Len() int { return u.length }

// At returns Get(i) as an interface value.
func (u Uniform[T]) At(i int) any { return u.Get(i) }

// Array materializes the uniform as one value per row.
func (u Uniform[T]) Array() []T {
	if u.isVector {
		return u.vector
	}
	out := make([]T, u.length)
	for i := range out {
		out[i] = u.scalar
	}
	return out
}

// Array is an attribute resolved to a plain per-row vector regardless of
// whether its declaration was constant.
type Array[T any] []T

// Len returns the number of rows.
func (a Array[T]) Len() int { return len(a) }

// At returns the value at row i.
func (a Array[T]) At(i int) any { return a[i] }
