// Package source defines the tabular data source contract consumed by marks
// and an in-memory, column-oriented implementation of it.
//
// A data source is an ordered set of named columns that share one row count.
// Sources announce their mutations through a single merged event stream:
// a full replace, a streaming append, or a partial patch. Views subscribe one
// handler to that stream and must call the returned unsubscribe function
// when they are torn down.
package source

import "errors"

// Common errors returned by the source package.
var (
	// ErrLengthMismatch is returned when columns of different lengths are
	// supplied to a single mutation.
	ErrLengthMismatch = errors.New("source: column lengths differ")

	// ErrUnknownColumn is returned when a stream or patch names a column the
	// source does not have, or omits one it does have.
	ErrUnknownColumn = errors.New("source: unknown column")

	// ErrPatchOutOfRange is returned when a patch addresses a row beyond the
	// current row count.
	ErrPatchOutOfRange = errors.New("source: patch index out of range")

	// ErrTypeMismatch is returned when a patch value cannot be stored in the
	// target column.
	ErrTypeMismatch = errors.New("source: value type does not match column")
)

// Column is one ordered column of a data source.
type Column interface {
	// Len returns the number of rows in the column.
	Len() int

	// At returns the value at row i.
	At(i int) any
}

// DataSource is the tabular data source contract.
//
// Implementations guarantee that every column returned by Column has Len()
// rows, and that a Column value obtained before a mutation is never changed
// by that mutation.
type DataSource interface {
	// Column returns the named column, or false if it does not exist.
	Column(name string) (Column, bool)

	// ColumnNames returns the column names in sorted order.
	ColumnNames() []string

	// Len returns the shared row count.
	Len() int

	// Subscribe registers fn for every mutation event. The returned function
	// removes the subscription; calling it more than once is a no-op.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// EventKind identifies the kind of mutation a source performed.
type EventKind int

const (
	// EventReplace means the whole column set was replaced.
	EventReplace EventKind = iota
	// EventStream means rows were appended (and possibly rolled over).
	EventStream
	// EventPatch means individual cells were overwritten in place.
	EventPatch
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventReplace:
		return "replace"
	case EventStream:
		return "stream"
	case EventPatch:
		return "patch"
	default:
		return "unknown"
	}
}

// Event describes one mutation of a data source.
type Event struct {
	Kind EventKind

	// Rows is the row count after the mutation.
	Rows int

	// Columns lists the affected columns, sorted.
	Columns []string
}
