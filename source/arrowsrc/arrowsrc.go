// Package arrowsrc loads data sources from Apache Arrow data: in-memory
// records, CSV files read through the Arrow CSV reader, and Arrow IPC
// streams.
//
// Numeric columns become source.Series[float64] or source.Series[int64];
// integer columns with nulls are widened to float64 with NaN for null.
// Strings, booleans, timestamps and dates are supported. Timestamps and
// dates become milliseconds since the Unix epoch.
package arrowsrc

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/source"
)

// ErrUnsupportedType is returned for Arrow column types with no source
// column equivalent.
var ErrUnsupportedType = errors.New("arrowsrc: unsupported column type")

// Option configures a reader.
type Option func(*options)

type options struct {
	mem   memory.Allocator
	chunk int
	comma rune
}

func defaultOptions() options {
	return options{mem: memory.NewGoAllocator(), chunk: 1024, comma: ','}
}

// WithAllocator sets the Arrow memory allocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// WithChunk sets the number of CSV rows per record.
func WithChunk(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunk = n
		}
	}
}

// WithComma sets the CSV field delimiter.
func WithComma(r rune) Option {
	return func(o *options) { o.comma = r }
}

// Columns converts records sharing schema into source columns.
func Columns(schema *arrow.Schema, recs ...arrow.Record) (map[string]source.Column, error) {
	t := newTable(schema)
	for _, rec := range recs {
		if err := t.add(rec); err != nil {
			return nil, err
		}
	}
	return t.columns(), nil
}

// FromRecords returns a ColumnDataSource holding the rows of recs.
func FromRecords(schema *arrow.Schema, recs ...arrow.Record) (*source.ColumnDataSource, error) {
	cols, err := Columns(schema, recs...)
	if err != nil {
		return nil, err
	}
	return source.NewColumnDataSource(cols)
}

// recordReader is the iteration surface shared by the CSV and IPC readers.
type recordReader interface {
	Next() bool
	Record() arrow.Record
	Err() error
	Schema() *arrow.Schema
	Release()
}

func drain(rdr recordReader) (map[string]source.Column, error) {
	defer rdr.Release()

	var t *table
	records := 0
	for rdr.Next() {
		rec := rdr.Record()
		if t == nil {
			t = newTable(rec.Schema())
		}
		if err := t.add(rec); err != nil {
			return nil, err
		}
		records++
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if t == nil {
		schema := rdr.Schema()
		if schema == nil {
			return map[string]source.Column{}, nil
		}
		t = newTable(schema)
	}
	ggmark.Logger().Debug("arrowsrc: read", "records", records, "rows", t.rows, "columns", len(t.cols))
	return t.columns(), nil
}

// ReadCSV reads a CSV file with a header row, inferring column types
// from the data. Empty fields are null.
func ReadCSV(r io.Reader, opts ...Option) (map[string]source.Column, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithAllocator(o.mem),
		csv.WithChunk(o.chunk),
		csv.WithComma(o.comma),
		csv.WithNullReader(true, ""),
	)
	cols, err := drain(rdr)
	if err != nil {
		return nil, fmt.Errorf("arrowsrc: csv: %w", err)
	}
	return cols, nil
}

// ReadIPC reads an Arrow IPC stream.
func ReadIPC(r io.Reader, opts ...Option) (map[string]source.Column, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(o.mem))
	if err != nil {
		return nil, fmt.Errorf("arrowsrc: ipc: %w", err)
	}
	cols, err := drain(rdr)
	if err != nil {
		return nil, fmt.Errorf("arrowsrc: ipc: %w", err)
	}
	return cols, nil
}

// table accumulates the columns of consecutive records.
type table struct {
	schema *arrow.Schema
	cols   []*accumulator
	rows   int
}

func newTable(schema *arrow.Schema) *table {
	t := &table{schema: schema}
	for _, f := range schema.Fields() {
		t.cols = append(t.cols, &accumulator{name: f.Name})
	}
	return t
}

func (t *table) add(rec arrow.Record) error {
	if !rec.Schema().Equal(t.schema) {
		return fmt.Errorf("arrowsrc: record schema %s does not match %s", rec.Schema(), t.schema)
	}
	for i, acc := range t.cols {
		if err := acc.add(rec.Column(i)); err != nil {
			return err
		}
	}
	t.rows += int(rec.NumRows())
	return nil
}

func (t *table) columns() map[string]source.Column {
	out := make(map[string]source.Column, len(t.cols))
	for _, acc := range t.cols {
		out[acc.name] = acc.column()
	}
	return out
}

type kind int

const (
	kindUnset kind = iota
	kindFloat
	kindInt
	kindString
	kindBool
)

type accumulator struct {
	name   string
	kind   kind
	floats []float64
	ints   []int64
	valid  []bool
	strs   []string
	bools  []bool
	nulls  bool
}

func (a *accumulator) setKind(k kind) error {
	if a.kind != kindUnset && a.kind != k {
		return fmt.Errorf("arrowsrc: column %q changes type between records", a.name)
	}
	a.kind = k
	return nil
}

func (a *accumulator) add(arr arrow.Array) error {
	switch c := arr.(type) {
	case *array.Float64:
		return appendFloats[float64](a, c)
	case *array.Float32:
		return appendFloats[float32](a, c)
	case *array.Int64:
		return appendInts[int64](a, c)
	case *array.Int32:
		return appendInts[int32](a, c)
	case *array.Int16:
		return appendInts[int16](a, c)
	case *array.Int8:
		return appendInts[int8](a, c)
	case *array.Uint32:
		return appendInts[uint32](a, c)
	case *array.Uint16:
		return appendInts[uint16](a, c)
	case *array.Uint8:
		return appendInts[uint8](a, c)
	case *array.String:
		return appendStrings(a, c)
	case *array.LargeString:
		return appendStrings(a, c)
	case *array.Boolean:
		if err := a.setKind(kindBool); err != nil {
			return err
		}
		for i := 0; i < c.Len(); i++ {
			a.bools = append(a.bools, c.IsValid(i) && c.Value(i))
		}
		return nil
	case *array.Timestamp:
		if err := a.setKind(kindFloat); err != nil {
			return err
		}
		unit := c.DataType().(*arrow.TimestampType).Unit
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				a.floats = append(a.floats, math.NaN())
				continue
			}
			a.floats = append(a.floats, float64(c.Value(i).ToTime(unit).UnixMilli()))
		}
		return nil
	case *array.Date32:
		if err := a.setKind(kindFloat); err != nil {
			return err
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				a.floats = append(a.floats, math.NaN())
				continue
			}
			a.floats = append(a.floats, float64(c.Value(i).ToTime().UnixMilli()))
		}
		return nil
	case *array.Null:
		if err := a.setKind(kindFloat); err != nil {
			return err
		}
		for i := 0; i < c.Len(); i++ {
			a.floats = append(a.floats, math.NaN())
		}
		return nil
	default:
		return fmt.Errorf("%w: column %q is %s", ErrUnsupportedType, a.name, arr.DataType())
	}
}

type valuer[T any] interface {
	arrow.Array
	Value(i int) T
}

func appendFloats[T float32 | float64](a *accumulator, c valuer[T]) error {
	if err := a.setKind(kindFloat); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			a.floats = append(a.floats, math.NaN())
			continue
		}
		a.floats = append(a.floats, float64(c.Value(i)))
	}
	return nil
}

func appendInts[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32](a *accumulator, c valuer[T]) error {
	if err := a.setKind(kindInt); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		ok := c.IsValid(i)
		var v int64
		if ok {
			v = int64(c.Value(i))
		} else {
			a.nulls = true
		}
		a.ints = append(a.ints, v)
		a.valid = append(a.valid, ok)
	}
	return nil
}

func appendStrings(a *accumulator, c valuer[string]) error {
	if err := a.setKind(kindString); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			a.strs = append(a.strs, "")
			continue
		}
		a.strs = append(a.strs, c.Value(i))
	}
	return nil
}

func (a *accumulator) column() source.Column {
	switch a.kind {
	case kindInt:
		if !a.nulls {
			return source.Series[int64](a.ints)
		}
		out := make(source.Series[float64], len(a.ints))
		for i, v := range a.ints {
			if a.valid[i] {
				out[i] = float64(v)
			} else {
				out[i] = math.NaN()
			}
		}
		return out
	case kindString:
		return source.Series[string](a.strs)
	case kindBool:
		return source.Series[bool](a.bools)
	default:
		if a.floats == nil {
			return source.Series[float64]{}
		}
		return source.Series[float64](a.floats)
	}
}
