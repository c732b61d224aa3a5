package arrowsrc

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/gogpu/ggmark/source"
)

var testSchema = arrow.NewSchema([]arrow.Field{
	{Name: "x", Type: arrow.PrimitiveTypes.Float64},
	{Name: "n", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	{Name: "text", Type: arrow.BinaryTypes.String},
	{Name: "shown", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

func newRecord(t *testing.T, mem memory.Allocator, x []float64, n []int32, valid []bool, text []string) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(mem, testSchema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues(x, nil)
	b.Field(1).(*array.Int32Builder).AppendValues(n, valid)
	b.Field(2).(*array.StringBuilder).AppendValues(text, nil)
	shown := make([]bool, len(x))
	for i := range shown {
		shown[i] = i%2 == 0
	}
	b.Field(3).(*array.BooleanBuilder).AppendValues(shown, nil)
	return b.NewRecord()
}

func TestFromRecords(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	r1 := newRecord(t, mem, []float64{1, 2}, []int32{10, 20}, nil, []string{"a", "b"})
	defer r1.Release()
	r2 := newRecord(t, mem, []float64{3}, []int32{30}, nil, []string{"c"})
	defer r2.Release()

	src, err := FromRecords(testSchema, r1, r2)
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", src.Len())
	}

	tests := []struct {
		column string
		want   source.Column
	}{
		{"x", source.Series[float64]{1, 2, 3}},
		{"n", source.Series[int64]{10, 20, 30}},
		{"text", source.Series[string]{"a", "b", "c"}},
		{"shown", source.Series[bool]{true, false, true}},
	}
	for _, tt := range tests {
		got, _ := src.Column(tt.column)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Column(%s) = %#v, want %#v", tt.column, got, tt.want)
		}
	}
}

func TestColumns_NullIntegersWiden(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := newRecord(t, mem, []float64{1, 2}, []int32{5, 0}, []bool{true, false}, []string{"a", "b"})
	defer rec.Release()

	cols, err := Columns(testSchema, rec)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := cols["n"].(source.Series[float64])
	if !ok {
		t.Fatalf("column n is %T, want Series[float64]", cols["n"])
	}
	if n[0] != 5 || !math.IsNaN(n[1]) {
		t.Errorf("column n = %v, want [5 NaN]", n)
	}
}

func TestColumns_SchemaMismatch(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := newRecord(t, mem, []float64{1}, []int32{1}, nil, []string{"a"})
	defer rec.Release()

	other := arrow.NewSchema([]arrow.Field{{Name: "y", Type: arrow.PrimitiveTypes.Float64}}, nil)
	if _, err := Columns(other, rec); err == nil {
		t.Error("Columns() with mismatched schema error = nil")
	}
}

func TestColumns_Unsupported(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{{Name: "raw", Type: arrow.BinaryTypes.Binary}}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.BinaryBuilder).AppendValues([][]byte{{1}}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	if _, err := Columns(schema, rec); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Columns(binary) error = %v, want ErrUnsupportedType", err)
	}
}

func TestReadCSV(t *testing.T) {
	const data = "x,y,text\n1.5,10,alpha\n2.5,20,beta\n3.5,,gamma\n"
	cols, err := ReadCSV(strings.NewReader(data), WithChunk(2))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := cols["x"]; !reflect.DeepEqual(got, source.Series[float64]{1.5, 2.5, 3.5}) {
		t.Errorf("x = %#v", got)
	}
	if got := cols["text"]; !reflect.DeepEqual(got, source.Series[string]{"alpha", "beta", "gamma"}) {
		t.Errorf("text = %#v", got)
	}
	y, ok := cols["y"].(source.Series[float64])
	if !ok || y[0] != 10 || y[1] != 20 || !math.IsNaN(y[2]) {
		t.Errorf("y = %#v, want [10 20 NaN]", cols["y"])
	}
}

func TestReadCSV_Delimiter(t *testing.T) {
	cols, err := ReadCSV(strings.NewReader("a;b\nx;1\n"), WithComma(';'))
	if err != nil {
		t.Fatal(err)
	}
	if got := cols["a"]; !reflect.DeepEqual(got, source.Series[string]{"x"}) {
		t.Errorf("a = %#v", got)
	}
}

func TestReadIPC(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := newRecord(t, mem, []float64{1, 2, 3}, []int32{1, 2, 3}, nil, []string{"a", "b", "c"})
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(testSchema), ipc.WithAllocator(mem))
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	cols, err := ReadIPC(&buf, WithAllocator(mem))
	if err != nil {
		t.Fatalf("ReadIPC() error = %v", err)
	}
	if got := cols["text"]; !reflect.DeepEqual(got, source.Series[string]{"a", "b", "c"}) {
		t.Errorf("text = %#v", got)
	}
	if got := cols["x"]; !reflect.DeepEqual(got, source.Series[float64]{1, 2, 3}) {
		t.Errorf("x = %#v", got)
	}
}

func TestReadIPC_Garbage(t *testing.T) {
	if _, err := ReadIPC(strings.NewReader("not arrow")); err == nil {
		t.Error("ReadIPC(garbage) error = nil")
	}
}
