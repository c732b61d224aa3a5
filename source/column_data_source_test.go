package source

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func newTestSource(t *testing.T) *ColumnDataSource {
	t.Helper()
	src, err := NewColumnDataSource(map[string]Column{
		"x":     Series[float64]{1, 2, 3},
		"color": Series[string]{"red", "green", "blue"},
	})
	if err != nil {
		t.Fatalf("NewColumnDataSource() error = %v", err)
	}
	return src
}

func TestNewColumnDataSource_LengthMismatch(t *testing.T) {
	_, err := NewColumnDataSource(map[string]Column{
		"x": Series[float64]{1, 2, 3},
		"y": Series[float64]{1, 2},
	})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("NewColumnDataSource() error = %v, want ErrLengthMismatch", err)
	}
}

func TestColumnDataSource_Column(t *testing.T) {
	src := newTestSource(t)

	if got := src.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := src.ColumnNames(); !reflect.DeepEqual(got, []string{"color", "x"}) {
		t.Errorf("ColumnNames() = %v, want [color x]", got)
	}
	c, ok := src.Column("color")
	if !ok {
		t.Fatal("Column(color) not found")
	}
	if got := c.At(1); got != "green" {
		t.Errorf("Column(color).At(1) = %v, want green", got)
	}
	if _, ok := src.Column("missing"); ok {
		t.Error("Column(missing) found, want absent")
	}
}

func TestColumnDataSource_Stream(t *testing.T) {
	src := newTestSource(t)
	before, _ := src.Column("x")

	var events []Event
	unsubscribe := src.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	err := src.Stream(map[string]Column{
		"x":     Series[float64]{4},
		"color": Series[string]{"black"},
	}, 0)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if got := src.Len(); got != 4 {
		t.Errorf("Len() after stream = %d, want 4", got)
	}
	x, _ := src.Column("x")
	if got := x.(Series[float64]); !reflect.DeepEqual(got, Series[float64]{1, 2, 3, 4}) {
		t.Errorf("x after stream = %v, want [1 2 3 4]", got)
	}
	if before.Len() != 3 {
		t.Errorf("column obtained before stream has %d rows, want 3", before.Len())
	}
	if len(events) != 1 || events[0].Kind != EventStream || events[0].Rows != 4 {
		t.Errorf("events = %+v, want one stream event with 4 rows", events)
	}
}

func TestColumnDataSource_StreamRollover(t *testing.T) {
	src := newTestSource(t)
	err := src.Stream(map[string]Column{
		"x":     Series[float64]{4, 5},
		"color": Series[string]{"a", "b"},
	}, 3)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	x, _ := src.Column("x")
	if got := x.(Series[float64]); !reflect.DeepEqual(got, Series[float64]{3, 4, 5}) {
		t.Errorf("x after rollover = %v, want [3 4 5]", got)
	}
}

func TestColumnDataSource_StreamErrors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]Column
		want error
	}{
		{
			name: "missing column",
			data: map[string]Column{"x": Series[float64]{4}},
			want: ErrUnknownColumn,
		},
		{
			name: "unknown column",
			data: map[string]Column{"x": Series[float64]{4}, "size": Series[float64]{1}},
			want: ErrUnknownColumn,
		},
		{
			name: "ragged",
			data: map[string]Column{"x": Series[float64]{4, 5}, "color": Series[string]{"a"}},
			want: ErrLengthMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t)
			if err := src.Stream(tt.data, 0); !errors.Is(err, tt.want) {
				t.Errorf("Stream() error = %v, want %v", err, tt.want)
			}
			if src.Len() != 3 {
				t.Errorf("Len() after failed stream = %d, want 3", src.Len())
			}
		})
	}
}

func TestColumnDataSource_StreamWidensMixedTypes(t *testing.T) {
	src := newTestSource(t)
	err := src.Stream(map[string]Column{
		"x":     Series[any]{"four"},
		"color": Series[string]{"black"},
	}, 0)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	x, _ := src.Column("x")
	if _, ok := x.(Series[any]); !ok {
		t.Fatalf("x after mixed stream is %T, want Series[any]", x)
	}
	if got := x.At(3); got != "four" {
		t.Errorf("x.At(3) = %v, want four", got)
	}
}

func TestColumnDataSource_Patch(t *testing.T) {
	src := newTestSource(t)
	before, _ := src.Column("color")

	var kinds []EventKind
	src.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	if err := src.Patch(map[string][]PatchOp{"color": {{Index: 0, Value: "orange"}}}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	after, _ := src.Column("color")
	if got := after.At(0); got != "orange" {
		t.Errorf("color.At(0) after patch = %v, want orange", got)
	}
	if got := before.At(0); got != "red" {
		t.Errorf("column obtained before patch changed to %v", got)
	}
	if !reflect.DeepEqual(kinds, []EventKind{EventPatch}) {
		t.Errorf("events = %v, want [patch]", kinds)
	}
}

func TestColumnDataSource_PatchNull(t *testing.T) {
	src := newTestSource(t)
	if err := src.Patch(map[string][]PatchOp{
		"x":     {{Index: 1, Value: nil}},
		"color": {{Index: 0, Value: "orange"}, {Index: 2, Value: nil}},
	}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	x, _ := src.Column("x")
	if _, ok := x.(Series[float64]); !ok {
		t.Fatalf("x after null patch is %T, want Series[float64]", x)
	}
	if v := x.At(1).(float64); !math.IsNaN(v) {
		t.Errorf("x.At(1) = %v, want NaN", v)
	}

	color, _ := src.Column("color")
	want := Series[any]{"orange", "green", nil}
	if !reflect.DeepEqual(color, want) {
		t.Errorf("color after null patch = %#v, want %#v", color, want)
	}
}

func TestColumnDataSource_PatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		patches map[string][]PatchOp
		want    error
	}{
		{"out of range", map[string][]PatchOp{"x": {{Index: 3, Value: 1.0}}}, ErrPatchOutOfRange},
		{"type mismatch", map[string][]PatchOp{"x": {{Index: 0, Value: "one"}}}, ErrTypeMismatch},
		{"unknown column", map[string][]PatchOp{"size": {{Index: 0, Value: 1.0}}}, ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t)
			if err := src.Patch(tt.patches); !errors.Is(err, tt.want) {
				t.Errorf("Patch() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestColumnDataSource_ReplaceAndUnsubscribe(t *testing.T) {
	src := newTestSource(t)

	calls := 0
	unsubscribe := src.Subscribe(func(ev Event) {
		calls++
		if ev.Kind != EventReplace {
			t.Errorf("event kind = %v, want replace", ev.Kind)
		}
	})

	if err := src.Replace(map[string]Column{"y": Series[int64]{7, 8}}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if src.Len() != 2 {
		t.Errorf("Len() after replace = %d, want 2", src.Len())
	}

	unsubscribe()
	unsubscribe()
	if src.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", src.Subscribers())
	}
	_ = src.Replace(map[string]Column{"y": Series[int64]{1}})
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestEventKind_String(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventReplace, "replace"},
		{EventStream, "stream"},
		{EventPatch, "patch"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
