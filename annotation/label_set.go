package annotation

import (
	"fmt"
	"sort"

	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/source"
	"github.com/gogpu/ggmark/visual"
)

// LabelSet places one text label per source row.
//
// Text styling uses the "text_" attributes, the box behind each label the
// "background_fill_" attributes and its outline the "border_line_"
// attributes. Background and border are null by default.
type LabelSet struct {
	src source.DataSource

	X          *property.Property[float64]
	Y          *property.Property[float64]
	XUnits     *property.Property[Units]
	YUnits     *property.Property[Units]
	Text       *property.Property[string]
	Angle      *property.Property[float64]
	AngleUnits *property.Property[AngleUnits]
	XOffset    *property.Property[float64]
	YOffset    *property.Property[float64]
	RenderMode *property.Property[RenderMode]
	Padding    *property.Property[float64]

	TextProps  *visual.TextProps
	Border     *visual.LineProps
	Background *visual.FillProps

	byAttr    map[string]property.Spec
	listeners map[int]func()
	nextID    int
}

// NewLabelSet returns a label set reading from src with the default
// declarations: text from the "text" column, no rotation, no offsets and
// data units.
func NewLabelSet(src source.DataSource) *LabelSet {
	l := &LabelSet{
		src:        src,
		X:          property.New("x", property.Field("x"), property.Number, property.Viewable()),
		Y:          property.New("y", property.Field("y"), property.Number, property.Viewable()),
		XUnits:     property.New("x_units", property.Value("data"), property.Enum(unitNames), property.Plain()),
		YUnits:     property.New("y_units", property.Value("data"), property.Enum(unitNames), property.Plain()),
		Text:       property.New("text", property.Field("text"), property.String),
		Angle:      property.New("angle", property.Value(0), property.Number, property.Viewable()),
		AngleUnits: property.New("angle_units", property.Value("rad"), property.Enum(angleUnitNames), property.Plain()),
		XOffset:    property.New("x_offset", property.Value(0), property.Number, property.Viewable()),
		YOffset:    property.New("y_offset", property.Value(0), property.Number, property.Viewable()),
		RenderMode: property.New("render_mode", property.Value("canvas"), property.Enum(renderModeNames), property.Plain()),
		Padding:    property.New("padding", property.Value(0), property.NonNegative, property.Plain()),
		TextProps:  visual.NewTextProps(""),
		Border:     visual.NewLineProps("border_"),
		Background: visual.NewFillProps("background_"),
		listeners:  make(map[int]func()),
	}
	mustSet(l.Border.Color, property.Value(nil))
	mustSet(l.Background.Color, property.Value(nil))

	l.byAttr = make(map[string]property.Spec)
	for _, p := range l.Properties() {
		l.byAttr[p.Attr()] = p
	}
	return l
}

func mustSet(p property.Spec, d property.Declaration) {
	if err := p.Set(d); err != nil {
		panic(err)
	}
}

// Source returns the data source.
func (l *LabelSet) Source() source.DataSource { return l.src }

// SetSource replaces the data source and notifies listeners.
func (l *LabelSet) SetSource(src source.DataSource) {
	l.src = src
	l.changed()
}

// Properties returns every attribute, positional ones first.
func (l *LabelSet) Properties() []property.Spec {
	out := []property.Spec{
		l.X, l.Y, l.XUnits, l.YUnits, l.Text, l.Angle, l.AngleUnits,
		l.XOffset, l.YOffset, l.RenderMode, l.Padding,
	}
	for _, g := range l.Visuals() {
		out = append(out, g.Properties()...)
	}
	return out
}

// Visuals returns the text, border and background groups.
func (l *LabelSet) Visuals() []visual.Props {
	return []visual.Props{l.TextProps, l.Border, l.Background}
}

// Attrs returns all attribute names, sorted.
func (l *LabelSet) Attrs() []string {
	names := make([]string, 0, len(l.byAttr))
	for n := range l.byAttr {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the attribute named attr.
func (l *LabelSet) Lookup(attr string) (property.Spec, bool) {
	p, ok := l.byAttr[attr]
	return p, ok
}

// Set replaces the declaration of attr and notifies listeners.
func (l *LabelSet) Set(attr string, d property.Declaration) error {
	p, ok := l.byAttr[attr]
	if !ok {
		return &property.ConfigurationError{Attr: attr, Reason: "unknown attribute"}
	}
	if err := p.Set(d); err != nil {
		return err
	}
	l.changed()
	return nil
}

// SetAll applies several declarations and notifies listeners once. No
// declaration is applied if any attribute is unknown or rejected.
func (l *LabelSet) SetAll(decls map[string]property.Declaration) error {
	names := make([]string, 0, len(decls))
	for n := range decls {
		names = append(names, n)
	}
	sort.Strings(names)

	prev := make(map[string]property.Declaration, len(decls))
	for _, n := range names {
		p, ok := l.byAttr[n]
		if !ok {
			l.restore(prev)
			return &property.ConfigurationError{Attr: n, Reason: "unknown attribute"}
		}
		old := p.Declaration()
		if err := p.Set(decls[n]); err != nil {
			l.restore(prev)
			return err
		}
		prev[n] = old
	}
	if len(names) > 0 {
		l.changed()
	}
	return nil
}

func (l *LabelSet) restore(prev map[string]property.Declaration) {
	for n, d := range prev {
		if err := l.byAttr[n].Set(d); err != nil {
			panic(fmt.Sprintf("annotation: restoring %s: %v", n, err))
		}
	}
}

// OnChange registers fn for declaration and source changes.
func (l *LabelSet) OnChange(fn func()) (unsubscribe func()) {
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() { delete(l.listeners, id) }
}

func (l *LabelSet) changed() {
	ids := make([]int, 0, len(l.listeners))
	for id := range l.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := l.listeners[id]; ok {
			fn()
		}
	}
}

var _ Mark = (*LabelSet)(nil)
