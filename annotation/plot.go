package annotation

import (
	"fmt"

	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/scale"
)

// Units selects how positional attributes are interpreted.
type Units int

const (
	// UnitsData positions are mapped through the plot's data scales.
	UnitsData Units = iota
	// UnitsScreen positions are pixel offsets from the frame's left and
	// bottom edges.
	UnitsScreen
)

// String returns the string representation of the units.
func (u Units) String() string {
	if u == UnitsScreen {
		return "screen"
	}
	return "data"
}

var unitNames = map[string]Units{"data": UnitsData, "screen": UnitsScreen}

// AngleUnits selects how the angle attribute is interpreted.
type AngleUnits int

const (
	AngleRad AngleUnits = iota
	AngleDeg
)

var angleUnitNames = map[string]AngleUnits{"rad": AngleRad, "deg": AngleDeg}

// RenderMode selects the render backend of a mark.
type RenderMode int

const (
	// ModeCanvas paints onto the canvas.Context.
	ModeCanvas RenderMode = iota
	// ModeCSS positions styled overlay elements.
	ModeCSS
)

// String returns the string representation of the mode.
func (m RenderMode) String() string {
	if m == ModeCSS {
		return "css"
	}
	return "canvas"
}

var renderModeNames = map[string]RenderMode{"canvas": ModeCanvas, "css": ModeCSS}

// ParseRenderMode converts "canvas" or "css" to a RenderMode.
func ParseRenderMode(s string) (RenderMode, error) {
	m, err := property.Enum(renderModeNames)(s)
	if err != nil {
		return 0, fmt.Errorf("annotation: render mode: %w", err)
	}
	return m, nil
}

// Plot supplies the coordinate system marks render into.
type Plot struct {
	// Frame is the screen rectangle of the data area.
	Frame scale.BBox

	// XScale and YScale map data values to screen pixels.
	XScale scale.Scale
	YScale scale.Scale

	// UseMap projects x/y from longitude/latitude to Web Mercator before
	// scaling.
	UseMap bool

	// OnRenderRequest, if set, is called whenever a mark asks to be
	// re-rendered after a data or declaration change.
	OnRenderRequest func()

	requests int
}

// NewPlot returns a plot whose linear scales map xr and yr onto frame.
func NewPlot(frame scale.BBox, xr, yr scale.Range) (*Plot, error) {
	xs, err := frame.XScale(xr)
	if err != nil {
		return nil, err
	}
	ys, err := frame.YScale(yr)
	if err != nil {
		return nil, err
	}
	return &Plot{Frame: frame, XScale: xs, YScale: ys}, nil
}

// RequestRender records a render request.
func (p *Plot) RequestRender() {
	p.requests++
	if p.OnRenderRequest != nil {
		p.OnRenderRequest()
	}
}

// RenderRequests returns how many render requests were made.
func (p *Plot) RenderRequests() int { return p.requests }

// mapX maps positions for the given units.
func (p *Plot) mapX(u Units, x []float64) []float64 {
	if u == UnitsScreen {
		return p.Frame.XView().VCompute(x)
	}
	return p.XScale.VCompute(x)
}

func (p *Plot) mapY(u Units, y []float64) []float64 {
	if u == UnitsScreen {
		return p.Frame.YView().VCompute(y)
	}
	return p.YScale.VCompute(y)
}
