// Package canvas defines the immediate-mode drawing surface marks render
// into, with a gg-backed implementation and a command recorder.
//
// The Context interface follows the HTML canvas 2D model: fill and stroke
// styles are independent, text is positioned by an alignment and a
// baseline, and Push/Pop save the complete drawing state including paint.
package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// Align is the horizontal text alignment relative to the anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Aligns maps configuration names to alignments.
var Aligns = map[string]Align{
	"left":   AlignLeft,
	"center": AlignCenter,
	"right":  AlignRight,
}

// String returns the string representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// Baseline is the vertical text anchor.
type Baseline int

const (
	BaselineTop Baseline = iota
	BaselineMiddle
	BaselineBottom
	BaselineAlphabetic
	BaselineHanging
	BaselineIdeographic
)

// Baselines maps configuration names to baselines.
var Baselines = map[string]Baseline{
	"top":         BaselineTop,
	"middle":      BaselineMiddle,
	"bottom":      BaselineBottom,
	"alphabetic":  BaselineAlphabetic,
	"hanging":     BaselineHanging,
	"ideographic": BaselineIdeographic,
}

var baselineNames = [...]string{
	BaselineTop:         "top",
	BaselineMiddle:      "middle",
	BaselineBottom:      "bottom",
	BaselineAlphabetic:  "alphabetic",
	BaselineHanging:     "hanging",
	BaselineIdeographic: "ideographic",
}

// String returns the string representation of the baseline.
func (b Baseline) String() string {
	if b >= 0 && int(b) < len(baselineNames) {
		return baselineNames[b]
	}
	return "unknown"
}

// Font selects a face by family and style at a pixel size.
type Font struct {
	Family string
	Style  string // normal, italic, bold, bold italic
	Size   float64
}

// CSS returns the font in CSS shorthand order, e.g. "italic 16px helvetica".
func (f Font) CSS() string {
	return fmt.Sprintf("%s %spx %s", f.Style, strconv.FormatFloat(f.Size, 'g', -1, 64), f.Family)
}

// ParseSize converts a CSS font size to pixels. Supported units are px,
// pt and em (relative to 16px); a bare number is taken as pixels.
func ParseSize(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSuffix(s, "pt")
		scale = 4.0 / 3.0
	case strings.HasSuffix(s, "em"):
		s = strings.TrimSuffix(s, "em")
		scale = 16
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("canvas: invalid font size %q", s)
	}
	return v * scale, nil
}

// TextMetrics describes a measured string.
type TextMetrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height returns Ascent + Descent.
func (m TextMetrics) Height() float64 { return m.Ascent + m.Descent }

// Context is a 2D drawing surface with canvas semantics.
type Context interface {
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)

	SetFillColor(c gg.RGBA)
	SetStrokeColor(c gg.RGBA)
	SetLineWidth(w float64)
	SetLineJoin(j gg.LineJoin)
	SetLineCap(c gg.LineCap)
	// SetDash sets the dash pattern; no arguments means solid.
	SetDash(pattern ...float64)
	SetDashOffset(offset float64)

	SetFont(f Font)
	SetTextAlign(a Align)
	SetTextBaseline(b Baseline)
	MeasureText(s string) TextMetrics

	// NewPath discards the current path.
	NewPath()
	Rect(x, y, w, h float64)
	// Fill and Stroke paint the current path and keep it, so a path can be
	// filled and then stroked.
	Fill() error
	Stroke() error
	FillText(s string, x, y float64) error
}

// AlignOffset returns the x offset that moves a string of the given width
// from its anchor to its left edge.
func AlignOffset(a Align, width float64) float64 {
	switch a {
	case AlignCenter:
		return -width / 2
	case AlignRight:
		return -width
	default:
		return 0
	}
}

// BaselineOffset returns the y offset from the anchor to the alphabetic
// baseline for the given metrics, with y growing downward.
func BaselineOffset(b Baseline, m TextMetrics) float64 {
	switch b {
	case BaselineTop:
		return m.Ascent
	case BaselineMiddle:
		return (m.Ascent - m.Descent) / 2
	case BaselineBottom, BaselineIdeographic:
		return -m.Descent
	case BaselineHanging:
		return 0.8 * m.Ascent
	default:
		return 0
	}
}
