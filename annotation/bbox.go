package annotation

import "github.com/gogpu/ggmark/canvas"

// Rect is a box relative to a text anchor, before rotation.
type Rect struct {
	X, Y, W, H float64
}

// BoundingBox returns the box of a measured string relative to its anchor
// for the given alignment and baseline, grown by padding on every side.
func BoundingBox(m canvas.TextMetrics, align canvas.Align, baseline canvas.Baseline, padding float64) Rect {
	w, h := m.Width, m.Height()

	var x float64
	switch align {
	case canvas.AlignCenter:
		x = -w / 2
	case canvas.AlignRight:
		x = -w
	}

	var y float64
	switch baseline {
	case canvas.BaselineMiddle:
		y = -0.5 * h
	case canvas.BaselineBottom:
		y = -h
	case canvas.BaselineAlphabetic:
		y = -0.8 * h
	case canvas.BaselineHanging:
		y = -0.17 * h
	case canvas.BaselineIdeographic:
		y = -0.83 * h
	}

	return Rect{X: x - padding, Y: y - padding, W: w + 2*padding, H: h + 2*padding}
}
