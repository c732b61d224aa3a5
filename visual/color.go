package visual

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// Color is a packed 0xRRGGBBAA color. The zero Color is null and
// renders as nothing.
type Color uint32

// RGBA8 packs 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// IsNull reports whether c is the null color.
func (c Color) IsNull() bool { return c == 0 }

// Components returns the 8-bit components.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA returns the color as a gg color with its own alpha multiplied by
// alpha.
func (c Color) RGBA(alpha float64) gg.RGBA {
	r, g, b, a := c.Components()
	return gg.RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255 * alpha,
	}
}

// CSS returns the color as an rgba() CSS value with its own alpha
// multiplied by alpha.
func (c Color) CSS(alpha float64) string {
	r, g, b, a := c.Components()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b,
		strconv.FormatFloat(float64(a)/255*alpha, 'g', 4, 64))
}

// String returns #rrggbbaa, or "null".
func (c Color) String() string {
	if c.IsNull() {
		return "null"
	}
	return fmt.Sprintf("#%08x", uint32(c))
}

// ParseColor coerces a color declaration. It accepts nil, CSS color names,
// hex strings (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba() functions,
// packed integers, [r, g, b] or [r, g, b, a] tuples with a in [0, 1],
// gg.RGBA and image/color values.
func ParseColor(v any) (Color, error) {
	switch c := v.(type) {
	case nil:
		return 0, nil
	case Color:
		return c, nil
	case string:
		return parseColorString(c)
	case uint32:
		return Color(c), nil
	case int:
		return intColor(int64(c))
	case int64:
		return intColor(c)
	case gg.RGBA:
		return fromColor(c.Color()), nil
	case color.Color:
		return fromColor(c), nil
	case []any:
		return tupleColor(c)
	case []int:
		t := make([]any, len(c))
		for i, x := range c {
			t[i] = x
		}
		return tupleColor(t)
	case []float64:
		t := make([]any, len(c))
		for i, x := range c {
			t[i] = x
		}
		return tupleColor(t)
	default:
		return 0, fmt.Errorf("expected a color, got %T", v)
	}
}

func intColor(n int64) (Color, error) {
	if n < 0 || n > 0xffffffff {
		return 0, fmt.Errorf("color %d out of range", n)
	}
	return Color(n), nil
}

func fromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA8(n.R, n.G, n.B, n.A)
}

func parseColorString(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "none" || s == "transparent":
		return 0, nil
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	if named, ok := colornames.Map[s]; ok {
		return RGBA8(named.R, named.G, named.B, named.A), nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(hex string) (Color, error) {
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color #%s", hex)
	}
	switch len(hex) {
	case 3:
		r, g, b := uint8(n>>8&0xf)*17, uint8(n>>4&0xf)*17, uint8(n&0xf)*17
		return RGBA8(r, g, b, 255), nil
	case 4:
		r, g, b, a := uint8(n>>12&0xf)*17, uint8(n>>8&0xf)*17, uint8(n>>4&0xf)*17, uint8(n&0xf)*17
		return RGBA8(r, g, b, a), nil
	case 6:
		return Color(uint32(n)<<8 | 0xff), nil
	case 8:
		return Color(n), nil
	default:
		return 0, fmt.Errorf("invalid hex color #%s", hex)
	}
}

func parseRGBFunc(s string) (Color, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	parts := strings.Split(s[open+1:end], ",")
	t := make([]any, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		t[i] = f
	}
	return tupleColor(t)
}

func tupleColor(t []any) (Color, error) {
	if len(t) != 3 && len(t) != 4 {
		return 0, fmt.Errorf("color tuple needs 3 or 4 components, got %d", len(t))
	}
	var c [4]float64
	c[3] = 1
	for i, x := range t {
		var f float64
		switch n := x.(type) {
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case float64:
			f = n
		default:
			return 0, fmt.Errorf("color component %d is %T", i, x)
		}
		c[i] = f
	}
	for i := 0; i < 3; i++ {
		if c[i] < 0 || c[i] > 255 {
			return 0, fmt.Errorf("color component %v out of range", c[i])
		}
	}
	if c[3] < 0 || c[3] > 1 {
		return 0, fmt.Errorf("color alpha %v out of range", c[3])
	}
	return RGBA8(uint8(c[0]), uint8(c[1]), uint8(c[2]), uint8(c[3]*255+0.5)), nil
}
