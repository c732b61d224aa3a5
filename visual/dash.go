package visual

import (
	"fmt"
	"strconv"
	"strings"
)

// DashPatterns are the named dash patterns.
var DashPatterns = map[string][]int{
	"solid":   {},
	"dashed":  {6},
	"dotted":  {2, 4},
	"dotdash": {2, 4, 6, 4},
	"dashdot": {6, 4, 2, 4},
}

// DecodeDash translates a dash name or a whitespace separated list of
// integers into on/off segment lengths. Tokens that are not integers are
// dropped.
func DecodeDash(pattern string) []int {
	if named, ok := DashPatterns[pattern]; ok {
		return append([]int{}, named...)
	}
	out := []int{}
	for _, tok := range strings.Fields(pattern) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ParseDash coerces a line_dash declaration: a string goes through
// DecodeDash and an integer sequence is returned unchanged.
func ParseDash(v any) ([]int, error) {
	switch d := v.(type) {
	case nil:
		return []int{}, nil
	case string:
		return DecodeDash(d), nil
	case []int:
		return d, nil
	case []any:
		out := make([]int, 0, len(d))
		for _, x := range d {
			switch n := x.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				if n != float64(int(n)) {
					return nil, fmt.Errorf("dash length %v is not an integer", n)
				}
				out = append(out, int(n))
			default:
				return nil, fmt.Errorf("dash length is %T", x)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a dash pattern, got %T", v)
	}
}

func dashFloats(d []int) []float64 {
	out := make([]float64, len(d))
	for i, n := range d {
		out[i] = float64(n)
	}
	return out
}
