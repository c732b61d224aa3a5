package property

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Number coerces any Go numeric kind to float64.
func Number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case nil:
		return math.NaN(), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// NonNegative coerces like Number and rejects negative values.
func NonNegative(v any) (float64, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("expected a non-negative number, got %v", n)
	}
	return n, nil
}

// Alpha coerces like Number and requires a value in [0, 1].
func Alpha(v any) (float64, error) {
	n, err := Number(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 1 {
		return 0, fmt.Errorf("expected an alpha in [0, 1], got %v", n)
	}
	return n, nil
}

// String coerces text. Strings are normalized to NFC so that measurement
// and shaping see one canonical form; numbers and booleans are formatted;
// nil becomes the empty string.
func String(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return norm.NFC.String(s), nil
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(s), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(s), nil
	case fmt.Stringer:
		return norm.NFC.String(s.String()), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

// Bool coerces a boolean.
func Bool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
	return b, nil
}

// Enum returns a coercer accepting either a T or one of the names in table.
func Enum[T comparable](table map[string]T) Coercer[T] {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	allowed := strings.Join(names, ", ")

	return func(v any) (T, error) {
		switch e := v.(type) {
		case T:
			return e, nil
		case string:
			if t, ok := table[e]; ok {
				return t, nil
			}
			var zero T
			return zero, fmt.Errorf("unknown value %q (want one of %s)", e, allowed)
		default:
			var zero T
			return zero, fmt.Errorf("expected one of %s, got %T", allowed, v)
		}
	}
}

// OneOf returns a string coercer restricted to names.
func OneOf(names ...string) Coercer[string] {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("expected one of %s, got %T", strings.Join(names, ", "), v)
		}
		if !allowed[s] {
			return "", fmt.Errorf("unknown value %q (want one of %s)", s, strings.Join(names, ", "))
		}
		return s, nil
	}
}
