package property

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/ggmark/expr"
)

// Kind identifies the shape of a declaration.
type Kind int

const (
	// KindValue is a constant shared by every row.
	KindValue Kind = iota
	// KindField binds the attribute to a source column.
	KindField
	// KindExpr computes the attribute per row from an expression.
	KindExpr
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindField:
		return "field"
	case KindExpr:
		return "expr"
	default:
		return "unknown"
	}
}

// Declaration is the user-facing specification of one attribute.
// The zero Declaration is a null constant.
type Declaration struct {
	kind    Kind
	value   any
	field   string
	program *expr.Program
}

// Value declares a constant.
func Value(v any) Declaration {
	return Declaration{kind: KindValue, value: v}
}

// Field binds an attribute to the named column.
func Field(name string) Declaration {
	return Declaration{kind: KindField, field: name}
}

// Expr declares a per-row computed attribute. The expression is compiled
// immediately; a syntax error is a ConfigurationError.
func Expr(src string) (Declaration, error) {
	p, err := expr.Compile(src)
	if err != nil {
		return Declaration{}, &ConfigurationError{Reason: err.Error()}
	}
	return Declaration{kind: KindExpr, program: p}, nil
}

// MustExpr is like Expr but panics on error.
func MustExpr(src string) Declaration {
	d, err := Expr(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Kind returns the declaration kind.
func (d Declaration) Kind() Kind { return d.kind }

// IsConstant reports whether the declaration is a constant.
func (d Declaration) IsConstant() bool { return d.kind == KindValue }

// Constant returns the raw constant of a KindValue declaration.
func (d Declaration) Constant() any { return d.value }

// FieldName returns the column name of a KindField declaration.
func (d Declaration) FieldName() string { return d.field }

// Program returns the compiled expression of a KindExpr declaration.
func (d Declaration) Program() *expr.Program { return d.program }

// String returns a compact description such as {field: "x"}.
func (d Declaration) String() string {
	switch d.kind {
	case KindField:
		return fmt.Sprintf("{field: %q}", d.field)
	case KindExpr:
		return fmt.Sprintf("{expr: %q}", d.program.Source())
	default:
		return fmt.Sprintf("{value: %v}", d.value)
	}
}

// Parse builds a declaration from a decoded configuration value:
//
//	{value: <v>}    constant
//	{field: <name>} column binding
//	{expr: <src>}   computed
//	<scalar|list>   constant
//
// A map must carry exactly one of those keys.
func Parse(raw any) (Declaration, error) {
	switch v := raw.(type) {
	case Declaration:
		return v, nil
	case map[string]any:
		return parseMap(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return Declaration{}, &ConfigurationError{Reason: fmt.Sprintf("declaration key %v is not a string", k)}
			}
			m[ks] = val
		}
		return parseMap(m)
	default:
		return Value(raw), nil
	}
}

func parseMap(m map[string]any) (Declaration, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Declaration{}, &ConfigurationError{
			Reason: fmt.Sprintf("declaration needs exactly one of value, field, expr; got [%s]", strings.Join(keys, ", ")),
		}
	}
	for k, v := range m {
		switch k {
		case "value":
			return Value(v), nil
		case "field":
			name, ok := v.(string)
			if !ok || name == "" {
				return Declaration{}, &ConfigurationError{Reason: fmt.Sprintf("field must be a non-empty string, got %v", v)}
			}
			return Field(name), nil
		case "expr":
			src, ok := v.(string)
			if !ok {
				return Declaration{}, &ConfigurationError{Reason: fmt.Sprintf("expr must be a string, got %T", v)}
			}
			return Expr(src)
		default:
			return Declaration{}, &ConfigurationError{Reason: fmt.Sprintf("unknown declaration key %q", k)}
		}
	}
	panic("unreachable")
}
