// Package expr evaluates computed attribute declarations.
//
// A computed declaration is a single Starlark expression evaluated once per
// source row. Every identifier in the expression that names a source column
// is bound to that column's value at the current row; the identifier
// "index" (unless shadowed by a column) is bound to the row number. All other
// identifiers resolve against the Starlark universe (len, str, int, max, ...).
//
//	"size * 2"
//	"name.upper() if score > 10 else name"
//	"'#%02x%02x%02x' % (r, g, b)"
package expr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/ggmark/source"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Errors returned by the expr package.
var (
	// ErrCompile is returned for expressions that do not parse or reference
	// undefined names.
	ErrCompile = errors.New("expr: compile")

	// ErrEval is returned when evaluation fails on a row.
	ErrEval = errors.New("expr: eval")
)

// indexName is bound to the current row number.
const indexName = "index"

var fileOptions = &syntax.FileOptions{}

// Program is a parsed expression. It is immutable and may be evaluated
// against any number of sources.
type Program struct {
	src    string
	idents []string // distinct identifiers, sorted
}

// Compile parses src as a single Starlark expression.
func Compile(src string) (*Program, error) {
	e, err := fileOptions.ParseExpr("expr", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, src, err)
	}

	seen := make(map[string]bool)
	syntax.Walk(e, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			seen[id.Name] = true
		}
		return true
	})
	idents := make([]string, 0, len(seen))
	for name := range seen {
		idents = append(idents, name)
	}
	sort.Strings(idents)

	return &Program{src: src, idents: idents}, nil
}

// Source returns the expression text.
func (p *Program) Source() string { return p.src }

// Eval evaluates the expression for every row of src and returns one Go
// value per row (string, int64, float64, bool, []any, map[string]any or nil).
func (p *Program) Eval(src source.DataSource) ([]any, error) {
	var (
		params  []string
		columns []source.Column
		index   = -1
	)
	for _, name := range p.idents {
		if c, ok := src.Column(name); ok {
			params = append(params, name)
			columns = append(columns, c)
			continue
		}
		if name == indexName {
			index = len(params)
			params = append(params, name)
			columns = append(columns, nil)
		}
	}

	thread := &starlark.Thread{Name: "expr"}
	lambda := fmt.Sprintf("lambda %s: (%s)", strings.Join(params, ", "), p.src)
	v, err := starlark.EvalOptions(fileOptions, thread, "expr", lambda, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, p.src, err)
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %q: not callable", ErrCompile, p.src)
	}

	rows := src.Len()
	out := make([]any, rows)
	args := make(starlark.Tuple, len(params))
	for i := 0; i < rows; i++ {
		for j, c := range columns {
			if j == index {
				args[j] = starlark.MakeInt(i)
				continue
			}
			sv, err := GoToStarlark(c.At(i))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", ErrEval, i, params[j], err)
			}
			args[j] = sv
		}
		res, err := starlark.Call(thread, fn, args, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q: %v", ErrEval, i, p.src, err)
		}
		gv, err := ToGo(res)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrEval, i, err)
		}
		out[i] = gv
	}
	return out, nil
}
