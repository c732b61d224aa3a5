// Package job turns a configuration into rendered label output.
//
// A Job owns the data source, the plot and the label set described by one
// config.Config. Reload re-reads the data and replaces the source contents,
// which the label set picks up through its normal change notifications.
package job

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gogpu/gg"
	_ "modernc.org/sqlite"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/annotation"
	"github.com/gogpu/ggmark/canvas"
	"github.com/gogpu/ggmark/internal/config"
	"github.com/gogpu/ggmark/overlay"
	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/scale"
	"github.com/gogpu/ggmark/source"
	"github.com/gogpu/ggmark/source/arrowsrc"
	"github.com/gogpu/ggmark/source/sqlsrc"
	"github.com/gogpu/ggmark/visual"
)

// Job is one configured rendering job. Its methods are safe for
// concurrent use.
type Job struct {
	mu sync.Mutex

	cfg    *config.Config
	book   *canvas.FontBook
	src    *source.ColumnDataSource
	plot   *annotation.Plot
	labels *annotation.LabelSet
}

// New loads the data described by cfg and builds the label set.
func New(ctx context.Context, cfg *config.Config) (*Job, error) {
	book, err := fontBook(cfg.Fonts)
	if err != nil {
		return nil, err
	}
	cols, err := LoadColumns(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	src, err := source.NewColumnDataSource(cols)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}

	frame := scale.BBox{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	plot, err := annotation.NewPlot(frame, axisRange(cfg.XRange, src, "x"), axisRange(cfg.YRange, src, "y"))
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	plot.UseMap = cfg.UseMap

	labels := annotation.NewLabelSet(src)
	decls := make(map[string]property.Declaration, len(cfg.Labels)+1)
	for attr, d := range cfg.Labels {
		decls[attr] = d
	}
	decls["render_mode"] = property.Value(cfg.RenderMode)
	if err := labels.SetAll(decls); err != nil {
		return nil, fmt.Errorf("job: labels: %w", err)
	}

	ggmark.Logger().Debug("job: ready", "rows", src.Len(), "columns", len(cols), "mode", cfg.RenderMode)
	return &Job{cfg: cfg, book: book, src: src, plot: plot, labels: labels}, nil
}

func fontBook(fonts map[string]string) (*canvas.FontBook, error) {
	if len(fonts) == 0 {
		return canvas.DefaultFontBook()
	}
	def, err := canvas.DefaultFontBook()
	if err != nil {
		return nil, err
	}
	book := def.Clone()
	for family, path := range fonts {
		if err := book.RegisterFile(family, "normal", path); err != nil {
			return nil, fmt.Errorf("job: font %s: %w", family, err)
		}
	}
	return book, nil
}

// axisRange returns r, or the extent of column name padded by 5% when r
// is nil.
func axisRange(r []float64, src source.DataSource, name string) scale.Range {
	if len(r) == 2 {
		return scale.Range{Start: r[0], End: r[1]}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	if c, ok := src.Column(name); ok {
		for i := 0; i < c.Len(); i++ {
			v, err := property.Number(c.At(i))
			if err != nil || math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	switch {
	case lo > hi:
		return scale.Range{Start: 0, End: 1}
	case lo == hi:
		return scale.Range{Start: lo - 1, End: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return scale.Range{Start: lo - pad, End: hi + pad}
}

// LoadColumns reads the columns described by sc.
func LoadColumns(ctx context.Context, sc config.SourceConfig) (map[string]source.Column, error) {
	switch sc.Type {
	case config.SourceInline, "":
		return inlineColumns(sc.Columns), nil
	case config.SourceCSV:
		f, err := os.Open(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("job: %w", err)
		}
		defer f.Close()
		var opts []arrowsrc.Option
		if sc.Comma != "" {
			opts = append(opts, arrowsrc.WithComma([]rune(sc.Comma)[0]))
		}
		return arrowsrc.ReadCSV(f, opts...)
	case config.SourceArrow:
		f, err := os.Open(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("job: %w", err)
		}
		defer f.Close()
		return arrowsrc.ReadIPC(f)
	case config.SourceSQLite:
		db, err := sql.Open("sqlite", sc.Path)
		if err != nil {
			return nil, fmt.Errorf("job: open %s: %w", sc.Path, err)
		}
		defer db.Close()
		return sqlsrc.Query(ctx, db, sc.Query)
	default:
		return nil, fmt.Errorf("job: unknown source type %q", sc.Type)
	}
}

// inlineColumns types each inline column by its values: all numbers
// become float64, all strings string, all booleans bool, anything else
// stays untyped.
func inlineColumns(raw map[string][]any) map[string]source.Column {
	cols := make(map[string]source.Column, len(raw))
	for name, values := range raw {
		cols[name] = inlineColumn(values)
	}
	return cols
}

func inlineColumn(values []any) source.Column {
	var nums, strs, bools int
	for _, v := range values {
		switch v.(type) {
		case string:
			strs++
		case bool:
			bools++
		default:
			if _, err := property.Number(v); err == nil {
				nums++
			}
		}
	}
	switch len(values) {
	case nums:
		out := make(source.Series[float64], len(values))
		for i, v := range values {
			out[i], _ = property.Number(v)
		}
		return out
	case strs:
		out := make(source.Series[string], len(values))
		for i, v := range values {
			out[i] = v.(string)
		}
		return out
	case bools:
		out := make(source.Series[bool], len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return out
	}
	return source.Series[any](values)
}

// Config returns the job configuration.
func (j *Job) Config() *config.Config { return j.cfg }

// Source returns the job's data source.
func (j *Job) Source() *source.ColumnDataSource { return j.src }

// Labels returns the job's label set.
func (j *Job) Labels() *annotation.LabelSet { return j.labels }

// Plot returns the job's plot.
func (j *Job) Plot() *annotation.Plot { return j.plot }

// Reload re-reads the data and replaces the source contents.
func (j *Job) Reload(ctx context.Context) error {
	cols, err := LoadColumns(ctx, j.cfg.Source)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.src.Replace(cols); err != nil {
		return fmt.Errorf("job: reload: %w", err)
	}
	ggmark.Logger().Info("job: reloaded", "rows", j.src.Len())
	return nil
}

func (j *Job) newContext() (*gg.Context, *canvas.GG, error) {
	dc := gg.NewContext(j.cfg.Width, j.cfg.Height)
	bg, err := visual.ParseColor(j.cfg.Background)
	if err != nil {
		dc.Close()
		return nil, nil, fmt.Errorf("job: background: %w", err)
	}
	dc.ClearWithColor(bg.RGBA(1))
	c, err := canvas.NewGG(dc, j.book)
	if err != nil {
		dc.Close()
		return nil, nil, err
	}
	return dc, c, nil
}

// Render writes the job output in its configured format.
func (j *Job) Render(w io.Writer) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	dc, c, err := j.newContext()
	if err != nil {
		return err
	}
	defer dc.Close()

	var layer *overlay.Layer
	if j.cfg.RenderMode == "css" {
		layer = overlay.NewLayer(float64(j.cfg.Width), float64(j.cfg.Height))
	}
	view, err := annotation.NewLabelSetView(j.plot, j.labels, c, layer)
	if err != nil {
		return fmt.Errorf("job: %w", err)
	}
	defer view.Close()
	if err := view.Render(); err != nil {
		return fmt.Errorf("job: render: %w", err)
	}

	if j.cfg.Format == "png" {
		return dc.EncodePNG(w)
	}

	var png bytes.Buffer
	if err := dc.EncodePNG(&png); err != nil {
		return err
	}
	page := &overlay.Page{
		Title:  filepath.Base(j.cfg.OutputFor()),
		Width:  float64(j.cfg.Width),
		Height: float64(j.cfg.Height),
		PNG:    png.Bytes(),
	}
	if layer != nil {
		page.Layers = append(page.Layers, layer)
	}
	return page.Render(w)
}

// RenderFile renders to the configured output path and returns it.
func (j *Job) RenderFile() (string, error) {
	path := j.cfg.OutputFor()
	var buf bytes.Buffer
	if err := j.Render(&buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("job: %w", err)
	}
	ggmark.Logger().Info("job: wrote output", "path", path, "bytes", buf.Len())
	return path, nil
}

// Table is the resolved state of a label set, one row per label.
type Table struct {
	Attrs []string
	Rows  [][]any
}

// Inspect resolves every data attribute and returns their values per row.
// Attributes are sorted by name.
func (j *Job) Inspect() (*Table, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctrl := annotation.NewController(j.plot, j.labels, nil)
	snap, err := ctrl.Prepare()
	if err != nil {
		return nil, err
	}
	res := make(map[string]property.Resolution)
	for _, a := range snap.ArrayAttrs() {
		res[a], _ = snap.Array(a)
	}
	for _, a := range snap.UniformAttrs() {
		res[a], _ = snap.Uniform(a)
	}
	t := &Table{}
	for a := range res {
		t.Attrs = append(t.Attrs, a)
	}
	sort.Strings(t.Attrs)

	for i := 0; i < snap.Rows(); i++ {
		row := make([]any, len(t.Attrs))
		for k, a := range t.Attrs {
			row[k] = res[a].At(i)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
