// Package ggmark renders data-driven marks (labels, annotations) onto a gg
// drawing context.
//
// # Overview
//
// Every visual attribute of a mark (color, width, dash pattern, font, ...)
// is declared either as a constant shared by all rows or as a value bound to
// a column of a tabular data source. A declaration is resolved once per data
// change into a [property.Uniform], which answers Get(i) for any row without
// the caller having to know whether the value is constant or per-row. The
// render pass then iterates rows and applies each visual group to the
// drawing context, skipping groups that are provably invisible.
//
// # Quick Start
//
//	src, err := source.NewColumnDataSource(map[string]source.Column{
//	    "x":    source.Series[float64]{1, 2, 3},
//	    "y":    source.Series[float64]{1, 4, 9},
//	    "text": source.Series[string]{"a", "b", "c"},
//	})
//	if err != nil {
//	    return err
//	}
//
//	labels := annotation.NewLabelSet(src)
//	_ = labels.Set("text_color", property.Value("firebrick"))
//	_ = labels.Set("text_font_size", property.Value("14px"))
//
//	plot, _ := annotation.NewPlot(scale.BBox{Width: 400, Height: 300},
//	    scale.Range{Start: 0, End: 4}, scale.Range{Start: 0, End: 10})
//
//	dc := gg.NewContext(400, 300)
//	defer dc.Close()
//	ctx, _ := canvas.NewGG(dc, nil)
//
//	view, err := annotation.NewLabelSetView(plot, labels, ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer view.Close()
//	if err := view.Render(); err != nil {
//	    return err
//	}
//	return dc.SavePNG("labels.png")
//
// Streaming rows into src afterwards re-resolves the label set and
// requests a render from the plot.
//
// # Architecture
//
//   - source: tabular data source contract and an in-memory implementation
//     with replace / stream / patch notifications
//   - property: declarations, uniforms, the resolver and its error taxonomy
//   - visual: stroke, fill and text groups, the line-dash decoder
//   - canvas: the drawing surface contract and its gg implementation
//   - annotation: the data-bound controller and the label set renderer
//   - overlay: retained-mode styled elements (the "css" render mode)
//   - scale, projection: data-to-screen mapping and Web Mercator
//   - expr: Starlark expressions for computed declarations
//   - source/arrowsrc, source/sqlsrc: loaders for Arrow, CSV and SQL data
//
// # Threading
//
// Resolution and rendering are synchronous and single-threaded per view. A
// data source may be shared by several views; it must not be mutated while
// one of them is inside a resolve or render pass.
package ggmark

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
