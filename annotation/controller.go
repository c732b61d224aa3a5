// Package annotation implements data-bound annotations: marks whose
// attributes resolve against a shared data source and re-resolve whenever
// the source or the mark's declarations change.
//
// A Controller owns the resolve cycle of one mark. It subscribes a single
// handler to the source's event stream and to the mark's change
// notifications, keeps the last good property.Snapshot, and re-resolves
// before a render whenever the snapshot no longer matches the source row
// count.
//
// LabelSet is the text annotation built on it. LabelSetView renders a
// LabelSet either onto a canvas.Context or into an overlay.Layer.
package annotation

import (
	"fmt"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/projection"
	"github.com/gogpu/ggmark/property"
	"github.com/gogpu/ggmark/source"
	"github.com/gogpu/ggmark/visual"
)

// Mark is a model with data-bound attributes.
type Mark interface {
	// Source returns the data source attributes resolve against.
	Source() source.DataSource

	// Properties returns every attribute of the mark.
	Properties() []property.Spec

	// Visuals returns the visual property groups of the mark. Their
	// attributes resolve to uniforms; every other data attribute resolves
	// to an array.
	Visuals() []visual.Props

	// OnChange registers fn for declaration changes.
	OnChange(fn func()) (unsubscribe func())
}

// State is the resolve state of a controller.
type State int

const (
	// Unresolved means no snapshot has been resolved yet.
	Unresolved State = iota
	// Resolved means a snapshot consistent with some source state exists.
	Resolved
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Controller resolves a mark's attributes and keeps them current.
type Controller struct {
	plot    *Plot
	mark    Mark
	request func()

	snap *property.Snapshot
	err  error

	src         source.DataSource
	unsubSource func()
	unsubMark   func()
}

// NewController returns an unconnected controller. request is called
// after every notification-driven re-resolve.
func NewController(plot *Plot, mark Mark, request func()) *Controller {
	if request == nil {
		request = func() {}
	}
	return &Controller{plot: plot, mark: mark, request: request}
}

// Connect subscribes the controller to the mark and its source.
func (c *Controller) Connect() {
	if c.unsubMark == nil {
		c.unsubMark = c.mark.OnChange(c.update)
	}
	c.subscribe()
}

// Close removes every subscription. The snapshot stays readable.
func (c *Controller) Close() {
	if c.unsubMark != nil {
		c.unsubMark()
		c.unsubMark = nil
	}
	if c.unsubSource != nil {
		c.unsubSource()
		c.unsubSource = nil
	}
	c.src = nil
}

func (c *Controller) subscribe() {
	src := c.mark.Source()
	if src == c.src {
		return
	}
	if c.unsubSource != nil {
		c.unsubSource()
		c.unsubSource = nil
	}
	c.src = src
	if src != nil {
		c.unsubSource = src.Subscribe(c.onSource)
	}
}

func (c *Controller) onSource(ev source.Event) {
	ggmark.Logger().Debug("annotation: source event", "kind", ev.Kind, "rows", ev.Rows)
	c.update()
}

// update is the shared handler of every notification.
func (c *Controller) update() {
	if c.unsubMark != nil {
		c.subscribe()
	}
	if err := c.SetData(); err != nil {
		ggmark.Logger().Warn("annotation: resolve failed, keeping previous state", "err", err)
	}
	c.request()
}

// State returns the resolve state.
func (c *Controller) State() State {
	if c.snap == nil {
		return Unresolved
	}
	return Resolved
}

// Err returns the error of the last resolve, or nil if it succeeded.
func (c *Controller) Err() error { return c.err }

// Snapshot returns the last good snapshot, or nil.
func (c *Controller) Snapshot() *property.Snapshot { return c.snap }

// SetData resolves every data attribute of the mark against its source.
// Visual group attributes become uniforms and the rest arrays; attributes
// flagged CanSkip are not resolved. In map mode x/y and xs/ys arrays are
// projected. On error the previous snapshot is kept.
func (c *Controller) SetData() error {
	snap, err := c.resolve()
	c.err = err
	if err != nil {
		return err
	}
	c.snap = snap
	if ggmark.DebugEnabled() {
		ggmark.Logger().Debug("annotation: resolved",
			"rows", snap.Rows(), "uniforms", len(snap.UniformAttrs()), "arrays", len(snap.ArrayAttrs()))
	}
	return nil
}

// Prepare returns a snapshot consistent with the source, resolving first
// when none exists yet or when the source row count changed since the
// last resolve.
func (c *Controller) Prepare() (*property.Snapshot, error) {
	src := c.mark.Source()
	if c.snap != nil && src != nil && c.snap.Rows() == src.Len() {
		return c.snap, nil
	}
	if err := c.SetData(); err != nil {
		return nil, err
	}
	return c.snap, nil
}

func (c *Controller) resolve() (*property.Snapshot, error) {
	src := c.mark.Source()
	if src == nil {
		return nil, fmt.Errorf("annotation: mark has no data source")
	}

	uniform := make(map[string]bool)
	for _, g := range c.mark.Visuals() {
		for _, p := range g.Properties() {
			uniform[p.Attr()] = true
		}
	}

	snap := property.NewSnapshot(src.Len())
	for _, p := range c.mark.Properties() {
		if !p.IsDataSpec() || p.CanSkip() {
			continue
		}
		if uniform[p.Attr()] {
			u, err := p.ResolveUniform(src)
			if err != nil {
				return nil, err
			}
			snap.SetUniform(p.Attr(), u)
			continue
		}
		a, err := p.ResolveArray(src)
		if err != nil {
			return nil, err
		}
		snap.SetArray(p.Attr(), a)
	}

	if c.plot != nil && c.plot.UseMap {
		if err := projectSnapshot(snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func projectSnapshot(snap *property.Snapshot) error {
	if _, ok := snap.Array("x"); ok {
		x, err := property.ArrayOf[float64](snap, "x")
		if err != nil {
			return err
		}
		y, err := property.ArrayOf[float64](snap, "y")
		if err != nil {
			return err
		}
		px, py := projection.ProjectXY(x, y)
		property.SetArrayOf(snap, "x", px)
		property.SetArrayOf(snap, "y", py)
	}
	if _, ok := snap.Array("xs"); ok {
		xs, err := property.ArrayOf[[]float64](snap, "xs")
		if err != nil {
			return err
		}
		ys, err := property.ArrayOf[[]float64](snap, "ys")
		if err != nil {
			return err
		}
		pxs, pys := projection.ProjectXsYs(xs, ys)
		property.SetArrayOf(snap, "xs", pxs)
		property.SetArrayOf(snap, "ys", pys)
	}
	return nil
}
