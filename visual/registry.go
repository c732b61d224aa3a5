package visual

import (
	"sort"
	"sync"
)

// Descriptor describes one kind of visual property group: its type tag
// and member attribute names without prefix.
type Descriptor struct {
	Type  string
	Attrs []string
}

// Attr returns the full attribute name of member for a group with the
// given prefix, e.g. Attr("border_", "color") is "border_line_color".
func (d Descriptor) Attr(prefix, member string) string {
	return prefix + d.Type + "_" + member
}

// AttrNames returns all full attribute names of the group for prefix.
func (d Descriptor) AttrNames(prefix string) []string {
	out := make([]string, len(d.Attrs))
	for i, m := range d.Attrs {
		out[i] = d.Attr(prefix, m)
	}
	return out
}

var (
	registryMu  sync.RWMutex
	descriptors = make(map[string]Descriptor)
)

// Register adds a group descriptor. It panics if the type is empty or
// already registered.
func Register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d.Type == "" {
		panic("visual: Register with empty type")
	}
	if _, dup := descriptors[d.Type]; dup {
		panic("visual: Register called twice for " + d.Type)
	}
	d.Attrs = append([]string(nil), d.Attrs...)
	descriptors[d.Type] = d
}

// Lookup returns the descriptor registered for typ.
func Lookup(typ string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := descriptors[typ]
	return d, ok
}

// Types returns the registered group types, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(descriptors))
	for t := range descriptors {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func mustLookup(typ string) Descriptor {
	d, ok := Lookup(typ)
	if !ok {
		panic("visual: no descriptor for " + typ)
	}
	return d
}

func init() {
	Register(Descriptor{Type: "line", Attrs: []string{"color", "alpha", "width", "join", "cap", "dash", "dash_offset"}})
	Register(Descriptor{Type: "fill", Attrs: []string{"color", "alpha"}})
	Register(Descriptor{Type: "text", Attrs: []string{"color", "alpha", "font", "font_size", "font_style", "align", "baseline", "line_height"}})
}
