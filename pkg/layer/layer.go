// Package layer builds the containment hierarchy of toggleable layers in a
// document.
//
// The hierarchy is built once per document load from the document's layer
// nodes and is immutable afterwards. Parent links are lookups into the
// hierarchy's layer table rather than owning pointers, so a [Layer] can be
// copied and compared freely.
//
// # Building
//
//	h, err := layer.Build(doc.LayerNodes())
//	if err != nil {
//	    return err // FormatError from a directive, or an invalid document
//	}
//	for _, l := range h.Layers() {
//	    fmt.Println(l.Label, len(h.Children(l)))
//	}
package layer

import (
	"github.com/matzehuels/layercombos/pkg/directive"
)

// Node is a layer-type node exposed by a document source.
//
// Implementations must be comparable, and two Node values for the same
// underlying element must be equal: the hierarchy resolves containment by
// looking up Parent() in an identity map.
type Node interface {
	// ID returns the node's stable document id.
	ID() (string, bool)
	// Label returns the human-readable layer name.
	Label() (string, bool)
	// Directive returns the raw export directive attribute, if present.
	Directive() (string, bool)
	// Parent returns the immediate structural parent, or nil at the root.
	// The parent does not need to be a layer.
	Parent() Node
}

// Layer is one toggleable visual layer.
type Layer struct {
	ID         string
	Label      string
	Directives []directive.Directive

	index    int
	parent   int // -1 for roots
	children []int
}

// Owner returns the directive owner describing this layer.
func (l *Layer) Owner() directive.Owner {
	return directive.Owner{ID: l.ID, Label: l.Label}
}

// HasDirectives reports whether the layer carries any export directive.
func (l *Layer) HasDirectives() bool {
	return len(l.Directives) > 0
}

// Hierarchy is the immutable set of layers of one document with their
// parent/child relationships.
type Hierarchy struct {
	layers []*Layer
	byID   map[string]int
}

// Len returns the number of layers.
func (h *Hierarchy) Len() int { return len(h.layers) }

// Layers returns all layers in document order.
func (h *Hierarchy) Layers() []*Layer {
	return append([]*Layer(nil), h.layers...)
}

// Layer returns the layer with the given id.
func (h *Hierarchy) Layer(id string) (*Layer, bool) {
	i, ok := h.byID[id]
	if !ok {
		return nil, false
	}
	return h.layers[i], true
}

// Parent returns l's parent layer, or nil if l is a root layer.
func (h *Hierarchy) Parent(l *Layer) *Layer {
	if l.parent < 0 {
		return nil
	}
	return h.layers[l.parent]
}

// Children returns l's direct child layers in document order.
func (h *Hierarchy) Children(l *Layer) []*Layer {
	result := make([]*Layer, len(l.children))
	for i, c := range l.children {
		result[i] = h.layers[c]
	}
	return result
}

// Ancestors returns every transitive parent of l, nearest first.
func (h *Hierarchy) Ancestors(l *Layer) []*Layer {
	var result []*Layer
	for p := h.Parent(l); p != nil; p = h.Parent(p) {
		result = append(result, p)
	}
	return result
}

// Siblings returns the other children of l's parent in document order.
// Root layers have no siblings.
func (h *Hierarchy) Siblings(l *Layer) []*Layer {
	p := h.Parent(l)
	if p == nil {
		return nil
	}
	var result []*Layer
	for _, c := range p.children {
		if c != l.index {
			result = append(result, h.layers[c])
		}
	}
	return result
}

// Roots returns the layers that have no parent layer, in document order.
func (h *Hierarchy) Roots() []*Layer {
	var result []*Layer
	for _, l := range h.layers {
		if l.parent < 0 {
			result = append(result, l)
		}
	}
	return result
}

// Depth returns the number of ancestors of l.
func (h *Hierarchy) Depth(l *Layer) int {
	d := 0
	for p := l.parent; p >= 0; p = h.layers[p].parent {
		d++
	}
	return d
}
