package combo

import (
	"github.com/matzehuels/layercombos/pkg/directive"
	"github.com/matzehuels/layercombos/pkg/layer"
)

// Choice is one candidate visibility assignment of a layer. Choices are
// values: several may reference the same layer with different settings.
type Choice struct {
	Layer        *layer.Layer
	Hidden       bool
	HideSiblings bool
	SiblingIDs   []string // parent's children minus Layer, in document order
}

// NewChoice creates a choice for l, capturing its sibling ids from h.
func NewChoice(h *layer.Hierarchy, l *layer.Layer, hidden, hideSiblings bool) Choice {
	c := Choice{Layer: l, Hidden: hidden, HideSiblings: hideSiblings}
	for _, s := range h.Siblings(l) {
		c.SiblingIDs = append(c.SiblingIDs, s.ID)
	}
	return c
}

// Axis is the ordered set of mutually exclusive alternatives contributed by
// one directive.
type Axis []Choice

// Combination holds one choice per axis of a group, in axis order. It stops
// short of the axes after an empty one.
type Combination []Choice

// Group is a named partition of the combination space.
type Group struct {
	Name       string
	Directives []directive.Directive
}

// Groups buckets every directive of every layer by group name. Groups are
// returned in first-seen order and keep their directives in encounter order
// (layer document order, then attribute order).
func Groups(h *layer.Hierarchy) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, l := range h.Layers() {
		for _, d := range l.Directives {
			i, ok := index[d.Group]
			if !ok {
				i = len(groups)
				index[d.Group] = i
				groups = append(groups, Group{Name: d.Group})
			}
			groups[i].Directives = append(groups[i].Directives, d)
		}
	}
	return groups
}

// AxisFor builds the axis contributed by d.
func AxisFor(h *layer.Hierarchy, d directive.Directive) Axis {
	l, ok := h.Layer(d.Layer)
	if !ok {
		return nil
	}

	switch d.Selector {
	case directive.SelectorComboChildren:
		children := h.Children(l)
		axis := make(Axis, 0, len(children))
		for _, child := range children {
			axis = append(axis, NewChoice(h, child, false, true))
		}
		return axis
	case directive.SelectorVisible:
		return Axis{NewChoice(h, l, false, false)}
	case directive.SelectorHidden:
		return Axis{NewChoice(h, l, true, false)}
	default:
		return nil
	}
}

// Axes builds one axis per directive of g, in directive order.
func (g Group) Axes(h *layer.Hierarchy) []Axis {
	axes := make([]Axis, len(g.Directives))
	for i, d := range g.Directives {
		axes[i] = AxisFor(h, d)
	}
	return axes
}

// Combinations expands g into all of its combinations.
func (g Group) Combinations(h *layer.Hierarchy) []Combination {
	expanded := Expand(g.Axes(h))
	result := make([]Combination, len(expanded))
	for i, e := range expanded {
		result[i] = Combination(e)
	}
	return result
}
