package layer

import (
	"github.com/matzehuels/layercombos/pkg/directive"
	"github.com/matzehuels/layercombos/pkg/errors"
)

// Build constructs the hierarchy from a document's layer nodes, given in
// document order.
//
// Nodes without a label are not layers for export purposes and are skipped.
// Every remaining node must have a unique id. Directive attributes are parsed
// while building; the first malformed directive aborts the build with a
// FormatError.
//
// B becomes a child of A exactly when B's structural parent is A's node, so a
// layer nested inside a plain group of another layer is a root layer.
func Build(nodes []Node) (*Hierarchy, error) {
	h := &Hierarchy{byID: make(map[string]int, len(nodes))}
	index := make(map[Node]int, len(nodes))
	var kept []Node

	for _, n := range nodes {
		label, ok := n.Label()
		if !ok {
			continue
		}
		id, ok := n.ID()
		if !ok || id == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "layer '%s' has no id", label)
		}
		if _, dup := h.byID[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate layer id %q (layer '%s')", id, label)
		}

		l := &Layer{
			ID:     id,
			Label:  label,
			index:  len(h.layers),
			parent: -1,
		}
		raw, present := n.Directive()
		dirs, err := directive.ParseAttr(l.Owner(), raw, present)
		if err != nil {
			return nil, err
		}
		l.Directives = dirs

		h.byID[id] = l.index
		index[n] = l.index
		h.layers = append(h.layers, l)
		kept = append(kept, n)
	}

	// Nodes arrive in document order, so appending keeps children in
	// document order too.
	for i, n := range kept {
		p := n.Parent()
		if p == nil {
			continue
		}
		pi, ok := index[p]
		if !ok {
			continue
		}
		h.layers[i].parent = pi
		h.layers[pi].children = append(h.layers[pi].children, i)
	}

	return h, nil
}
