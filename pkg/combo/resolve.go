package combo

import (
	"strings"

	"github.com/matzehuels/layercombos/pkg/layer"
)

// Resolution is the concrete visibility assignment of one combination.
type Resolution struct {
	Show      []string // layer ids to force visible, in accumulation order
	Hide      []string // layer ids to force hidden, in accumulation order
	Fragments []string // label fragments, one per named choice
}

// Resolve derives the show and hide sets and the label fragments of c.
//
// A hidden choice hides its layer. A visible choice shows its layer and every
// ancestor of it, and hides the layer's siblings when HideSiblings is set.
// Fragments are "-Label" or "-no-Label" with spaces removed from the label;
// hidden choices only contribute a fragment when negatives is true.
//
// Show and Hide are de-duplicated but may overlap with each other.
func Resolve(h *layer.Hierarchy, c Combination, negatives bool) Resolution {
	var (
		r    Resolution
		show = newIDSet()
		hide = newIDSet()
	)

	for _, item := range c {
		if item.Hidden {
			hide.add(item.Layer.ID)
		} else {
			show.add(item.Layer.ID)
			for _, a := range h.Ancestors(item.Layer) {
				show.add(a.ID)
			}
			if item.HideSiblings {
				for _, id := range item.SiblingIDs {
					hide.add(id)
				}
			}
		}

		if item.Hidden && !negatives {
			continue
		}
		r.Fragments = append(r.Fragments, Fragment(item))
	}

	r.Show = show.ids
	r.Hide = hide.ids
	return r
}

// Fragment returns the label fragment for a single choice.
func Fragment(c Choice) string {
	prefix := "-"
	if c.Hidden {
		prefix = "-no-"
	}
	return prefix + strings.ReplaceAll(c.Layer.Label, " ", "")
}

// idSet is an insertion-ordered set of layer ids.
type idSet struct {
	seen map[string]bool
	ids  []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.ids = append(s.ids, id)
}
