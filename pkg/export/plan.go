package export

import (
	"slices"

	"github.com/matzehuels/layercombos/pkg/combo"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/label"
	"github.com/matzehuels/layercombos/pkg/layer"
)

// Item is one planned combination.
type Item struct {
	Group    string
	Index    int // Position within the group
	Label    string
	Filename string
	combo.Resolution
}

// GroupPlan is the planned output of one group.
type GroupPlan struct {
	Name  string
	Axes  []int // Choice count per axis, in directive order
	Items []Item
}

// Plan is the ordered set of combinations a run processes.
type Plan struct {
	Groups []GroupPlan
}

// Len returns the total number of combinations.
func (p *Plan) Len() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Items)
	}
	return n
}

// Group returns the plan of the named group.
func (p *Plan) Group(name string) (*GroupPlan, bool) {
	for i := range p.Groups {
		if p.Groups[i].Name == name {
			return &p.Groups[i], true
		}
	}
	return nil, false
}

// BuildPlan expands every group of h into labelled combinations. When
// opts.Groups is set only those groups are kept, in document order; naming
// a group that does not exist is an error.
func BuildPlan(h *layer.Hierarchy, opts Options) (*Plan, error) {
	groups := combo.Groups(h)

	for _, name := range opts.Groups {
		if !slices.ContainsFunc(groups, func(g combo.Group) bool { return g.Name == name }) {
			return nil, errors.New(errors.ErrCodeNotFound, "group %q is not defined by any layer", name)
		}
	}

	plan := &Plan{}
	for _, g := range groups {
		if len(opts.Groups) > 0 && !slices.Contains(opts.Groups, g.Name) {
			continue
		}

		axes := g.Axes(h)
		gp := GroupPlan{Name: g.Name, Axes: make([]int, len(axes))}
		for i, a := range axes {
			gp.Axes[i] = len(a)
		}

		for i, c := range combo.Expand(axes) {
			res := combo.Resolve(h, combo.Combination(c), opts.Negatives)
			l := label.Build(g.Name, res.Fragments, opts.labelOptions())
			gp.Items = append(gp.Items, Item{
				Group:      g.Name,
				Index:      i,
				Label:      l,
				Filename:   label.Filename(l, opts.Filetype),
				Resolution: res,
			})
		}
		plan.Groups = append(plan.Groups, gp)
	}
	return plan, nil
}
