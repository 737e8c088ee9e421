package combo

import (
	"slices"
	"testing"
)

func TestResolveAncestors(t *testing.T) {
	a := &node{id: "a", label: "A"}
	b := &node{id: "b", label: "B", parent: a}
	c := &node{id: "c", label: "C", parent: b}
	d := &node{id: "d", label: "Deep", parent: c, dir: "g,visible"}
	h := build(t, a, b, c, d)

	combos := Groups(h)[0].Combinations(h)
	if len(combos) != 1 {
		t.Fatalf("len(combos) = %d, want 1", len(combos))
	}

	r := Resolve(h, combos[0], false)
	if !slices.Equal(r.Show, []string{"d", "c", "b", "a"}) {
		t.Errorf("Show = %v, want layer then all 3 ancestors", r.Show)
	}
	if len(r.Hide) != 0 {
		t.Errorf("Hide = %v, want empty", r.Hide)
	}
}

func TestResolveSiblingHiding(t *testing.T) {
	p := &node{id: "p", label: "Cards", dir: "g,combo-children"}
	x := &node{id: "x", label: "X", parent: p}
	y := &node{id: "y", label: "Y", parent: p}
	z := &node{id: "z", label: "Z", parent: p}
	h := build(t, p, x, y, z)

	combos := Groups(h)[0].Combinations(h)
	if len(combos) != 3 {
		t.Fatalf("len(combos) = %d, want 3", len(combos))
	}

	for _, combo := range combos {
		chosen := combo[0].Layer.ID
		r := Resolve(h, combo, false)

		if slices.Contains(r.Hide, chosen) {
			t.Errorf("choice %s hides itself: Hide = %v", chosen, r.Hide)
		}
		if !slices.Equal(r.Show, []string{chosen, "p"}) {
			t.Errorf("choice %s: Show = %v, want [%s p]", chosen, r.Show, chosen)
		}
		for _, other := range []string{"x", "y", "z"} {
			if other != chosen && !slices.Contains(r.Hide, other) {
				t.Errorf("choice %s: sibling %s not hidden (Hide = %v)", chosen, other, r.Hide)
			}
		}
	}
}

func TestResolveFragments(t *testing.T) {
	h := cardDeck(t)
	front := Groups(h)[0]
	combos := front.Combinations(h)

	tests := []struct {
		name      string
		negatives bool
		want      []string
	}{
		{"negatives omitted", false, []string{"-AceofSpades", "-Background"}},
		{"negatives included", true, []string{"-AceofSpades", "-Background", "-no-Back"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(h, combos[0], tt.negatives)
			if !slices.Equal(r.Fragments, tt.want) {
				t.Errorf("Fragments = %v, want %v", r.Fragments, tt.want)
			}
		})
	}
}

func TestResolveShowHide(t *testing.T) {
	h := cardDeck(t)
	combos := Groups(h)[0].Combinations(h)

	r := Resolve(h, combos[1], false)
	if !slices.Equal(r.Show, []string{"king", "cards", "bg"}) {
		t.Errorf("Show = %v", r.Show)
	}
	if !slices.Equal(r.Hide, []string{"ace", "back"}) {
		t.Errorf("Hide = %v", r.Hide)
	}
}

func TestResolveDeduplicates(t *testing.T) {
	p := &node{id: "p", label: "P", dir: "g,combo-children;g,visible"}
	x := &node{id: "x", label: "X", parent: p}
	y := &node{id: "y", label: "Y", parent: p}
	h := build(t, p, x, y)

	combos := Groups(h)[0].Combinations(h)
	r := Resolve(h, combos[0], false)
	if !slices.Equal(r.Show, []string{"x", "p"}) {
		t.Errorf("Show = %v, want de-duplicated [x p]", r.Show)
	}
}

func TestFragment(t *testing.T) {
	h := cardDeck(t)
	ace, _ := h.Layer("ace")
	if got := Fragment(Choice{Layer: ace}); got != "-AceofSpades" {
		t.Errorf("Fragment(visible) = %q", got)
	}
	if got := Fragment(Choice{Layer: ace, Hidden: true}); got != "-no-AceofSpades" {
		t.Errorf("Fragment(hidden) = %q", got)
	}
}
