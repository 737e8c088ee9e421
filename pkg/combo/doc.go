// Package combo expands layer export directives into the full set of layer
// visibility combinations and resolves each combination into the concrete
// layers to show and hide.
//
// # Overview
//
// Directives are bucketed by group name in first-seen order ([Groups]). Each
// directive of a group contributes one [Axis] of mutually exclusive
// alternatives:
//
//   - combo-children: one [Choice] per direct child, shown with its siblings hidden
//   - visible: a single choice showing the layer
//   - hidden: a single choice hiding the layer
//
// The group's combinations are the cartesian product of its axes ([Expand]),
// one choice per axis in axis order. The last axis varies fastest:
//
//	Expand([][]string{{"A", "B", "C"}, {"D", "E"}, {"F"}})
//	// [[A D F] [A E F] [B D F] [B E F] [C D F] [C E F]]
//
// An axis with zero choices (combo-children on a layer without children)
// truncates the product: combinations cover only the axes before it, and the
// axes after it are dropped. When the first axis is empty the group has no
// combinations and is silently skipped.
//
// # Resolution
//
// [Resolve] turns one combination into show and hide id lists plus the label
// fragments used to name the exported file. Showing a layer also shows all of
// its ancestors, so nested layers are never hidden by a hidden container.
// Layers not mentioned keep the visibility they have in the source document.
package combo
