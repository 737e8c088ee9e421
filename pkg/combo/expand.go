package combo

// Expand returns the cartesian product of axes: every sequence picking one
// item from each axis, in axis order, with the last axis varying fastest.
//
// Axes are expanded from the last to the first, prepending each item of the
// current axis to every already expanded suffix. When the axes after an item
// expand to nothing, the item stands alone. An empty axis therefore cuts the
// product short: the combinations stop at the axis before it. An empty first
// axis, or no axes at all, yields no combinations.
//
// Each returned slice is a separate allocation.
func Expand[S ~[]T, T any](axes []S) [][]T {
	return expand(axes, 0)
}

func expand[S ~[]T, T any](axes []S, idx int) [][]T {
	if idx >= len(axes) {
		return nil
	}

	suffixes := expand(axes, idx+1)
	if len(suffixes) == 0 {
		result := make([][]T, 0, len(axes[idx]))
		for _, item := range axes[idx] {
			result = append(result, []T{item})
		}
		return result
	}

	result := make([][]T, 0, len(axes[idx])*len(suffixes))
	for _, item := range axes[idx] {
		for _, suffix := range suffixes {
			combo := make([]T, 0, len(suffix)+1)
			combo = append(combo, item)
			combo = append(combo, suffix...)
			result = append(result, combo)
		}
	}
	return result
}

// Count returns the number of combinations [Expand] produces for axes
// without materializing them: the product of the axis lengths up to the
// first empty axis, or zero when the first axis is empty or there are none.
func Count[S ~[]T, T any](axes []S) int {
	if len(axes) == 0 || len(axes[0]) == 0 {
		return 0
	}
	n := 1
	for _, a := range axes {
		if len(a) == 0 {
			break
		}
		n *= len(a)
	}
	return n
}
