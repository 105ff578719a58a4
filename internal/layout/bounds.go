package layout

// ComputeBounds recomputes the bounds rectangle for every node under the
// tree's current root, given the outer rectangle rect. This is the
// critical algorithm from spec.md §4.1: for a Container of span S with
// children weighted by round(ratio_i * 10000), reserve one cell per
// internal border (children-1 borders) and distribute the remaining span
// using the largest-remainder method so integer sizes sum exactly to the
// available span. The distribution is order-independent and
// resize-stable: equal ratios always produce identical sizes regardless
// of terminal width.
func (t *Tree) ComputeBounds(rect Rect) {
	t.computeBounds(t.root, rect)
}

func (t *Tree) computeBounds(id NodeId, rect Rect) {
	n := t.get(id)
	n.bounds = rect
	if n.isPane() {
		return
	}

	numChildren := len(n.children)
	borders := numChildren - 1
	if borders < 0 {
		borders = 0
	}

	var span int
	if n.orient == Vertical {
		span = rect.Width
	} else {
		span = rect.Height
	}
	available := span - borders
	if available < 0 {
		available = 0
	}

	sizes := largestRemainder(n.ratios, available)

	offset := 0
	for i, c := range n.children {
		var childRect Rect
		if n.orient == Vertical {
			childRect = Rect{
				X:      rect.X + offset,
				Y:      rect.Y,
				Width:  sizes[i],
				Height: rect.Height,
			}
		} else {
			childRect = Rect{
				X:      rect.X,
				Y:      rect.Y + offset,
				Width:  rect.Width,
				Height: sizes[i],
			}
		}
		t.computeBounds(c, childRect)
		offset += sizes[i]
		if i < numChildren-1 {
			offset++ // border cell
		}
	}
}

// largestRemainder distributes `total` integer units among weights
// (normalized ratios) so the result sums exactly to total. Each weight
// first gets round(weight * 10000) as its nominal share of a 10000-unit
// whole; those nominal shares are then scaled to `total` using largest
// remainder rounding: every bucket gets the floor of its exact share, and
// the buckets with the largest fractional remainders each receive one
// additional unit until the sum matches total exactly.
func largestRemainder(ratios []float64, total int) []int {
	n := len(ratios)
	if n == 0 {
		return nil
	}
	if total <= 0 {
		return make([]int, n)
	}

	weights := make([]int, n)
	weightSum := 0
	for i, r := range ratios {
		w := int(round(r * 10000))
		if w < 0 {
			w = 0
		}
		weights[i] = w
		weightSum += w
	}
	if weightSum == 0 {
		// Degenerate: fall back to equal weights.
		for i := range weights {
			weights[i] = 1
		}
		weightSum = n
	}

	sizes := make([]int, n)
	remainders := make([]float64, n)
	assigned := 0
	for i, w := range weights {
		exact := float64(w) / float64(weightSum) * float64(total)
		floor := int(exact)
		sizes[i] = floor
		remainders[i] = exact - float64(floor)
		assigned += floor
	}

	remaining := total - assigned
	for remaining > 0 {
		best := -1
		bestRem := -1.0
		for i, r := range remainders {
			if r > bestRem {
				bestRem = r
				best = i
			}
		}
		if best == -1 {
			break
		}
		sizes[best]++
		remainders[best] = -1 // consumed, never picked again
		remaining--
	}
	return sizes
}

func round(f float64) float64 {
	if f < 0 {
		return -round(-f)
	}
	return float64(int(f + 0.5))
}
