package engine

import "math/rand/v2"

// Mutate clones l and applies one of the four mutations in spec.md §4.3,
// chosen uniformly at random.
func Mutate(l *Layout, rng *rand.Rand) *Layout {
	mutated := l.Clone()
	switch rng.IntN(4) {
	case 0:
		SwapRandomNodePair(mutated, rng)
	case 1:
		RandomizeWidth(mutated, rng)
	case 2:
		RandomizeHeight(mutated, rng)
	case 3:
		RandomizeDimensionsByEqualFactor(mutated, rng)
	}
	return mutated
}

// SwapRandomNodePair picks any node uniformly at random and swaps its
// label per spec.md §4.3.
func SwapRandomNodePair(l *Layout, rng *rand.Rand) {
	idx := rng.IntN(len(l.nodes))
	SwapNodeAt(l, idx, rng)
}

// SwapNodeAt swaps the label of the node at idx with a different-labeled
// node of the same kind: internal↔internal with a different slice
// direction, or leaf↔leaf with a different index.
//
// Fallback rule: if idx names an internal node but no other internal
// node has a different direction (all share a direction, or it is the
// only internal node), the mutation recurses as a leaf-swap, so every
// mutation observably changes the genome.
func SwapNodeAt(l *Layout, idx int, rng *rand.Rand) {
	if l.nodes[idx].kind == leafKind {
		swapLeafPair(l, rng, idx)
		return
	}

	direction := l.nodes[idx].direction
	var candidates []int
	for i := range l.nodes {
		if i != idx && l.nodes[i].kind == internalKind && l.nodes[i].direction != direction {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		swapLeafPair(l, rng, -1)
		return
	}

	other := candidates[rng.IntN(len(candidates))]
	l.nodes[idx].direction, l.nodes[other].direction = l.nodes[other].direction, l.nodes[idx].direction
}

// swapLeafPair swaps the images of two distinct leaves. If first is a
// valid leaf index it is used as one side of the swap; otherwise both
// leaves are chosen at random.
func swapLeafPair(l *Layout, rng *rand.Rand, first int) {
	leafIndices := make([]int, 0, l.LeafCount())
	for i := range l.nodes {
		if l.nodes[i].kind == leafKind {
			leafIndices = append(leafIndices, i)
		}
	}
	if len(leafIndices) < 2 {
		return
	}

	a := first
	if a == -1 {
		a = leafIndices[rng.IntN(len(leafIndices))]
	}

	var others []int
	for _, idx := range leafIndices {
		if idx != a {
			others = append(others, idx)
		}
	}
	b := others[rng.IntN(len(others))]

	l.nodes[a].image, l.nodes[b].image = l.nodes[b].image, l.nodes[a].image
}

// RandomizeWidth draws Δ uniformly from [-(w-1), 2h] and sets
// canvas.width = w + Δ, bounded to stay ≥ 1.
func RandomizeWidth(l *Layout, rng *rand.Rand) {
	w, h := int(l.Canvas.Width), int(l.Canvas.Height)
	delta := randIntRange(rng, -(w - 1), 2*h)
	l.Canvas.Width = uint32(max(1, w+delta))
}

// RandomizeHeight draws Δ uniformly from [-(h-1), 2w] and sets
// canvas.height = h + Δ, bounded to stay ≥ 1.
func RandomizeHeight(l *Layout, rng *rand.Rand) {
	w, h := int(l.Canvas.Width), int(l.Canvas.Height)
	delta := randIntRange(rng, -(h - 1), 2*w)
	l.Canvas.Height = uint32(max(1, h+delta))
}

// RandomizeDimensionsByEqualFactor draws f uniformly from [0.5, 1.5] and
// scales both canvas dimensions by f.
func RandomizeDimensionsByEqualFactor(l *Layout, rng *rand.Rand) {
	f := 0.5 + rng.Float64()
	l.Canvas.Width = uint32(max(1, int(f*float64(l.Canvas.Width))))
	l.Canvas.Height = uint32(max(1, int(f*float64(l.Canvas.Height))))
}

// randIntRange returns a uniform random int in [lo, hi], inclusive.
func randIntRange(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.IntN(hi-lo+1)
}
