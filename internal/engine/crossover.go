package engine

import (
	"image"
	"math/rand/v2"
)

// Crossover implements spec.md §4.4: it picks one eligible subtree from
// each parent — internal nodes with at least 3 leaves beneath them,
// paired only when both sides cover the same number of leaves — and
// swaps their internal skeletons (slice directions and shape) to
// produce two offspring. The leaf images themselves never cross over:
// each offspring keeps exactly its own parent's leaves, re-attached to
// the new skeleton's leaf slots in breadth-first, left-to-right order
// (spec.md §4.4 (a)/(c); worked example in §8 scenario 4). Since every
// individual in a population is built from the same shared image
// slice, this is what keeps "each image used exactly once" true after
// crossover — splicing the donor's leaves in as well would duplicate
// images in one offspring and drop them from the other.
//
// If no eligible pair exists, Crossover is a no-op and returns clones
// of the parents unchanged.
func Crossover(a, b *Layout, rng *rand.Rand) (*Layout, *Layout) {
	pairs := eligibleCrossoverPairs(a, b)
	if len(pairs) == 0 {
		return a.Clone(), b.Clone()
	}

	pick := pairs[rng.IntN(len(pairs))]
	child1 := spliceSkeleton(a, pick.aIdx, b, pick.bIdx)
	child2 := spliceSkeleton(b, pick.bIdx, a, pick.aIdx)
	child1.assertInvariants()
	child2.assertInvariants()
	return child1, child2
}

type crossoverPair struct {
	aIdx, bIdx int
}

// eligibleCrossoverPairs enumerates every (subtree of a, subtree of b)
// pair whose roots each have at least 3 leaves beneath them and whose
// leaf counts match exactly — a prerequisite for the offspring to retain
// the original leaf multiset. Pairs are listed in arena index order, so
// a seeded random source picks the same pair on every run.
func eligibleCrossoverPairs(a, b *Layout) []crossoverPair {
	aLeaves := leafCounts(a)
	bLeaves := leafCounts(b)

	byCount := make(map[int][]int, len(bLeaves))
	for idx := range b.nodes {
		if count, ok := bLeaves[idx]; ok && count >= 3 {
			byCount[count] = append(byCount[count], idx)
		}
	}

	var pairs []crossoverPair
	for aIdx := range a.nodes {
		count, ok := aLeaves[aIdx]
		if !ok || count < 3 {
			continue
		}
		for _, bIdx := range byCount[count] {
			pairs = append(pairs, crossoverPair{aIdx: aIdx, bIdx: bIdx})
		}
	}
	return pairs
}

// leafCounts returns, for every internal node index, the number of
// leaves in its subtree.
func leafCounts(l *Layout) map[int]int {
	counts := make(map[int]int, l.InternalCount())
	var walk func(idx int) int
	walk = func(idx int) int {
		n := &l.nodes[idx]
		if n.kind == leafKind {
			return 1
		}
		total := walk(n.left) + walk(n.right)
		counts[idx] = total
		return total
	}
	walk(l.root)
	return counts
}

// spliceSkeleton builds receiver's offspring: the subtree rooted at
// receiverIdx is replaced by a new subtree that has donor's internal
// skeleton (the shape and slice directions of the subtree rooted at
// donorIdx) but receiver's own leaf images, refilled into the new
// skeleton's leaf slots in the same breadth-first, left-to-right order
// ToBlueprint/FromBlueprint use elsewhere (spec.md §4.2, §4.4). Donor's
// leaf images never enter the offspring.
//
// eligibleCrossoverPairs already guarantees donorIdx's subtree has
// exactly as many leaves as receiverIdx's, so FromBlueprint always has
// precisely enough images to fill the transplanted skeleton.
func spliceSkeleton(receiver *Layout, receiverIdx int, donor *Layout, donorIdx int) *Layout {
	skeleton := ToBlueprint(subtreeLayout(donor, donorIdx))
	leaves := leavesInBFSOrder(receiver, receiverIdx)

	newSubtree, err := FromBlueprint(skeleton, leaves)
	if err != nil {
		panic("engine: crossover rebuilt a subtree with a mismatched leaf count: " + err.Error())
	}

	return graftSubtree(receiver, receiverIdx, newSubtree)
}

// subtreeLayout copies the subtree of l rooted at idx into a standalone
// Layout, so ToBlueprint can serialize just that subtree's skeleton
// rather than the whole tree. The returned layout's Canvas is
// meaningless and ignored by callers — only its root and nodes matter.
func subtreeLayout(l *Layout, idx int) *Layout {
	out := &Layout{nodes: make([]node, 0), root: -1, Canvas: l.Canvas}

	var copyNode func(srcIdx, parent int) int
	copyNode = func(srcIdx, parent int) int {
		n := l.nodes[srcIdx]
		newIdx := len(out.nodes)
		out.nodes = append(out.nodes, node{kind: n.kind, direction: n.direction, image: n.image, parent: parent, left: -1, right: -1})
		if n.kind == internalKind {
			left := copyNode(n.left, newIdx)
			right := copyNode(n.right, newIdx)
			out.nodes[newIdx].left = left
			out.nodes[newIdx].right = right
		}
		return newIdx
	}

	out.root = copyNode(idx, -1)
	return out
}

// leavesInBFSOrder returns the leaf images beneath rootIdx, in the same
// breadth-first, left-to-right order FromBlueprint fills empty slots in
// — the order a skeleton transplanted from elsewhere expects its leaves
// supplied in.
func leavesInBFSOrder(l *Layout, rootIdx int) []image.Image {
	var leaves []image.Image
	queue := []int{rootIdx}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		n := &l.nodes[idx]
		for _, child := range [2]int{n.left, n.right} {
			if l.nodes[child].kind == leafKind {
				leaves = append(leaves, l.nodes[child].image)
			} else {
				queue = append(queue, child)
			}
		}
	}
	return leaves
}

// graftSubtree copies target top-down into a fresh, compacted arena,
// except that the subtree rooted at replaceIdx is skipped and
// replacement's tree is spliced in its place instead.
//
// Because children are addressed by explicit slot (node.left/node.right)
// rather than by edge-insertion order, the replacement always lands in
// the same slot — left or right — the original subtree occupied; no
// separate child-order-correction pass is needed the way it would be
// for a graph library whose neighbor order follows insertion order.
func graftSubtree(target *Layout, replaceIdx int, replacement *Layout) *Layout {
	out := &Layout{
		nodes:  make([]node, 0, len(target.nodes)),
		root:   -1,
		Canvas: target.Canvas,
	}

	var copyFrom func(src *Layout, srcIdx int, parent int) int
	copyFrom = func(src *Layout, srcIdx int, parent int) int {
		if src == target && srcIdx == replaceIdx {
			return copyFrom(replacement, replacement.root, parent)
		}

		n := src.nodes[srcIdx]
		newIdx := len(out.nodes)
		out.nodes = append(out.nodes, node{kind: n.kind, direction: n.direction, image: n.image, parent: parent, left: -1, right: -1})

		if n.kind == internalKind {
			left := copyFrom(src, n.left, newIdx)
			right := copyFrom(src, n.right, newIdx)
			out.nodes[newIdx].left = left
			out.nodes[newIdx].right = right
		}
		return newIdx
	}

	out.root = copyFrom(target, target.root, -1)
	return out
}
