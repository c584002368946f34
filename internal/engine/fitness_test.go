package engine

import (
	"image"
	"testing"
)

func TestCostIsZeroForExactCoverageNoDistortion(t *testing.T) {
	// Two square leaves of the same size, stacked vertically: each
	// leaf's rendered rectangle exactly matches its original dimensions,
	// and together they exactly cover the canvas.
	a := fakeImage(100, 100)
	b := fakeImage(100, 100)

	l := &Layout{
		nodes:  make([]node, 0, 3),
		root:   -1,
		Canvas: Dimensions{Width: 100, Height: 200},
	}
	l.root = l.newNode(-1, node{kind: internalKind, direction: Horizontal, left: -1, right: -1})
	l.addChild(l.root, node{kind: leafKind, image: a, left: -1, right: -1})
	l.addChild(l.root, node{kind: leafKind, image: b, left: -1, right: -1})

	if cost := l.Cost(); cost != 0 {
		t.Errorf("got cost %v, want 0 for exact, undistorted coverage", cost)
	}
}

func TestCostPenalizesDistortionAndUncoveredArea(t *testing.T) {
	// Two square leaves stacked vertically fit a 100x200 canvas exactly
	// at their original size. A starved canvas shrinks them (and leaves
	// part of it uncovered); a generous one enlarges them. Scale
	// distortion counts in both directions, so either costs more than
	// the exact fit.
	l := &Layout{
		nodes:  make([]node, 0, 3),
		root:   -1,
		Canvas: Dimensions{Width: 100, Height: 200},
	}
	l.root = l.newNode(-1, node{kind: internalKind, direction: Horizontal, left: -1, right: -1})
	l.addChild(l.root, node{kind: leafKind, image: fakeImage(100, 100), left: -1, right: -1})
	l.addChild(l.root, node{kind: leafKind, image: fakeImage(100, 100), left: -1, right: -1})
	exactFit := l.Cost()

	for _, canvas := range []Dimensions{{Width: 4, Height: 4}, {Width: 4000, Height: 4000}} {
		distorted := l.Clone()
		distorted.Canvas = canvas
		if distorted.Cost() <= exactFit {
			t.Errorf("canvas %+v produced cost %v, not above the exact fit's %v", canvas, distorted.Cost(), exactFit)
		}
	}
}

func TestCostLegacyDiffersFromCost(t *testing.T) {
	rng := newTestRNG()
	l := New(fakeImages(rng, 5), rng)
	l.Canvas = Dimensions{Width: 37, Height: 51}

	cost, legacy := l.Cost(), l.CostLegacy()
	scaleFactor, coverageDeficit, leafCount := l.scaleFactorAndCoverageDeficit()

	if cost != float64(leafCount)*scaleFactor+coverageDeficit {
		t.Errorf("Cost did not match the documented primary formula")
	}
	if legacy != scaleFactor+float64(leafCount)*coverageDeficit {
		t.Errorf("CostLegacy did not match the documented legacy formula")
	}
}

func TestCoverageDeficitIsZeroWhenALeafFillsTheCanvas(t *testing.T) {
	// coverage_deficit = 1 - coveredArea/canvasArea: a leaf whose
	// rendered rectangle is the whole canvas leaves nothing uncovered.
	img := fakeImage(1, 1)
	l := &Layout{
		nodes:  []node{{kind: leafKind, image: img, parent: -1, left: -1, right: -1}},
		root:   0,
		Canvas: Dimensions{Width: 1, Height: 1},
	}

	_, coverageDeficit, _ := l.scaleFactorAndCoverageDeficit()
	if coverageDeficit != 0 {
		t.Errorf("a single leaf exactly filling the canvas should have zero coverage deficit, got %v", coverageDeficit)
	}

	var _ image.Image = img
}
