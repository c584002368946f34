package engine

import "testing"

func TestEqualIsReflexive(t *testing.T) {
	rng := newTestRNG()
	l := New(fakeImages(rng, 6), rng)
	if !Equal(l, l) {
		t.Errorf("a layout does not compare equal to itself")
	}
	if !Equal(l, l.Clone()) {
		t.Errorf("a clone does not compare equal to its original")
	}
}

func TestEqualIsSymmetric(t *testing.T) {
	rng := newTestRNG()
	a := New(fakeImages(rng, 5), rng)
	b := a.Clone()
	if Equal(a, b) != Equal(b, a) {
		t.Errorf("Equal is not symmetric for equal layouts")
	}

	c := New(fakeImages(rng, 5), rng)
	if Equal(a, c) != Equal(c, a) {
		t.Errorf("Equal is not symmetric for unequal layouts")
	}
}

func TestEqualIsTransitive(t *testing.T) {
	rng := newTestRNG()
	a := New(fakeImages(rng, 5), rng)
	b := a.Clone()
	c := b.Clone()

	if !(Equal(a, b) && Equal(b, c) && Equal(a, c)) {
		t.Errorf("equality is not transitive across clones")
	}
}

func TestEqualRejectsDifferentCanvas(t *testing.T) {
	rng := newTestRNG()
	a := New(fakeImages(rng, 4), rng)
	b := a.Clone()
	b.Canvas.Width++

	if Equal(a, b) {
		t.Errorf("layouts with different canvases compared equal")
	}
}

func TestEqualRejectsReorderedLeaves(t *testing.T) {
	rng := newTestRNG()
	a := New(fakeImages(rng, 4), rng)
	b := a.Clone()

	SwapNodeAt(b, b.LeafNodes()[0].idx, rng)

	if Equal(a, b) {
		t.Errorf("swapping two leaves should break equality, but layouts still compare equal")
	}
}
