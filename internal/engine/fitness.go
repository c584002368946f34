package engine

// Cost computes the scalar layout quality from spec.md §4.5. Smaller is
// better; 0 is the admissible minimum.
//
//	cost = |leaves| * scale_factor + coverage_deficit
//
// scale_factor sums each leaf's relative scale distortion; coverage_deficit
// is the fraction of the canvas left uncovered. coverage_deficit can be
// slightly negative when rendered rectangles overshoot the canvas
// (legal under the dimensioning rules in spec.md §4.1) — spec.md §9
// preserves this as "extra good" rather than treating it as an error.
func (l *Layout) Cost() float64 {
	scaleFactor, coverageDeficit, leafCount := l.scaleFactorAndCoverageDeficit()
	return float64(leafCount)*scaleFactor + coverageDeficit
}

// CostLegacy computes the alternate formula retained only for comparison
// reports (spec.md §4.5); it must never drive selection.
func (l *Layout) CostLegacy() float64 {
	scaleFactor, coverageDeficit, leafCount := l.scaleFactorAndCoverageDeficit()
	return scaleFactor + float64(leafCount)*coverageDeficit
}

func (l *Layout) scaleFactorAndCoverageDeficit() (scaleFactor, coverageDeficit float64, leafCount int) {
	leaves := l.LeafNodes()
	canvasArea := float64(l.Canvas.Size())

	var coveredArea float64
	for _, leaf := range leaves {
		renderedArea := float64(leaf.Dimensions().Size())
		originalArea := float64(dimensionsOf(leaf.Image()).Size())

		coveredArea += renderedArea
		scaleFactor += abs(renderedArea-originalArea) / originalArea
	}

	coverageDeficit = 1 - coveredArea/canvasArea
	return scaleFactor, coverageDeficit, len(leaves)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
