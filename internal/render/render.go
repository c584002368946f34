// Package render turns a layout into pixels: it walks every leaf's
// rectangle and position (spec.md §4.7), Lanczos-resamples the source
// image to fit, and blits it onto the canvas.
package render

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ravicious/collage/internal/engine"
)

// Render composes l's leaves onto a single RGBA canvas sized to the
// root node's realized rectangle (spec.md §4.7), not l.Canvas — l.Canvas
// is only the construction-time hint the tree was sampled against, and
// is typically strictly larger than what the root actually resolves to.
// Sizing to l.Canvas instead would pad the result with a visible border
// spec.md §9 rejects as not improving the search.
func Render(l *engine.Layout) *image.NRGBA {
	rootDim := l.Root().Dimensions()
	canvas := imaging.New(int(rootDim.Width), int(rootDim.Height), image.Transparent)

	for _, leaf := range l.LeafNodes() {
		dim := leaf.Dimensions()
		pos := leaf.Position()

		resized := imaging.Resize(leaf.Image(), int(dim.Width), int(dim.Height), imaging.Lanczos)
		canvas = imaging.Paste(canvas, resized, image.Pt(pos.X, pos.Y))
	}

	return canvas
}
