// Package collage exposes the host-facing operations spec.md §6 names:
// generating a fresh layout via the evolutionary search, rendering a
// previously-produced blueprint back to pixels, and the two-image fast
// path that bypasses the search entirely.
package collage

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/ravicious/collage/internal/engine"
	"github.com/ravicious/collage/internal/render"
)

// GenerateLayout runs the evolutionary search over images and renders
// its best result.
func GenerateLayout(images []image.Image, params engine.Params, rng *rand.Rand) (*image.NRGBA, engine.Result, error) {
	if len(images) < 2 {
		return nil, engine.Result{}, fmt.Errorf("collage: need at least 2 images, got %d", len(images))
	}
	result, err := engine.Run(images, params, rng)
	if err != nil {
		return nil, result, fmt.Errorf("collage: running search: %w", err)
	}
	return render.Render(result.Layout), result, nil
}

// RenderSpecificLayout reconstructs and renders a previously-produced
// blueprint, without running the search again.
func RenderSpecificLayout(bp engine.Blueprint, images []image.Image) (*image.NRGBA, error) {
	l, err := engine.FromBlueprint(bp, images)
	if err != nil {
		return nil, fmt.Errorf("collage: rendering blueprint: %w", err)
	}
	return render.Render(l), nil
}

// TwoImageFastPath concatenates exactly two images, bypassing the
// search entirely — the "external (two-image fast path)" collaborator
// spec.md §1 and §6 describe. Per spec.md §6: if both images are
// landscape (wider than tall), they're stacked into a portrait result
// instead of widened further into an even more landscape one; otherwise
// they're placed side by side. Either way, mismatched images are placed
// against a white background sized to the larger of the two along the
// non-concatenated axis, aligned to the origin, rather than stretched
// to match.
func TwoImageFastPath(a, b image.Image) *image.NRGBA {
	if isLandscape(a) && isLandscape(b) {
		return stackVertically(a, b)
	}
	return concatHorizontally(a, b)
}

func isLandscape(img image.Image) bool {
	b := img.Bounds()
	return b.Dx() > b.Dy()
}

func concatHorizontally(a, b image.Image) *image.NRGBA {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()

	height := ah
	if bh > height {
		height = bh
	}

	canvas := imaging.New(aw+bw, height, color.White)
	canvas = imaging.Paste(canvas, a, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, b, image.Pt(aw, 0))
	return canvas
}

func stackVertically(a, b image.Image) *image.NRGBA {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()

	width := aw
	if bw > width {
		width = bw
	}

	canvas := imaging.New(width, ah+bh, color.White)
	canvas = imaging.Paste(canvas, a, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, b, image.Pt(0, ah))
	return canvas
}
