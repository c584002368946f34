// Package orientation reads an image's EXIF orientation tag and applies
// the canonical correction for it.
//
// original_source/image-processor/src/lib.rs's `fix_if_needed` rotated
// by 90° and flipped for every tag ≥ 5, which is wrong for tag 6
// (rotate only, no flip) and tag 8 (rotate the other way); spec.md §9's
// REDESIGN FLAG asks for the full per-tag table instead, so that's what
// this package implements.
package orientation

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Tag is an EXIF orientation value, 1 through 8. Tag 1 (or no tag at
// all) needs no correction.
type Tag int

// Read extracts the EXIF orientation tag from data, defaulting to 1
// (no correction needed) if the data carries no EXIF segment or no
// orientation tag at all — that is normal for PNG/GIF input, not an
// error.
func Read(data []byte) Tag {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	field, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := field.Int(0)
	if err != nil || value < 1 || value > 8 {
		return 1
	}
	return Tag(value)
}

// Fix applies the canonical transform for tag to img. Tag 1 (and any
// value Read would never produce) is the identity transform.
func Fix(img image.Image, tag Tag) image.Image {
	switch tag {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// FixIfNeeded reads data's orientation tag and applies the matching
// correction to img, the decoded form of the same data.
func FixIfNeeded(data []byte, img image.Image) image.Image {
	return Fix(img, Read(data))
}
