package processor

import (
	"image"

	"github.com/phambaophuc/image-watermark/internal/models"
)

// PlaceWatermark returns a transparent layer of the given size carrying
// fragment either once at anchor or repeated on a grid with the given pitch
// starting at the origin.
func PlaceWatermark(size image.Point, fragment *image.NRGBA, tile bool, spacing int, anchor models.Anchor, margin int) *image.NRGBA {
	overlay := image.NewNRGBA(image.Rectangle{Max: size})
	fw, fh := fragment.Bounds().Dx(), fragment.Bounds().Dy()

	if !tile {
		pt := ResolvePosition(anchor, size.X, size.Y, fw, fh, margin)
		pasteOver(overlay, fragment, pt)
		return overlay
	}

	spacing = max(1, spacing)
	for x := 0; x < size.X+fw; x += spacing {
		for y := 0; y < size.Y+fh; y += spacing {
			pasteOver(overlay, fragment, image.Pt(x, y))
		}
	}
	return overlay
}
