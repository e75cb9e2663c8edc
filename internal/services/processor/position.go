package processor

import (
	"image"

	"github.com/phambaophuc/image-watermark/internal/models"
)

// DefaultMargin is the distance kept between an edge-anchored watermark and
// the canvas border.
const DefaultMargin = 10

// ResolvePosition returns the top-left corner at which an overlay of the
// given size is placed for anchor. The result may be negative when the
// overlay is larger than the canvas; pasting clips it. Unknown anchors are
// treated as center.
func ResolvePosition(anchor models.Anchor, canvasW, canvasH, overlayW, overlayH, margin int) image.Point {
	left := margin
	top := margin
	centerX := floorHalf(canvasW - overlayW)
	centerY := floorHalf(canvasH - overlayH)
	right := canvasW - overlayW - margin
	bottom := canvasH - overlayH - margin

	switch anchor {
	case models.AnchorTopLeft:
		return image.Pt(left, top)
	case models.AnchorTopCenter:
		return image.Pt(centerX, top)
	case models.AnchorTopRight:
		return image.Pt(right, top)
	case models.AnchorMiddleLeft:
		return image.Pt(left, centerY)
	case models.AnchorMiddleRight:
		return image.Pt(right, centerY)
	case models.AnchorBottomLeft:
		return image.Pt(left, bottom)
	case models.AnchorBottomCenter:
		return image.Pt(centerX, bottom)
	case models.AnchorBottomRight:
		return image.Pt(right, bottom)
	default:
		return image.Pt(centerX, centerY)
	}
}

// floorHalf divides by two rounding toward negative infinity.
func floorHalf(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}
