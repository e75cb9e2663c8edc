package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Composite merges overlay onto base with the alpha-over rule and returns a
// new image; neither input is modified. Both layers must have the same size.
func Composite(base, overlay *image.NRGBA) (*image.NRGBA, error) {
	if base.Bounds().Size() != overlay.Bounds().Size() {
		return nil, fmt.Errorf("%w: base %v, overlay %v",
			ErrSizeMismatch, base.Bounds().Size(), overlay.Bounds().Size())
	}

	result := imaging.Clone(base)
	size := result.Bounds().Size()
	for y := 0; y < size.Y; y++ {
		dstRow := result.Pix[y*result.Stride : y*result.Stride+size.X*4]
		srcRow := overlay.Pix[y*overlay.Stride : y*overlay.Stride+size.X*4]
		for i := 0; i < len(dstRow); i += 4 {
			blendOver(dstRow[i:i+4:i+4], srcRow[i:i+4:i+4])
		}
	}
	return result, nil
}

// pasteOver draws src onto dst with its top-left corner at pt, using src's
// own alpha as the mask. Parts falling outside dst are clipped.
func pasteOver(dst, src *image.NRGBA, pt image.Point) {
	srcBounds := src.Bounds()
	target := image.Rectangle{Min: pt, Max: pt.Add(srcBounds.Size())}.Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	for y := target.Min.Y; y < target.Max.Y; y++ {
		sy := srcBounds.Min.Y + y - pt.Y
		for x := target.Min.X; x < target.Max.X; x++ {
			sx := srcBounds.Min.X + x - pt.X
			di := dst.PixOffset(x, y)
			si := src.PixOffset(sx, sy)
			blendOver(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
		}
	}
}

// blendOver composites one straight-alpha src pixel over dst in place.
// The math runs on normalized floats and rounds once on store.
func blendOver(dst, src []uint8) {
	switch src[3] {
	case 0:
		return
	case 255:
		copy(dst, src)
		return
	}

	sa := float64(src[3]) / 255
	da := float64(dst[3]) / 255
	ra := sa + da*(1-sa)
	if ra <= 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}

	for c := 0; c < 3; c++ {
		v := (float64(src[c])*sa + float64(dst[c])*da*(1-sa)) / ra
		dst[c] = clampUint8(v)
	}
	dst[3] = clampUint8(ra * 255)
}

func clampUint8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
