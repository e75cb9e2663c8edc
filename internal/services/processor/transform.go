package processor

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// LoadWatermark reads the watermark bitmap at path. Any failure is reported
// as ErrWatermarkAsset; an unreadable file additionally matches ErrDecode.
func LoadWatermark(path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no watermark image configured", ErrWatermarkAsset)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatermarkAsset, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrWatermarkAsset, path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w: %w", ErrWatermarkAsset, path, ErrDecode, err)
	}
	return img, nil
}

// TransformWatermark scales, fades and rotates a watermark bitmap, in that
// order. Positive rotation is counter-clockwise; the canvas grows so that no
// corner is clipped and the exposed area is transparent.
func TransformWatermark(img image.Image, scalePercent, opacityPercent, rotationDegrees int) *image.NRGBA {
	if scalePercent <= 0 {
		scalePercent = 100
	}

	src := img.Bounds()
	w := max(1, src.Dx()*scalePercent/100)
	h := max(1, src.Dy()*scalePercent/100)

	var out *image.NRGBA
	if w == src.Dx() && h == src.Dy() {
		out = imaging.Clone(img)
	} else {
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	if opacityPercent != 100 {
		scaleAlpha(out, opacityPercent)
	}

	if rotationDegrees != 0 {
		out = imaging.Rotate(out, float64(rotationDegrees), color.Transparent)
	}
	return out
}

// scaleAlpha multiplies every alpha sample by pct/100, truncating. Color
// samples are left as they are.
func scaleAlpha(img *image.NRGBA, pct int) {
	pct = max(0, min(100, pct))
	size := img.Bounds().Size()
	for y := 0; y < size.Y; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+size.X*4]
		for i := 3; i < len(row); i += 4 {
			row[i] = uint8(int(row[i]) * pct / 100)
		}
	}
}
