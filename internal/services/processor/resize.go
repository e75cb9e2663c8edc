package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-watermark/internal/models"
)

// ResolveSize computes the export dimensions for an image of size src. With
// KeepAspect set the height follows the width, or the width follows the
// height when no width was given. Unset dimensions keep the source value.
func ResolveSize(src image.Point, req *models.ResizeSettings) image.Point {
	if req == nil {
		return src
	}

	width, height := req.Width, req.Height
	if req.KeepAspect && src.X > 0 && src.Y > 0 {
		switch {
		case width > 0:
			height = max(1, int(float64(width)*float64(src.Y)/float64(src.X)))
		case height > 0:
			width = max(1, int(float64(height)*float64(src.X)/float64(src.Y)))
		}
	}

	if width <= 0 {
		width = src.X
	}
	if height <= 0 {
		height = src.Y
	}
	return image.Pt(max(1, width), max(1, height))
}

// resizeImage resizes the image using Lanczos resampling
func resizeImage(img image.Image, req *models.ResizeSettings) image.Image {
	size := ResolveSize(img.Bounds().Size(), req)
	if size == img.Bounds().Size() {
		return img
	}
	return imaging.Resize(img, size.X, size.Y, imaging.Lanczos)
}
