package processor

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-watermark/internal/models"
)

// Encode resizes img per settings and writes it as JPEG or PNG. JPEG output
// is flattened onto white since the format has no alpha channel.
func Encode(w io.Writer, img image.Image, settings models.ExportSettings) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", ErrEncode)
	}

	format := models.FormatJPEG
	if settings.Format != "" {
		parsed, ok := models.ParseFormat(string(settings.Format))
		if !ok {
			return fmt.Errorf("%w: unsupported format %q", ErrEncode, settings.Format)
		}
		format = parsed
	}

	quality := settings.Quality
	if quality == 0 {
		quality = models.DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("%w: quality %d out of range 1-100", ErrEncode, quality)
	}

	img = resizeImage(img, settings.Resize)

	var err error
	switch format {
	case models.FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	default:
		err = imaging.Encode(w, flatten(img, color.White), imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// flatten composites img onto an opaque background of the same size.
func flatten(img image.Image, background color.Color) *image.NRGBA {
	b := img.Bounds()
	return imaging.Overlay(imaging.New(b.Dx(), b.Dy(), background), img, image.Pt(0, 0), 1.0)
}
