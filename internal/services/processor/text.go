package processor

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/phambaophuc/image-watermark/internal/models"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// MinFontSize is the smallest pixel size text is rendered at.
	MinFontSize = 12

	regionWidthRatio  = 0.9
	regionHeightRatio = 0.2

	// stampRadius is the neighborhood used to thicken bitmap-face text.
	stampRadius = 2
)

// TextRegion returns the rectangle of a text watermark on a canvas of the
// given size: 90% of the width, 20% of the height, placed at anchor.
func TextRegion(size image.Point, anchor models.Anchor, margin int) image.Rectangle {
	w := int(float64(size.X) * regionWidthRatio)
	h := int(float64(size.Y) * regionHeightRatio)
	pt := ResolvePosition(anchor, size.X, size.Y, w, h, margin)
	return image.Rectangle{Min: pt, Max: pt.Add(image.Pt(w, h))}
}

// FontSize scales the requested point size to the text region.
func FontSize(pointSize int, region image.Point, text string) int {
	scale := float64(region.Y) / 100
	if n := utf8.RuneCountInString(text); n > 0 {
		scale = min(scale, float64(region.X)/float64(n*10))
	}
	return max(MinFontSize, int(float64(pointSize)*scale*1.5))
}

// RenderText draws a text watermark onto a fresh transparent layer of the
// given size: a translucent white box over the text region and the text
// centered inside it.
func (p *ImageProcessor) RenderText(size image.Point, spec models.WatermarkSpec) *image.NRGBA {
	overlay := image.NewNRGBA(image.Rectangle{Max: size})
	region := TextRegion(size, spec.Anchor, p.margin)

	fillRect(overlay, region, color.NRGBA{R: 255, G: 255, B: 255, A: models.PercentToAlpha(spec.BackgroundOpacity)})

	if spec.Text == "" {
		return overlay
	}

	ink := color.NRGBA{
		R: spec.Color.R,
		G: spec.Color.G,
		B: spec.Color.B,
		A: models.PercentToAlpha(spec.TextOpacity),
	}

	resolved := p.fonts.Resolve(spec.Font.Family, float64(FontSize(spec.Font.PointSize, region.Size(), spec.Text)))
	defer resolved.Face.Close()

	if missing := resolved.MissingGlyphs(spec.Text); len(missing) > 0 {
		p.logger.Info("Font has no glyphs for part of the watermark text",
			zap.String("family", spec.Font.Family),
			zap.String("source", resolved.Source),
			zap.String("missing", string(missing)))
	}

	mask := image.NewAlpha(overlay.Bounds())
	if resolved.Degraded {
		drawStamped(mask, region, spec.Text, resolved.Face)
	} else {
		drawCentered(mask, region, spec.Text, resolved.Face)
	}

	fillMask(overlay, mask, ink)
	return overlay
}

// fillMask moves every channel of dst toward c by the mask coverage, alpha
// included. Fully covered pixels become exactly c; uncovered ones are left
// alone.
func fillMask(dst *image.NRGBA, mask *image.Alpha, c color.NRGBA) {
	ink := [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)}
	r := mask.Bounds().Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			for ch := 0; ch < 4; ch++ {
				d := uint32(dst.Pix[i+ch])
				dst.Pix[i+ch] = uint8((ink[ch]*m + d*(255-m) + 127) / 255)
			}
		}
	}
}

// drawCentered rasterizes text into mask with its ink bounds in the middle
// of region. Text wider than the region overflows; it is neither wrapped nor
// shrunk.
func drawCentered(mask *image.Alpha, region image.Rectangle, text string, face font.Face) {
	bounds, _ := font.BoundString(face, text)
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	x := region.Min.X + floorHalf(region.Dx()-textW)
	y := region.Min.Y + floorHalf(region.Dy()-textH)

	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x) - bounds.Min.X, Y: fixed.I(y) - bounds.Min.Y},
	}
	d.DrawString(text)
}

// drawStamped approximates bold text with a fixed-size bitmap face by
// drawing it at every offset in a small square around the nominal origin.
func drawStamped(mask *image.Alpha, region image.Rectangle, text string, face font.Face) {
	x := region.Min.X + region.Dx()/4
	y := region.Min.Y + region.Dy()/4 + face.Metrics().Ascent.Ceil()

	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	for dx := -stampRadius; dx <= stampRadius; dx++ {
		for dy := -stampRadius; dy <= stampRadius; dy++ {
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
}

// fillRect sets every pixel of r (clipped to dst) to c.
func fillRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
		}
	}
}
