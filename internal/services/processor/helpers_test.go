package processor

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func newTestProcessor(t *testing.T) *ImageProcessor {
	t.Helper()

	return NewImageProcessor(NewFontResolver(nil, WithFontDirs(t.TempDir())))
}

func countPixels(img *image.NRGBA, r image.Rectangle, match func(c color.NRGBA) bool) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if match(img.NRGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeBytes(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
