package processor

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_PNGRoundTripIsExact(t *testing.T) {
	src := gradientImage(64, 48)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, models.ExportSettings{Format: models.FormatPNG}))

	decoded, err := imaging.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, imaging.Clone(decoded).Pix)
}

func TestEncode_JPEGIsCloseToSource(t *testing.T) {
	src := solidImage(32, 32, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, models.ExportSettings{Format: models.FormatJPEG, Quality: 95}))

	decoded, err := imaging.Decode(&buf)
	require.NoError(t, err)
	got := imaging.Clone(decoded).NRGBAAt(16, 16)
	assert.InDelta(t, 200, got.R, 4)
	assert.InDelta(t, 100, got.G, 4)
	assert.InDelta(t, 50, got.B, 4)
}

func TestEncode_JPEGFlattensOntoWhite(t *testing.T) {
	src := solidImage(16, 16, color.NRGBA{})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, models.ExportSettings{Format: "jpg"}))

	decoded, err := imaging.Decode(&buf)
	require.NoError(t, err)
	got := imaging.Clone(decoded).NRGBAAt(8, 8)
	assert.GreaterOrEqual(t, got.R, uint8(250))
	assert.GreaterOrEqual(t, got.G, uint8(250))
	assert.GreaterOrEqual(t, got.B, uint8(250))
}

func TestEncode_Resize(t *testing.T) {
	src := solidImage(400, 200, color.NRGBA{R: 10, A: 255})

	var buf bytes.Buffer
	settings := models.ExportSettings{
		Format: models.FormatPNG,
		Resize: &models.ResizeSettings{Width: 100, KeepAspect: true},
	}
	require.NoError(t, Encode(&buf, src, settings))

	cfg, _, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestEncode_Errors(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{A: 255})

	tests := []struct {
		name     string
		img      image.Image
		settings models.ExportSettings
	}{
		{"nil image", nil, models.DefaultExportSettings()},
		{"empty image", image.NewNRGBA(image.Rect(0, 0, 0, 0)), models.DefaultExportSettings()},
		{"unsupported format", img, models.ExportSettings{Format: "gif"}},
		{"quality too high", img, models.ExportSettings{Format: models.FormatJPEG, Quality: 101}},
		{"quality negative", img, models.ExportSettings{Format: models.FormatJPEG, Quality: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Encode(&buf, tt.img, tt.settings)
			require.ErrorIs(t, err, ErrEncode)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestResolveSize(t *testing.T) {
	src := image.Pt(800, 600)

	tests := []struct {
		name string
		req  *models.ResizeSettings
		want image.Point
	}{
		{"no resize", nil, src},
		{"zero request", &models.ResizeSettings{}, src},
		{"exact", &models.ResizeSettings{Width: 100, Height: 100}, image.Pt(100, 100)},
		{"width only", &models.ResizeSettings{Width: 400}, image.Pt(400, 600)},
		{"width keeps aspect", &models.ResizeSettings{Width: 400, Height: 999, KeepAspect: true}, image.Pt(400, 300)},
		{"height keeps aspect", &models.ResizeSettings{Height: 300, KeepAspect: true}, image.Pt(400, 300)},
		{"truncates", &models.ResizeSettings{Width: 333, KeepAspect: true}, image.Pt(333, 249)},
		{"never collapses", &models.ResizeSettings{Width: 1, KeepAspect: true}, image.Pt(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSize(src, tt.req))
		})
	}
}
