package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-watermark/internal/models"
	"go.uber.org/zap"
)

// ImageProcessor runs the watermark pipeline. It holds no per-image state,
// so one processor can serve many goroutines.
type ImageProcessor struct {
	fonts  *FontResolver
	margin int
	logger *zap.Logger
}

type Option func(*ImageProcessor)

// WithMargin sets the edge distance used for anchored placement.
func WithMargin(margin int) Option {
	return func(p *ImageProcessor) {
		p.margin = margin
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *ImageProcessor) {
		p.logger = logger
	}
}

func NewImageProcessor(fonts *FontResolver, opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		fonts:  fonts,
		margin: DefaultMargin,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fonts == nil {
		p.fonts = NewFontResolver(p.logger)
	}
	return p
}

// Output is an encoded watermarked image.
type Output struct {
	Data   *bytes.Buffer
	Format models.ImageFormat
	Size   image.Point
}

// Compose builds the watermark layer for spec and merges it onto src. The
// source image is not modified.
func (p *ImageProcessor) Compose(src image.Image, spec models.WatermarkSpec) (*image.NRGBA, error) {
	base := imaging.Clone(src)
	size := base.Bounds().Size()

	var overlay *image.NRGBA
	switch spec.Kind {
	case models.KindText:
		overlay = p.RenderText(size, spec)
	case models.KindImage:
		mark, err := LoadWatermark(spec.ImagePath)
		if err != nil {
			return nil, err
		}
		fragment := TransformWatermark(mark, spec.ScalePercent, models.ClampPercent(spec.OpacityPercent), spec.RotationDegrees)
		overlay = PlaceWatermark(size, fragment, spec.Tile, spec.TileSpacing, spec.Anchor, p.margin)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, spec.Kind)
	}

	return Composite(base, overlay)
}

// Process decodes the source read from r, watermarks it and encodes the
// result. No bytes are returned when any stage fails.
func (p *ImageProcessor) Process(r io.Reader, spec models.WatermarkSpec, settings models.ExportSettings) (*Output, error) {
	src, err := decodeImage(r)
	if err != nil {
		return nil, err
	}

	result, err := p.Compose(src, spec)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	if err := Encode(buffer, result, settings); err != nil {
		return nil, err
	}

	p.logger.Debug("Image watermarked",
		zap.String("kind", string(spec.Kind)),
		zap.Int("width", result.Bounds().Dx()),
		zap.Int("height", result.Bounds().Dy()),
		zap.Int("bytes", buffer.Len()))

	return &Output{
		Data:   buffer,
		Format: settings.Format.Normalize(),
		Size:   ResolveSize(result.Bounds().Size(), settings.Resize),
	}, nil
}

// ProcessFile is Process for an image on disk.
func (p *ImageProcessor) ProcessFile(path string, spec models.WatermarkSpec, settings models.ExportSettings) (*Output, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()

	return p.Process(file, spec, settings)
}
