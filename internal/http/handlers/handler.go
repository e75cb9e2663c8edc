package handlers

import (
	"context"
	"io"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/preset"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"go.uber.org/zap"
)

const (
	imageParamKey     = "image"
	watermarkParamKey = "watermark"
	specParamKey      = "spec"
	presetParamKey    = "preset"
	exportParamKey    = "export"
	storeParamKey     = "store"
)

// Watermarker is the single-image pipeline.
type Watermarker interface {
	ValidateImage(file io.ReadSeeker, maxSize int64) error
	Process(r io.Reader, spec models.WatermarkSpec, settings models.ExportSettings) (*processor.Output, error)
}

type BatchExporter interface {
	Export(ctx context.Context, sources []string, outDir string, spec models.WatermarkSpec, settings models.ExportSettings) models.BatchSummary
}

// Storage is the object store, result cache and job registry.
type Storage interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	GenerateCacheKey(source string, spec models.WatermarkSpec, settings models.ExportSettings) string
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
	GetJob(ctx context.Context, id string) (*models.WatermarkJob, error)
	HealthCheck(ctx context.Context) map[string]string
}

type JobQueue interface {
	Submit(ctx context.Context, imageURLs []string, spec models.WatermarkSpec, settings models.ExportSettings) ([]*models.WatermarkJob, error)
	GetQueueStats() (map[string]interface{}, error)
	HealthCheck() string
}

type WatermarkHandler struct {
	processor Watermarker
	exporter  BatchExporter
	storage   Storage
	queue     JobQueue
	presets   preset.Store
	logger    *zap.Logger
	config    *config.Config
}

// NewWatermarkHandler wires the HTTP handlers. storage and queue may be nil;
// the endpoints needing them then answer 503.
func NewWatermarkHandler(
	processor Watermarker,
	exporter BatchExporter,
	storage Storage,
	queue JobQueue,
	presets preset.Store,
	logger *zap.Logger,
	config *config.Config,
) *WatermarkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatermarkHandler{
		processor: processor,
		exporter:  exporter,
		storage:   storage,
		queue:     queue,
		presets:   presets,
		logger:    logger,
		config:    config,
	}
}
