package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/phambaophuc/image-watermark/internal/metrics"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"go.uber.org/zap"
)

func (q *QueueService) processJob(ctx context.Context, job *models.WatermarkJob) (*models.ProcessedImage, error) {
	cacheKey := q.store.GenerateCacheKey(job.ImageURL, job.Spec, job.Export)

	cachedData, err := q.store.GetFromCache(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var cachedResult models.ProcessedImage
		if err := json.Unmarshal(cachedData, &cachedResult); err == nil {
			cachedResult.ID = job.ID
			return &cachedResult, nil
		}
		q.logger.Warn("Failed to unmarshal cached data", zap.Error(err))
	}

	imageData, _, err := q.download(ctx, job.ImageURL, q.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	start := time.Now()
	out, err := q.pipeline.Process(bytes.NewReader(imageData), job.Spec, job.Export)
	metrics.ObserveWatermark(string(job.Spec.Kind), err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to watermark image: %w", err)
	}

	filename := utils.ExportFilename(sourceName(job.ImageURL), out.Format.Extension(), start)
	uploadedURL, _, err := q.store.Upload(ctx, out.Data.Bytes(), filename, out.Format.ContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to save watermarked image: %w", err)
	}

	result := &models.ProcessedImage{
		ID:          job.ID,
		OriginalURL: job.ImageURL,
		ProcessedAt: time.Now(),
		Size:        models.ImageSize{Width: out.Size.X, Height: out.Size.Y},
		Format:      out.Format,
		URL:         uploadedURL,
		FileSize:    int64(out.Data.Len()),
	}

	resultBytes, _ := json.Marshal(result)
	if err := q.store.SetCache(ctx, cacheKey, resultBytes); err != nil {
		q.logger.Warn("Failed to cache result", zap.Error(err))
	}

	return result, nil
}

// sourceName is the last path element of an image URL, or "image".
func sourceName(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
