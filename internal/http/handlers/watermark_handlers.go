package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/image-watermark/internal/metrics"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"go.uber.org/zap"
)

// Watermark applies a watermark to one uploaded image. The encoded result is
// returned as the response body, or uploaded to the object store when the
// store form field is true.
func (h *WatermarkHandler) Watermark(c *gin.Context) {
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	if err := h.processor.ValidateImage(file, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return
	}

	spec, trusted, err := h.resolveSpec(ctx, c.PostForm(presetParamKey), c.PostForm(specParamKey))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	settings, err := h.parseExportSettings(c.PostForm(exportParamKey))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Internal file error")
		return
	}

	cacheParts := [][]byte{data}
	if spec.Kind == models.KindImage {
		markHeader, err := c.FormFile(watermarkParamKey)
		switch {
		case err == nil:
			path, err := saveTempWatermark(markHeader)
			if err != nil {
				h.logger.Error("Failed to store watermark upload", zap.Error(err))
				h.respondError(c, http.StatusInternalServerError, "Internal file error")
				return
			}
			defer os.Remove(path)
			spec.ImagePath = path

			markData, err := os.ReadFile(path)
			if err != nil {
				h.respondError(c, http.StatusInternalServerError, "Internal file error")
				return
			}
			cacheParts = append(cacheParts, markData)
		case !trusted:
			h.respondServiceError(c, errMissingWatermark)
			return
		default:
			cacheParts = append(cacheParts, []byte(spec.ImagePath))
		}
	}

	store := parseBool(c.PostForm(storeParamKey))
	cacheKey := ""
	if h.storage != nil && !store {
		cacheKey = h.storage.GenerateCacheKey("upload:"+digest(cacheParts...), spec, settings)
		if cached, err := h.storage.GetFromCache(ctx, cacheKey); err == nil && cached != nil {
			h.logger.Debug("Cache hit", zap.String("cache_key", cacheKey))
			h.respondWithImage(c, cached, header.Filename, settings.Format)
			return
		}
	}

	start := time.Now()
	out, err := h.processor.Process(bytes.NewReader(data), spec, settings)
	metrics.ObserveWatermark(string(spec.Kind), err, start)
	if err != nil {
		h.logger.Warn("Watermarking failed",
			zap.String("filename", header.Filename),
			zap.Error(err))
		h.respondServiceError(c, err)
		return
	}

	if store {
		h.respondWithURL(c, out, header.Filename)
		return
	}

	if cacheKey != "" {
		if err := h.storage.SetCache(ctx, cacheKey, out.Data.Bytes()); err != nil {
			h.logger.Warn("Failed to cache data", zap.String("cache_key", cacheKey), zap.Error(err))
		}
	}
	h.respondWithImage(c, out.Data.Bytes(), header.Filename, out.Format)
}

// Export watermarks files under the export root into an output directory
// there, one worker per CPU.
func (h *WatermarkHandler) Export(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid export request: "+err.Error())
		return
	}

	spec, _, err := h.resolveSpec(c.Request.Context(), req.Preset, string(req.Spec))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if spec.Kind == models.KindImage {
		if spec.ImagePath, err = h.resolveWatermarkPath(req.Preset, spec.ImagePath); err != nil {
			h.respondServiceError(c, err)
			return
		}
	}

	settings, err := h.normalizeExport(req.Export)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	outDir, err := h.resolveUnderRoot(req.OutputDir)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	sources := make([]string, len(req.Sources))
	for i, src := range req.Sources {
		if sources[i], err = h.resolveUnderRoot(src); err != nil {
			h.respondServiceError(c, err)
			return
		}
	}

	summary := h.exporter.Export(c.Request.Context(), sources, outDir, spec, settings)
	h.logger.Info(summary.Message(), zap.String("output_dir", outDir))

	c.JSON(http.StatusOK, models.APIResponse{
		Success: summary.Succeeded == summary.Total,
		Data:    summary,
	})
}

// resolveWatermarkPath keeps preset watermark paths as stored and confines
// request-supplied ones to the export root.
func (h *WatermarkHandler) resolveWatermarkPath(presetName, path string) (string, error) {
	if presetName != "" {
		return path, nil
	}
	if path == "" {
		return "", errMissingWatermark
	}
	return h.resolveUnderRoot(path)
}

// GetImage serves a previously stored result by object key.
func (h *WatermarkHandler) GetImage(c *gin.Context) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	data, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxCacheAge))
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

const maxCacheAge = 3600

func (h *WatermarkHandler) respondWithImage(c *gin.Context, data []byte, filename string, format models.ImageFormat) {
	name := utils.ExportFilename(filename, format.Extension(), time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (h *WatermarkHandler) respondWithURL(c *gin.Context, out *processor.Output, filename string) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	name := utils.ExportFilename(filename, out.Format.Extension(), time.Now())
	url, _, err := h.storage.Upload(c.Request.Context(), out.Data.Bytes(), name, out.Format.ContentType())
	if err != nil {
		h.logger.Warn("Failed to upload to Storage", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to store watermarked image")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.ProcessedImage{
			ID:          uuid.New().String(),
			OriginalURL: filename,
			ProcessedAt: time.Now(),
			Size:        models.ImageSize{Width: out.Size.X, Height: out.Size.Y},
			Format:      out.Format,
			URL:         url,
			FileSize:    int64(out.Data.Len()),
		},
	})
}

// HealthCheck
func (h *WatermarkHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{}
	if h.storage != nil {
		services = h.storage.HealthCheck(c.Request.Context())
	} else {
		services["storage"] = "not configured"
	}
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}
