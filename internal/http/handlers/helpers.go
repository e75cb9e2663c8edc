package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/preset"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
)

var (
	errMissingSpec      = errors.New("either spec or preset is required")
	errMissingWatermark = errors.New("image watermarks require a watermark file")
	errPathOutsideRoot  = errors.New("path escapes the export root")
)

// === REQUEST PARSING ===

// resolveSpec reads the watermark settings either from a named preset or
// from a JSON document layered over the defaults. Presets are trusted server data, so only they may
// point at a watermark image on the server's disk.
func (h *WatermarkHandler) resolveSpec(ctx context.Context, presetName, specJSON string) (models.WatermarkSpec, bool, error) {
	switch {
	case presetName != "":
		p, err := h.presets.Get(ctx, presetName)
		if err != nil {
			return models.WatermarkSpec{}, false, err
		}
		return p.Spec(), true, nil
	case specJSON != "":
		s := models.DefaultWatermarkSpec()
		if err := json.Unmarshal([]byte(specJSON), &s); err != nil {
			return models.WatermarkSpec{}, false, fmt.Errorf("%w: %v", processor.ErrInvalidSpec, err)
		}
		return s, false, validateSpec(&s)
	default:
		return models.WatermarkSpec{}, false, errMissingSpec
	}
}

func validateSpec(s *models.WatermarkSpec) error {
	if s.ScalePercent == 0 {
		s.ScalePercent = 100
	}
	if s.Anchor == "" {
		s.Anchor = models.AnchorCenter
	}
	if err := binding.Validator.ValidateStruct(s); err != nil {
		return fmt.Errorf("%w: %v", processor.ErrInvalidSpec, err)
	}
	return nil
}

func (h *WatermarkHandler) parseExportSettings(raw string) (models.ExportSettings, error) {
	settings := models.DefaultExportSettings()
	settings.Quality = h.config.Watermark.DefaultQuality
	if raw == "" {
		return settings, nil
	}

	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return settings, fmt.Errorf("%w: invalid export settings: %v", processor.ErrEncode, err)
	}
	return h.normalizeExport(settings)
}

func (h *WatermarkHandler) normalizeExport(settings models.ExportSettings) (models.ExportSettings, error) {
	if settings.Quality == 0 {
		settings.Quality = h.config.Watermark.DefaultQuality
	}
	if settings.Format == "" {
		settings.Format = models.FormatJPEG
	}
	if err := binding.Validator.ValidateStruct(&settings); err != nil {
		return settings, fmt.Errorf("%w: %v", processor.ErrEncode, err)
	}
	settings.Format = settings.Format.Normalize()
	return settings, nil
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

// resolveUnderRoot joins a client-supplied relative path onto the export
// root, rejecting absolute paths and parent traversal.
func (h *WatermarkHandler) resolveUnderRoot(p string) (string, error) {
	clean := filepath.FromSlash(p)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %s", errPathOutsideRoot, p)
	}
	return filepath.Join(h.config.Watermark.ExportRoot, clean), nil
}

// === FILE OPERATIONS ===

// saveTempWatermark copies an uploaded watermark image to a temporary file
// so that the pipeline can load it by path. The caller removes the file.
func saveTempWatermark(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "watermark-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func digest(parts ...[]byte) string {
	hash := sha256.New()
	for _, p := range parts {
		hash.Write(p)
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// === RESPONSE HANDLING ===

func (h *WatermarkHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrWatermarkAsset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, processor.ErrDecode),
		errors.Is(err, processor.ErrEncode),
		errors.Is(err, processor.ErrInvalidSpec),
		errors.Is(err, preset.ErrInvalidName),
		errors.Is(err, errMissingSpec),
		errors.Is(err, errMissingWatermark),
		errors.Is(err, errPathOutsideRoot):
		return http.StatusBadRequest
	case errors.Is(err, preset.ErrPresetNotFound),
		errors.Is(err, storage.ErrJobNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *WatermarkHandler) respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	h.respondError(c, status, message)
}

// === UTILITY METHODS ===

func (h *WatermarkHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
