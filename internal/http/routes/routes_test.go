package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/http/handlers"
	"github.com/phambaophuc/image-watermark/internal/services/batch"
	"github.com/phambaophuc/image-watermark/internal/services/preset"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Watermark: config.WatermarkConfig{DefaultQuality: 95, ExportRoot: t.TempDir()}}
	proc := processor.NewImageProcessor(nil)
	h := handlers.NewWatermarkHandler(
		proc,
		batch.NewExporter(proc, nil),
		nil,
		nil,
		preset.NewFileStore(filepath.Join(t.TempDir(), "presets.json")),
		nil,
		cfg,
	)
	return NewRouter(h, zap.NewNop()).SetupRoutes()
}

func TestSetupRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/presets", http.StatusOK},
		{http.MethodGet, "/api/v1/presets/missing", http.StatusNotFound},
		{http.MethodGet, "/api/v1/jobs/stats", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/jobs/abc", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/images/watermarked/a.png", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/watermark", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupRoutesAddsSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
