package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, PresetsFile, cfg.Presets.Backend)
	assert.Equal(t, "watermark_templates.json", cfg.Presets.File)
	assert.Equal(t, "watermark_jobs", cfg.RabbitMQ.Queue)
	assert.Equal(t, 10, cfg.Watermark.Margin)
	assert.Equal(t, 95, cfg.Watermark.DefaultQuality)
	assert.True(t, cfg.Watermark.BundledFont)
	assert.Empty(t, cfg.Watermark.FontDirs)
	assert.GreaterOrEqual(t, cfg.Watermark.Workers, 1)
	assert.Equal(t, 24*time.Hour, cfg.Storage.CacheDuration)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	fontDirs := filepath.Join("a", "fonts") + string(os.PathListSeparator) + " " + string(os.PathListSeparator) + filepath.Join("b", "fonts")

	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MINIO")
	t.Setenv("MINIO_BUCKET", "marks")
	t.Setenv("PRESET_BACKEND", "redis")
	t.Setenv("FONT_DIRS", fontDirs)
	t.Setenv("BUNDLED_FONT", "false")
	t.Setenv("EXPORT_WORKERS", "3")
	t.Setenv("WATERMARK_MARGIN", "not-a-number")
	t.Setenv("CACHE_DURATION", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendMinio, cfg.Storage.Backend)
	assert.Equal(t, "marks", cfg.Minio.Bucket)
	assert.Equal(t, PresetsRedis, cfg.Presets.Backend)
	assert.Equal(t, []string{filepath.Join("a", "fonts"), filepath.Join("b", "fonts")}, cfg.Watermark.FontDirs)
	assert.False(t, cfg.Watermark.BundledFont)
	assert.Equal(t, 3, cfg.Watermark.Workers)
	assert.Equal(t, 10, cfg.Watermark.Margin)
	assert.Equal(t, 90*time.Minute, cfg.Storage.CacheDuration)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PRESET_FILE=custom.json\nDEFAULT_QUALITY=80\n"), 0o644))
	chdir(t, dir)
	t.Setenv("PRESET_FILE", "")
	t.Setenv("DEFAULT_QUALITY", "")
	os.Unsetenv("PRESET_FILE")
	os.Unsetenv("DEFAULT_QUALITY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "custom.json", cfg.Presets.File)
	assert.Equal(t, 80, cfg.Watermark.DefaultQuality)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:   StorageConfig{Backend: BackendLocal},
			Presets:   PresetConfig{Backend: PresetsFile},
			Watermark: WatermarkConfig{Workers: 1, DefaultQuality: 95, Margin: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "ftp" }, "unknown storage backend"},
		{"supabase without url", func(c *Config) { c.Storage.Backend = BackendSupabase }, "SUPABASE_URL"},
		{"minio without bucket", func(c *Config) {
			c.Storage.Backend = BackendMinio
			c.Minio.Endpoint = "localhost:9000"
		}, "MINIO_BUCKET"},
		{"unknown preset backend", func(c *Config) { c.Presets.Backend = "sql" }, "unknown preset backend"},
		{"no workers", func(c *Config) { c.Watermark.Workers = 0 }, "EXPORT_WORKERS"},
		{"quality", func(c *Config) { c.Watermark.DefaultQuality = 101 }, "DEFAULT_QUALITY"},
		{"margin", func(c *Config) { c.Watermark.Margin = -1 }, "WATERMARK_MARGIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
