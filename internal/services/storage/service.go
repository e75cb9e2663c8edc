package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StorageService struct {
	objects       ObjectStore
	redisClient   redis.Cmdable
	cacheDuration time.Duration
	logger        *zap.Logger
}

func NewStorageService(objects ObjectStore, redisClient redis.Cmdable, cacheDuration time.Duration, logger *zap.Logger) *StorageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheDuration <= 0 {
		cacheDuration = 24 * time.Hour
	}
	return &StorageService{
		objects:       objects,
		redisClient:   redisClient,
		cacheDuration: cacheDuration,
		logger:        logger,
	}
}

// NewObjectStore builds the object store selected by cfg.Storage.Backend.
func NewObjectStore(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSupabase:
		return NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.KEY, cfg.Supabase.BUCKET), nil
	case config.BackendMinio:
		return NewMinioStore(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	case config.BackendLocal:
		return NewLocalStore(cfg.Storage.UploadPath, cfg.Storage.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (s *StorageService) Backend() string {
	return s.objects.Name()
}
