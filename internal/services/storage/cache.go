package storage

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-watermark/internal/metrics"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "wm_cache:"

// GetFromCache returns nil data on a cache miss.
func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.ObserveCacheLookup(false)
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	metrics.ObserveCacheLookup(true)
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey identifies the encoded output for source rendered with
// spec and settings. source is a URL or a digest of uploaded bytes.
func (s *StorageService) GenerateCacheKey(source string, spec models.WatermarkSpec, settings models.ExportSettings) string {
	hash := md5.New()

	hash.Write([]byte(source))

	// json.Marshal of these structs cannot fail.
	specJSON, _ := json.Marshal(spec)
	settingsJSON, _ := json.Marshal(settings)
	hash.Write(specJSON)
	hash.Write(settingsJSON)

	return fmt.Sprintf("%s%x", cachePrefix, hash.Sum(nil))
}

// CleanupCache deletes cache entries that have no expiry set and returns how
// many were removed.
func (s *StorageService) CleanupCache(ctx context.Context) (int, error) {
	removed := 0
	iter := s.redisClient.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := s.redisClient.TTL(ctx, key).Result()
		if err != nil {
			return removed, err
		}
		if ttl < 0 {
			if err := s.redisClient.Del(ctx, key).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, iter.Err()
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	info, err := s.redisClient.Info(ctx, "memory").Result()
	if err != nil {
		return nil, err
	}

	dbSize, err := s.redisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"db_keys": dbSize,
		"info":    info,
	}

	return stats, nil
}
