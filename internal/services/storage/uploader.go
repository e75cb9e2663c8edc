package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phambaophuc/image-watermark/pkg/utils"
	"go.uber.org/zap"
)

// Upload stores data under a fresh key derived from filename and returns the
// object's URL and key.
func (s *StorageService) Upload(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
	key := utils.GenerateStorageKey(filename)

	url, err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("backend", s.objects.Name()),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return url, key, nil
}

func (s *StorageService) Download(ctx context.Context, key string) ([]byte, error) {
	return s.objects.Get(ctx, key)
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.objects.Delete(ctx, key)
}
