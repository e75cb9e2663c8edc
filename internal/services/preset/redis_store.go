package preset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding every preset as a JSON field value.
const DefaultRedisKey = "watermark:presets"

type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) List(ctx context.Context) (map[string]models.Preset, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	presets := make(map[string]models.Preset, len(raw))
	for name, value := range raw {
		var p models.Preset
		if err := json.Unmarshal([]byte(value), &p); err != nil {
			return nil, fmt.Errorf("failed to parse preset %s: %w", name, err)
		}
		presets[name] = p
	}
	return presets, nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (models.Preset, error) {
	value, err := s.client.HGet(ctx, s.key, name).Result()
	if err == redis.Nil {
		return models.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return models.Preset{}, fmt.Errorf("failed to get preset: %w", err)
	}

	var p models.Preset
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return models.Preset{}, fmt.Errorf("failed to parse preset %s: %w", name, err)
	}
	return p, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, preset models.Preset) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := json.Marshal(preset)
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, name, data).Err(); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	removed, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return nil
}
