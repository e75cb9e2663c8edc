package preset

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHash implements the hash commands RedisStore uses on top of an
// in-memory map. Any other command panics through the nil embedded client.
type fakeHash struct {
	redis.Cmdable
	data map[string]map[string]string
	err  error
}

func newFakeHash() *fakeHash {
	return &fakeHash{data: make(map[string]map[string]string)}
}

func (f *fakeHash) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	out := make(map[string]string)
	for k, v := range f.data[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, f.err)
}

func (f *fakeHash) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeHash) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	if f.data[key] == nil {
		f.data[key] = make(map[string]string)
	}
	var added int64
	for i := 0; i+1 < len(values); i += 2 {
		field := values[i].(string)
		if _, ok := f.data[key][field]; !ok {
			added++
		}
		f.data[key][field] = string(values[i+1].([]byte))
	}
	return redis.NewIntResult(added, nil)
}

func (f *fakeHash) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var removed int64
	for _, field := range fields {
		if _, ok := f.data[key][field]; ok {
			delete(f.data[key], field)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeHash()
	store := NewRedisStore(client, "")

	require.NoError(t, store.Save(ctx, "default", samplePreset()))

	raw := client.data[DefaultRedisKey]["default"]
	var stored models.Preset
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, samplePreset(), stored)

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, samplePreset(), got)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.Delete(ctx, "default"))
	_, err = store.Get(ctx, "default")
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeHash()
	store := NewRedisStore(client, "custom")

	err := store.Delete(ctx, "ghost")
	require.ErrorIs(t, err, ErrPresetNotFound)

	err = store.Save(ctx, "", samplePreset())
	require.ErrorIs(t, err, ErrInvalidName)

	client.data["custom"] = map[string]string{"broken": "{"}
	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	_, err = store.List(ctx)
	require.Error(t, err)

	client.err = errors.New("connection refused")
	_, err = store.Get(ctx, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPresetNotFound)
}
