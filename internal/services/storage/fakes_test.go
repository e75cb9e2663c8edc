package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeEntry struct {
	value []byte
	ttl   time.Duration
}

// fakeRedis covers the string commands the storage service issues.
type fakeRedis struct {
	redis.Cmdable

	mu      sync.Mutex
	entries map[string]fakeEntry
	pingErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{entries: make(map[string]fakeEntry)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(e.value), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return redis.NewStatusResult("", errors.New("unsupported value type"))
	}
	f.entries[key] = fakeEntry{value: data, ttl: expiration}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) TTL(ctx context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[key]
	if !ok {
		return redis.NewDurationResult(-2, nil)
	}
	if e.ttl <= 0 {
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(e.ttl, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := f.entries[k]; ok {
			delete(f.entries, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.entries {
		if ok, _ := path.Match(match, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	if f.pingErr != nil {
		return redis.NewStatusResult("", f.pingErr)
	}
	return redis.NewStatusResult("PONG", nil)
}

// memoryStore is an ObjectStore kept in a map.
type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    func(key string) error
	healthErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.putErr != nil {
		if err := m.putErr(key); err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return "mem://" + key, nil
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) Health(ctx context.Context) error {
	return m.healthErr
}
