package preset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/phambaophuc/image-watermark/internal/models"
)

// FileStore keeps presets in a single JSON document keyed by name. The
// whole file is rewritten on every change.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) List(ctx context.Context) (map[string]models.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Get(ctx context.Context, name string) (models.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return models.Preset{}, err
	}
	p, ok := presets[name]
	if !ok {
		return models.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return p, nil
}

func (s *FileStore) Save(ctx context.Context, name string, preset models.Preset) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return err
	}
	presets[name] = preset
	return s.write(presets)
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := presets[name]; !ok {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	delete(presets, name)
	return s.write(presets)
}

// load reads the presets file. A missing file is an empty store.
func (s *FileStore) load() (map[string]models.Preset, error) {
	presets := make(map[string]models.Preset)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return presets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return presets, nil
	}

	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", s.path, err)
	}
	return presets, nil
}

// write replaces the presets file through a temporary file in the same
// directory.
func (s *FileStore) write(presets map[string]models.Preset) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(presets); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".presets-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp presets file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace presets file: %w", err)
	}
	return nil
}
