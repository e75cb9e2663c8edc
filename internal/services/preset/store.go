package preset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phambaophuc/image-watermark/internal/models"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidName    = errors.New("invalid preset name")
)

// Store keeps named watermark presets.
type Store interface {
	List(ctx context.Context) (map[string]models.Preset, error)
	Get(ctx context.Context, name string) (models.Preset, error)
	Save(ctx context.Context, name string, preset models.Preset) error
	Delete(ctx context.Context, name string) error
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	return nil
}
