package models

import "strings"

type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

const DefaultQuality = 95

type ResizeSettings struct {
	Width      int  `json:"width" binding:"min=0"`
	Height     int  `json:"height" binding:"min=0"`
	KeepAspect bool `json:"keep_aspect"`
}

type ExportSettings struct {
	Format  ImageFormat     `json:"format" binding:"omitempty,oneof=jpeg jpg png"`
	Quality int             `json:"quality" binding:"min=0,max=100"`
	Resize  *ResizeSettings `json:"resize,omitempty"`
}

func DefaultExportSettings() ExportSettings {
	return ExportSettings{Format: FormatJPEG, Quality: DefaultQuality}
}

// ParseFormat accepts the extensions and names users type for the two
// supported output formats.
func ParseFormat(s string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	default:
		return "", false
	}
}

func (f ImageFormat) Normalize() ImageFormat {
	if parsed, ok := ParseFormat(string(f)); ok {
		return parsed
	}
	return FormatJPEG
}

// Extension is the file suffix used for exported files, without the dot.
func (f ImageFormat) Extension() string {
	if f.Normalize() == FormatPNG {
		return "png"
	}
	return "jpg"
}

func (f ImageFormat) ContentType() string {
	if f.Normalize() == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}
