package models

type PresetColor struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
	Alpha int `json:"alpha"`
}

// Preset is the record stored for a named watermark template. Field names
// match the templates file written by earlier releases.
type Preset struct {
	WatermarkType      string      `json:"watermark_type"`
	TextWatermark      string      `json:"text_watermark"`
	Font               FontSpec    `json:"font"`
	Color              PresetColor `json:"color"`
	Opacity            int         `json:"opacity"`
	Position           string      `json:"position"`
	Rotation           int         `json:"rotation"`
	Scale              int         `json:"scale"`
	Spacing            int         `json:"spacing"`
	Tile               bool        `json:"tile"`
	WatermarkImagePath string      `json:"watermark_image_path"`
}

// Spec converts the preset into a WatermarkSpec. The preset's opacity drives
// both the text background box and the image watermark opacity; presets do
// not carry a text opacity so text is drawn fully opaque.
func (p Preset) Spec() WatermarkSpec {
	return WatermarkSpec{
		Kind:              WatermarkKind(p.WatermarkType),
		Text:              p.TextWatermark,
		Font:              p.Font,
		Color:             RGB{R: uint8(p.Color.Red), G: uint8(p.Color.Green), B: uint8(p.Color.Blue)},
		TextOpacity:       100,
		BackgroundOpacity: p.Opacity,
		ImagePath:         p.WatermarkImagePath,
		Anchor:            Anchor(p.Position),
		RotationDegrees:   p.Rotation,
		ScalePercent:      p.Scale,
		Tile:              p.Tile,
		TileSpacing:       p.Spacing,
		OpacityPercent:    p.Opacity,
	}
}

func PresetFromSpec(s WatermarkSpec) Preset {
	return Preset{
		WatermarkType: string(s.Kind),
		TextWatermark: s.Text,
		Font:          s.Font,
		Color: PresetColor{
			Red:   int(s.Color.R),
			Green: int(s.Color.G),
			Blue:  int(s.Color.B),
			Alpha: int(float64(s.OpacityPercent) * 2.55),
		},
		Opacity:            s.OpacityPercent,
		Position:           string(s.Anchor),
		Rotation:           s.RotationDegrees,
		Scale:              s.ScalePercent,
		Spacing:            s.TileSpacing,
		Tile:               s.Tile,
		WatermarkImagePath: s.ImagePath,
	}
}

// PercentToAlpha maps a 0-100 opacity onto an 8-bit alpha value, rounding
// pct*2.55 half up in integer arithmetic.
func PercentToAlpha(pct int) uint8 {
	return uint8((ClampPercent(pct)*255 + 50) / 100)
}
