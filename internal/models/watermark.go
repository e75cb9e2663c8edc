package models

type WatermarkKind string

const (
	KindText  WatermarkKind = "text"
	KindImage WatermarkKind = "image"
)

type Anchor string

const (
	AnchorTopLeft      Anchor = "top_left"
	AnchorTopCenter    Anchor = "top_center"
	AnchorTopRight     Anchor = "top_right"
	AnchorMiddleLeft   Anchor = "middle_left"
	AnchorCenter       Anchor = "center"
	AnchorMiddleRight  Anchor = "middle_right"
	AnchorBottomLeft   Anchor = "bottom_left"
	AnchorBottomCenter Anchor = "bottom_center"
	AnchorBottomRight  Anchor = "bottom_right"
)

// Anchors lists every placement in reading order.
var Anchors = []Anchor{
	AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
	AnchorMiddleLeft, AnchorCenter, AnchorMiddleRight,
	AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight,
}

type RGB struct {
	R uint8 `json:"red"`
	G uint8 `json:"green"`
	B uint8 `json:"blue"`
}

type FontSpec struct {
	Family    string `json:"family"`
	PointSize int    `json:"pointSize"`
}

// WatermarkSpec describes one watermark request. It is built by the caller
// and passed by value into the processor for every image.
type WatermarkSpec struct {
	Kind WatermarkKind `json:"kind" binding:"required,oneof=text image"`

	Text              string   `json:"text,omitempty"`
	Font              FontSpec `json:"font"`
	Color             RGB      `json:"color"`
	TextOpacity       int      `json:"text_opacity" binding:"min=0,max=100"`
	BackgroundOpacity int      `json:"background_opacity" binding:"min=0,max=100"`

	ImagePath string `json:"image_path,omitempty"`

	Anchor          Anchor `json:"anchor"`
	RotationDegrees int    `json:"rotation_degrees" binding:"min=-180,max=180"`
	ScalePercent    int    `json:"scale_percent" binding:"min=1"`
	Tile            bool   `json:"tile"`
	TileSpacing     int    `json:"tile_spacing" binding:"min=0"`
	OpacityPercent  int    `json:"opacity_percent" binding:"min=0,max=100"`
}

// DefaultWatermarkSpec mirrors the settings a fresh session starts with.
func DefaultWatermarkSpec() WatermarkSpec {
	return WatermarkSpec{
		Kind:              KindText,
		Text:              "示例水印",
		Font:              FontSpec{Family: "SimHei", PointSize: 24},
		Color:             RGB{R: 255, G: 255, B: 255},
		TextOpacity:       100,
		BackgroundOpacity: 50,
		Anchor:            AnchorCenter,
		ScalePercent:      100,
		TileSpacing:       50,
		OpacityPercent:    50,
	}
}

func ClampPercent(v int) int {
	return max(0, min(100, v))
}
