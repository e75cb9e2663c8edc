package processor

import (
	"image"
	"testing"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolvePosition(t *testing.T) {
	tests := []struct {
		anchor models.Anchor
		want   image.Point
	}{
		{models.AnchorTopLeft, image.Pt(10, 10)},
		{models.AnchorTopCenter, image.Pt(350, 10)},
		{models.AnchorTopRight, image.Pt(690, 10)},
		{models.AnchorMiddleLeft, image.Pt(10, 275)},
		{models.AnchorCenter, image.Pt(350, 275)},
		{models.AnchorMiddleRight, image.Pt(690, 275)},
		{models.AnchorBottomLeft, image.Pt(10, 540)},
		{models.AnchorBottomCenter, image.Pt(350, 540)},
		{models.AnchorBottomRight, image.Pt(690, 540)},
		{models.Anchor("nowhere"), image.Pt(350, 275)},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			got := ResolvePosition(tt.anchor, 800, 600, 100, 50, DefaultMargin)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePosition_OverlayFillsCanvas(t *testing.T) {
	for _, anchor := range models.Anchors {
		assert.Equal(t, image.Pt(0, 0), ResolvePosition(anchor, 640, 480, 640, 480, 0), anchor)
	}

	assert.Equal(t, image.Pt(0, 0), ResolvePosition(models.AnchorCenter, 640, 480, 640, 480, DefaultMargin))
	assert.Equal(t, image.Pt(0, DefaultMargin), ResolvePosition(models.AnchorTopCenter, 640, 480, 640, 480, DefaultMargin))
	assert.Equal(t, image.Pt(DefaultMargin, 0), ResolvePosition(models.AnchorMiddleLeft, 640, 480, 640, 480, DefaultMargin))
}

func TestResolvePosition_OverlayLargerThanCanvas(t *testing.T) {
	assert.Equal(t, image.Pt(-51, -51), ResolvePosition(models.AnchorCenter, 100, 100, 201, 201, DefaultMargin))
	assert.Equal(t, image.Pt(-111, -111), ResolvePosition(models.AnchorBottomRight, 100, 100, 201, 201, DefaultMargin))
}
