package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtent(t *testing.T) {
	g := Geometry{MainWidth: 1920, MainHeight: 1080, PanelWidth: 1280, PanelHeight: 800}

	tests := []struct {
		zoom float64
		want SourceExtent
	}{
		{1, SourceExtent{Width: 640, Height: 800}},
		{2, SourceExtent{Width: 320, Height: 400}},
		{0.5, SourceExtent{Width: 1280, Height: 1600}},
		{3, SourceExtent{Width: 213, Height: 266}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Extent(tt.zoom), "zoom %v", tt.zoom)
	}
}

func TestExtentIsIdempotent(t *testing.T) {
	g := Geometry{MainWidth: 1920, MainHeight: 1080, PanelWidth: 1280, PanelHeight: 800}
	assert.Equal(t, g.Extent(1.7), g.Extent(1.7))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Geometry{MainWidth: 1, MainHeight: 1, PanelWidth: 2, PanelHeight: 1}.Validate())
	assert.ErrorIs(t, Geometry{PanelWidth: 2, PanelHeight: 1}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Geometry{MainWidth: 1, MainHeight: 1}.Validate(), ErrInvalid)
}

func TestRects(t *testing.T) {
	g := Geometry{MainWidth: 1920, MainHeight: 1080, PanelWidth: 1280, PanelHeight: 800, PanelX: 1920}
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), g.Main())
	assert.Equal(t, image.Rect(0, 0, 1280, 800), g.Panel())
	assert.Equal(t, 640, g.EyeWidth())
}
