// Package geometry holds the fixed display facts discovered at startup and
// the source extent derived from them.
package geometry

import (
	"errors"
	"fmt"
	"image"
)

var ErrInvalid = errors.New("invalid display geometry")

// Geometry describes the primary desktop and the head-mounted panel.
type Geometry struct {
	MainWidth   int
	MainHeight  int
	PanelWidth  int
	PanelHeight int
	PanelX      int
	PanelY      int
}

func (g Geometry) Validate() error {
	if g.MainWidth <= 0 || g.MainHeight <= 0 {
		return fmt.Errorf("%w: main display %dx%d", ErrInvalid, g.MainWidth, g.MainHeight)
	}
	if g.PanelWidth <= 0 || g.PanelHeight <= 0 {
		return fmt.Errorf("%w: panel %dx%d", ErrInvalid, g.PanelWidth, g.PanelHeight)
	}
	return nil
}

// Main returns the desktop rectangle.
func (g Geometry) Main() image.Rectangle {
	return image.Rect(0, 0, g.MainWidth, g.MainHeight)
}

// Panel returns the output rectangle in panel-local coordinates.
func (g Geometry) Panel() image.Rectangle {
	return image.Rect(0, 0, g.PanelWidth, g.PanelHeight)
}

// EyeWidth is the width of one half of the side-by-side output.
func (g Geometry) EyeWidth() int {
	return g.PanelWidth / 2
}

// SourceExtent is the part of the desktop, in desktop pixels, shown to one eye.
type SourceExtent struct {
	Width  int
	Height int
}

// Extent derives the per-eye source size for a zoom factor.
func (g Geometry) Extent(zoom float64) SourceExtent {
	return SourceExtent{
		Width:  int(float64(g.PanelWidth) / 2 / zoom),
		Height: int(float64(g.PanelHeight) / zoom),
	}
}
