package surface

import (
	"image"

	"github.com/gogpu/gg"
)

// Transform builds the head-roll and zoom compensation for a desktop of the
// given bounds. Points are moved to the display center, scaled by zoom,
// offset by -anchor, rotated by roll and moved back. A positive roll turns
// the desktop clockwise on screen (y axis down).
func Transform(bounds image.Rectangle, zoom, roll float64, anchor image.Point) gg.Matrix {
	cx := float64(bounds.Min.X + bounds.Dx()/2)
	cy := float64(bounds.Min.Y + bounds.Dy()/2)

	return gg.Translate(cx, cy).
		Multiply(gg.Rotate(roll)).
		Multiply(gg.Translate(-float64(anchor.X), -float64(anchor.Y))).
		Multiply(gg.Scale(zoom, zoom)).
		Multiply(gg.Translate(-cx, -cy))
}

// Parallelogram maps the top-left, top-right and bottom-left corners of
// bounds through m.
func Parallelogram(bounds image.Rectangle, m gg.Matrix) [3]gg.Point {
	return [3]gg.Point{
		m.TransformPoint(gg.Pt(float64(bounds.Min.X), float64(bounds.Min.Y))),
		m.TransformPoint(gg.Pt(float64(bounds.Max.X), float64(bounds.Min.Y))),
		m.TransformPoint(gg.Pt(float64(bounds.Min.X), float64(bounds.Max.Y))),
	}
}
