package display

import (
	"image"

	"github.com/gogpu/gg"
)

// arrowPath is the outline of the default pointer on a 24px grid.
var arrowPath = []gg.Point{
	{X: 1, Y: 1}, {X: 1, Y: 18}, {X: 5, Y: 14}, {X: 8, Y: 20},
	{X: 11, Y: 18}, {X: 8, Y: 12}, {X: 14, Y: 12},
}

// ArrowGlyph renders the default arrow pointer, hotspot at the origin. It is
// used when the windowing system cannot hand out the real pointer image.
func ArrowGlyph(size int) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	s := float64(size) / 24
	for i, p := range arrowPath {
		if i == 0 {
			dc.MoveTo(p.X*s, p.Y*s)
			continue
		}
		dc.LineTo(p.X*s, p.Y*s)
	}
	dc.ClosePath()

	dc.SetRGB(0.12, 0.12, 0.14)
	_ = dc.FillPreserve()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1.25 * s)
	_ = dc.Stroke()

	return dc.Image()
}
