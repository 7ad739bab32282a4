// Package surface implements the off-screen buffers of the pipeline and the
// copy primitives that move pixels between them.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// maxPixels bounds a single allocation; a 16k square display is the limit.
const maxPixels = 16384 * 16384

var ErrAllocation = errors.New("surface allocation failed")

// Clear is the fill color of uncovered areas.
var Clear = color.RGBA{A: 0xff}

// New allocates an opaque black surface of the given size.
func New(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || width*height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrAllocation, width, height)
	}
	s := image.NewRGBA(image.Rect(0, 0, width, height))
	Fill(s, s.Bounds(), Clear)
	return s, nil
}

// Resize returns s unchanged when it already has the requested size and a
// fresh surface otherwise.
func Resize(s *image.RGBA, width, height int) (*image.RGBA, error) {
	if s != nil && s.Bounds().Dx() == width && s.Bounds().Dy() == height {
		return s, nil
	}
	return New(width, height)
}

func Fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// Copy blits a dst-sized rectangle 1:1 from src at sp into dst at r. Parts
// of r that fall outside src are cleared.
func Copy(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point) {
	Fill(dst, r, Clear)
	draw.Copy(dst, r.Min, src, image.Rectangle{Min: sp, Max: sp.Add(r.Size())}, draw.Src, nil)
}

// AffineBlit maps all of src onto the parallelogram whose top-left, top-right
// and bottom-left corners are given by pts.
func AffineBlit(dst, src *image.RGBA, pts [3]gg.Point, interp draw.Transformer) {
	sr := src.Bounds()
	w := float64(sr.Dx())
	h := float64(sr.Dy())
	p0, p1, p2 := pts[0], pts[1], pts[2]

	a, b := (p1.X-p0.X)/w, (p2.X-p0.X)/h
	d, e := (p1.Y-p0.Y)/w, (p2.Y-p0.Y)/h
	mx, my := float64(sr.Min.X), float64(sr.Min.Y)
	s2d := f64.Aff3{
		a, b, p0.X - a*mx - b*my,
		d, e, p0.Y - d*mx - e*my,
	}
	interp.Transform(dst, s2d, src, sr, draw.Src, nil)
}

// DrawScaled composites glyph over dst into r, resampling to r's size.
func DrawScaled(dst *image.RGBA, r image.Rectangle, glyph image.Image) {
	draw.ApproxBiLinear.Scale(dst, r, glyph, glyph.Bounds(), draw.Over, nil)
}
