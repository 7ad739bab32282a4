package scope

import (
	"image"

	"github.com/iburimskiy/deskope/internal/geometry"
	"github.com/iburimskiy/deskope/internal/surface"
)

// EyeOrigins returns where the left and right eye crops start in the
// composed surface. pan is how far the anchor moved since the last capture.
func EyeOrigins(g geometry.Geometry, separation int, pan image.Point) (left, right image.Point) {
	y := (g.MainHeight-g.PanelHeight)/2 + pan.Y
	left = image.Pt((g.MainWidth-g.EyeWidth()-separation)/2+pan.X, y)
	right = image.Pt((g.MainWidth-g.EyeWidth()+separation)/2+pan.X, y)
	return left, right
}

// Render restricts the pointer, crops both eyes out of the composed surface
// side by side into the panel frame and presents it.
func (s *Scope) Render() error {
	if err := s.restrictCursor(); err != nil {
		return err
	}

	a, err := s.anchor()
	if err != nil {
		return err
	}
	left, right := EyeOrigins(s.geo, s.cfg.ImageSeparation, a.Sub(s.captureAnchor))

	eye := image.Rect(0, 0, s.geo.EyeWidth(), s.geo.PanelHeight)
	surface.Copy(s.frame, eye, s.composed, left)
	surface.Copy(s.frame, eye.Add(image.Pt(s.geo.EyeWidth(), 0)), s.composed, right)

	return s.output.Present(s.frame)
}
