package scope

import (
	"image"
	"math"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/geometry"
	"github.com/iburimskiy/deskope/internal/tracking"
)

// TrackedAnchor projects a head pose onto the desktop. Roll does not move the
// anchor; it is compensated by the capture transform.
func TrackedAnchor(o tracking.Orientation, pixelsPerDegree int) image.Point {
	ppd := float64(pixelsPerDegree)
	return image.Pt(
		int((o.Yaw*-180.0/math.Pi)*ppd),
		int((o.Pitch*-180.0/math.Pi)*ppd),
	)
}

// PointerAnchor places the source rectangle so the pointer sits in the
// middle of the stereo pair.
func PointerAnchor(p image.Point, cfg config.Runtime, ext geometry.SourceExtent) image.Point {
	half := int((float64(ext.Width+cfg.SBSOffset) + float64(cfg.ImageSeparation)/cfg.Zoom) / 2)
	return image.Pt(p.X-half, p.Y-ext.Height/2)
}

// anchor resolves the current anchor point from the head pose when tracking,
// from the pointer otherwise.
func (s *Scope) anchor() (image.Point, error) {
	if s.tracking {
		if o, ok := s.tracker.Latest(); ok {
			s.orientation = o
		}
		return TrackedAnchor(s.orientation, s.cfg.PixelsPerDegree), nil
	}
	p, err := s.desktop.CursorPos()
	if err != nil {
		return image.Point{}, err
	}
	return PointerAnchor(p, s.cfg, s.extent), nil
}
