package scope

import (
	"image"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/display"
	"github.com/iburimskiy/deskope/internal/geometry"
)

// ClipRect is the pointer safe zone for anchor a: a CursorBorder fraction of
// the source extent around the display center, moved by a/zoom.
func ClipRect(g geometry.Geometry, ext geometry.SourceExtent, cfg config.Runtime, a image.Point) image.Rectangle {
	bw := float64(ext.Width) * cfg.CursorBorder
	bh := float64(ext.Height) * cfg.CursorBorder
	ox := float64(a.X) / cfg.Zoom
	oy := float64(a.Y) / cfg.Zoom
	mw, mh := float64(g.MainWidth), float64(g.MainHeight)

	return image.Rect(
		int((mw-bw)/2+ox),
		int((mh-bh)/2+oy),
		int((mw+bw)/2+ox),
		int((mh+bh)/2+oy),
	)
}

func (s *Scope) restrictCursor() error {
	if !s.cfg.ClipCursor {
		if err := s.desktop.ClipCursor(nil); err != nil {
			return &display.Error{Operation: "release pointer", Err: err}
		}
		return nil
	}
	a, err := s.anchor()
	if err != nil {
		return err
	}
	r := ClipRect(s.geo, s.extent, s.cfg, a)
	if err := s.desktop.ClipCursor(&r); err != nil {
		return &display.Error{Operation: "clip pointer", Err: err}
	}
	return nil
}
