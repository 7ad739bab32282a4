package scope

import (
	"image"

	"github.com/iburimskiy/deskope/internal/display"
	"github.com/iburimskiy/deskope/internal/surface"
)

// Capture snapshots the desktop with the pointer drawn in, then writes the
// roll/zoom corrected copy into the composed surface. The anchor used here is
// kept so the compositor can tell how far the head moved since.
func (s *Scope) Capture() error {
	a, err := s.anchor()
	if err != nil {
		return err
	}
	s.captureAnchor = a

	if err := s.desktop.Capture(s.snapshot); err != nil {
		return err
	}
	if err := s.drawCursor(); err != nil {
		return err
	}

	surface.Fill(s.composed, s.composed.Bounds(), surface.Clear)
	m := surface.Transform(s.composed.Bounds(), s.cfg.Zoom, s.orientation.Roll, a)
	surface.AffineBlit(s.composed, s.snapshot, surface.Parallelogram(s.snapshot.Bounds(), m), s.interp)
	return nil
}

// drawCursor paints the pointer glyph into the snapshot, scaled by zoom so
// it keeps its apparent size in the headset.
func (s *Scope) drawCursor() error {
	c, err := s.desktop.Cursor()
	if err != nil {
		return &display.Error{Operation: "cursor", Err: err}
	}
	if !c.Visible || c.Image == nil {
		return nil
	}
	gb := c.Image.Bounds()
	w := int(float64(gb.Dx()) * s.cfg.Zoom)
	h := int(float64(gb.Dy()) * s.cfg.Zoom)
	if w <= 0 || h <= 0 {
		return nil
	}
	hot := image.Pt(int(float64(c.Hotspot.X)*s.cfg.Zoom), int(float64(c.Hotspot.Y)*s.cfg.Zoom))
	at := c.Pos.Sub(hot)
	surface.DrawScaled(s.snapshot, image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}, c.Image)
	return nil
}
