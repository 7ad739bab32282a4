//go:build !linux

package display

import (
	"image"
)

// X11Desktop is unavailable outside Linux.
type X11Desktop struct{}

func NewX11Desktop() (*X11Desktop, error) {
	return nil, &Error{Operation: "connect", Err: ErrNotSupported}
}

func (d *X11Desktop) Bounds() image.Rectangle           { return image.Rectangle{} }
func (d *X11Desktop) Capture(*image.RGBA) error         { return ErrNotSupported }
func (d *X11Desktop) Cursor() (Cursor, error)           { return Cursor{}, ErrNotSupported }
func (d *X11Desktop) CursorPos() (image.Point, error)   { return image.Point{}, ErrNotSupported }
func (d *X11Desktop) SetCursorPos(image.Point) error    { return ErrNotSupported }
func (d *X11Desktop) ClipCursor(*image.Rectangle) error { return ErrNotSupported }
func (d *X11Desktop) Close() error                      { return nil }
