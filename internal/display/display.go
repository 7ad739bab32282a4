// Package display talks to the windowing system: it captures the desktop,
// queries and restricts the system pointer, and shows composed frames on the
// head-mounted panel.
package display

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrNotSupported = errors.New("display backend not supported on this platform")
	ErrClosed       = errors.New("display closed")
)

// Error provides context for a failed display operation.
type Error struct {
	Operation string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("display %s failed: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cursor is the system pointer glyph and where it currently is.
type Cursor struct {
	Image   image.Image
	Hotspot image.Point
	Pos     image.Point
	Visible bool
}

// Desktop is the capture source and pointer owner.
type Desktop interface {
	// Bounds is the primary display rectangle in desktop pixels.
	Bounds() image.Rectangle
	// Capture copies the whole primary display into dst.
	Capture(dst *image.RGBA) error
	Cursor() (Cursor, error)
	CursorPos() (image.Point, error)
	SetCursorPos(p image.Point) error
	// ClipCursor confines the pointer to r; nil lifts any restriction.
	ClipCursor(r *image.Rectangle) error
	Close() error
}

// Output is the surface shown on the head-mounted panel.
type Output interface {
	// ID identifies the output to the controlling process.
	ID() string
	Present(frame *image.RGBA) error
	Close() error
}

// ClampToRect keeps p inside r. An empty r leaves p untouched.
func ClampToRect(r image.Rectangle, p image.Point) image.Point {
	if r.Empty() {
		return p
	}
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X > r.Max.X-1 {
		p.X = r.Max.X - 1
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y > r.Max.Y-1 {
		p.Y = r.Max.Y - 1
	}
	return p
}

// Transparent reports whether img has no visible pixel. X servers hide the
// pointer by switching to such a glyph.
func Transparent(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
