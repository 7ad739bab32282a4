package display

import (
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MemoryDesktop is a Desktop backed by an in-memory image. It is used in
// headless runs and by the pipeline tests.
type MemoryDesktop struct {
	mu      sync.Mutex
	screen  *image.RGBA
	glyph   image.Image
	hotspot image.Point
	pos     image.Point
	visible bool
	clip    *image.Rectangle
	closed  bool
}

func NewMemoryDesktop(screen *image.RGBA) *MemoryDesktop {
	b := screen.Bounds()
	return &MemoryDesktop{
		screen:  screen,
		glyph:   ArrowGlyph(24),
		pos:     image.Pt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2),
		visible: true,
	}
}

func (d *MemoryDesktop) Bounds() image.Rectangle {
	return d.screen.Bounds()
}

func (d *MemoryDesktop) Capture(dst *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return &Error{Operation: "capture", Err: ErrClosed}
	}
	draw.Copy(dst, image.Point{}, d.screen, d.screen.Bounds(), draw.Src, nil)
	return nil
}

func (d *MemoryDesktop) Cursor() (Cursor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Cursor{Image: d.glyph, Hotspot: d.hotspot, Pos: d.pos, Visible: d.visible}, nil
}

func (d *MemoryDesktop) CursorPos() (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

func (d *MemoryDesktop) SetCursorPos(p image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.clip != nil {
		p = ClampToRect(*d.clip, p)
	}
	d.pos = p
	return nil
}

func (d *MemoryDesktop) ClipCursor(r *image.Rectangle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r == nil {
		d.clip = nil
		return nil
	}
	clip := r.Canon()
	d.clip = &clip
	d.pos = ClampToRect(clip, d.pos)
	return nil
}

// Clip returns the active pointer restriction, if any.
func (d *MemoryDesktop) Clip() (image.Rectangle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.clip == nil {
		return image.Rectangle{}, false
	}
	return *d.clip, true
}

// SetCursorVisible shows or hides the pointer glyph.
func (d *MemoryDesktop) SetCursorVisible(visible bool) {
	d.mu.Lock()
	d.visible = visible
	d.mu.Unlock()
}

// SetCursorGlyph replaces the pointer image.
func (d *MemoryDesktop) SetCursorGlyph(glyph image.Image, hotspot image.Point) {
	d.mu.Lock()
	d.glyph = glyph
	d.hotspot = hotspot
	d.mu.Unlock()
}

func (d *MemoryDesktop) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// MemoryOutput keeps the last presented frame.
type MemoryOutput struct {
	mu     sync.Mutex
	id     string
	last   *image.RGBA
	frames uint64
	closed bool
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{id: uuid.NewString()}
}

func (o *MemoryOutput) ID() string { return o.id }

func (o *MemoryOutput) Present(frame *image.RGBA) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return &Error{Operation: "present", Err: ErrClosed}
	}
	if o.last == nil || o.last.Bounds() != frame.Bounds() {
		o.last = image.NewRGBA(frame.Bounds())
	}
	copy(o.last.Pix, frame.Pix)
	o.frames++
	return nil
}

// Last returns a copy of the most recent frame, or nil before the first one.
func (o *MemoryOutput) Last() *image.RGBA {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return nil
	}
	out := image.NewRGBA(o.last.Bounds())
	copy(out.Pix, o.last.Pix)
	return out
}

func (o *MemoryOutput) Frames() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frames
}

func (o *MemoryOutput) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	return nil
}

func (o *MemoryOutput) String() string {
	return fmt.Sprintf("memory output %s (%d frames)", o.id, o.Frames())
}
