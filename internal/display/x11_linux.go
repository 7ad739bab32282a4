//go:build linux

package display

import (
	"fmt"
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
)

// X11Desktop captures the root window of the default X screen.
//
// X11 has no equivalent of a pointer clip rectangle that leaves other
// clients' input untouched, so ClipCursor is emulated: the pointer is warped
// back inside the rectangle whenever it is observed outside of it.
type X11Desktop struct {
	conn   *xgb.Conn
	root   xproto.Window
	bounds image.Rectangle

	mu     sync.Mutex
	clip   *image.Rectangle
	serial uint32
	glyph  *image.RGBA
	hot    image.Point
	hidden bool
}

func NewX11Desktop() (*X11Desktop, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, &Error{Operation: "connect", Err: err}
	}
	if err := xfixes.Init(conn); err != nil {
		conn.Close()
		return nil, &Error{Operation: "xfixes init", Err: err}
	}
	if _, err := xfixes.QueryVersion(conn, 4, 0).Reply(); err != nil {
		conn.Close()
		return nil, &Error{Operation: "xfixes version", Err: err}
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &X11Desktop{
		conn:   conn,
		root:   screen.Root,
		bounds: image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels)),
	}, nil
}

func (d *X11Desktop) Bounds() image.Rectangle { return d.bounds }

func (d *X11Desktop) Capture(dst *image.RGBA) error {
	w, h := d.bounds.Dx(), d.bounds.Dy()
	reply, err := xproto.GetImage(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(d.root),
		0, 0, uint16(w), uint16(h), 0xffffffff).Reply()
	if err != nil {
		return &Error{Operation: "capture", Err: err}
	}
	if len(reply.Data) < w*h*4 {
		return &Error{Operation: "capture", Err: fmt.Errorf("unsupported depth %d", reply.Depth)}
	}

	// ZPixmap at depth 24/32 is BGRX
	db := dst.Bounds().Intersect(d.bounds)
	for y := db.Min.Y; y < db.Max.Y; y++ {
		src := reply.Data[y*w*4:]
		row := dst.Pix[dst.PixOffset(db.Min.X, y):]
		for x := 0; x < db.Dx(); x++ {
			i := (db.Min.X + x) * 4
			row[x*4+0] = src[i+2]
			row[x*4+1] = src[i+1]
			row[x*4+2] = src[i+0]
			row[x*4+3] = 0xff
		}
	}
	return nil
}

func (d *X11Desktop) Cursor() (Cursor, error) {
	reply, err := xfixes.GetCursorImage(d.conn).Reply()
	if err != nil {
		return Cursor{}, &Error{Operation: "cursor image", Err: err}
	}
	if reply.Width == 0 || reply.Height == 0 {
		return Cursor{Pos: image.Pt(int(reply.X), int(reply.Y))}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.glyph == nil || reply.CursorSerial != d.serial {
		d.glyph = argbToRGBA(reply.CursorImage, int(reply.Width), int(reply.Height))
		d.hot = image.Pt(int(reply.Xhot), int(reply.Yhot))
		d.hidden = Transparent(d.glyph)
		d.serial = reply.CursorSerial
	}
	return Cursor{
		Image:   d.glyph,
		Hotspot: d.hot,
		Pos:     image.Pt(int(reply.X), int(reply.Y)),
		Visible: !d.hidden,
	}, nil
}

// argbToRGBA converts premultiplied 0xAARRGGBB pixels.
func argbToRGBA(pixels []uint32, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h && i < len(pixels); i++ {
		v := pixels[i]
		img.Pix[i*4+0] = uint8(v >> 16)
		img.Pix[i*4+1] = uint8(v >> 8)
		img.Pix[i*4+2] = uint8(v)
		img.Pix[i*4+3] = uint8(v >> 24)
	}
	return img
}

func (d *X11Desktop) CursorPos() (image.Point, error) {
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return image.Point{}, &Error{Operation: "query pointer", Err: err}
	}
	p := image.Pt(int(reply.RootX), int(reply.RootY))

	d.mu.Lock()
	clip := d.clip
	d.mu.Unlock()
	if clip == nil {
		return p, nil
	}
	if q := ClampToRect(*clip, p); q != p {
		if err := d.warp(q); err != nil {
			return p, err
		}
		return q, nil
	}
	return p, nil
}

func (d *X11Desktop) SetCursorPos(p image.Point) error {
	d.mu.Lock()
	if d.clip != nil {
		p = ClampToRect(*d.clip, p)
	}
	d.mu.Unlock()
	return d.warp(p)
}

func (d *X11Desktop) warp(p image.Point) error {
	err := xproto.WarpPointerChecked(d.conn, xproto.WindowNone, d.root,
		0, 0, 0, 0, int16(p.X), int16(p.Y)).Check()
	if err != nil {
		return &Error{Operation: "warp pointer", Err: err}
	}
	return nil
}

func (d *X11Desktop) ClipCursor(r *image.Rectangle) error {
	d.mu.Lock()
	if r == nil {
		d.clip = nil
		d.mu.Unlock()
		return nil
	}
	clip := r.Canon()
	d.clip = &clip
	d.mu.Unlock()

	_, err := d.CursorPos()
	return err
}

func (d *X11Desktop) Close() error {
	d.conn.Close()
	return nil
}
