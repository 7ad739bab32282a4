package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	assert.True(t, Transparent(img))

	img.SetRGBA(2, 1, color.RGBA{A: 1})
	assert.False(t, Transparent(img))
}

func TestClampToRect(t *testing.T) {
	r := image.Rect(10, 20, 30, 40)
	tests := []struct {
		in, want image.Point
	}{
		{image.Pt(15, 25), image.Pt(15, 25)},
		{image.Pt(0, 0), image.Pt(10, 20)},
		{image.Pt(100, 100), image.Pt(29, 39)},
		{image.Pt(12, 50), image.Pt(12, 39)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampToRect(r, tt.in))
	}
	assert.Equal(t, image.Pt(5, 5), ClampToRect(image.Rectangle{}, image.Pt(5, 5)))
}

func TestMemoryDesktopClip(t *testing.T) {
	d := NewMemoryDesktop(image.NewRGBA(image.Rect(0, 0, 100, 60)))

	pos, err := d.CursorPos()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(50, 30), pos)

	r := image.Rect(0, 0, 20, 20)
	require.NoError(t, d.ClipCursor(&r))
	pos, _ = d.CursorPos()
	assert.Equal(t, image.Pt(19, 19), pos)

	require.NoError(t, d.SetCursorPos(image.Pt(80, 5)))
	pos, _ = d.CursorPos()
	assert.Equal(t, image.Pt(19, 5), pos)

	require.NoError(t, d.ClipCursor(nil))
	_, clipped := d.Clip()
	assert.False(t, clipped)
	require.NoError(t, d.SetCursorPos(image.Pt(80, 5)))
	pos, _ = d.CursorPos()
	assert.Equal(t, image.Pt(80, 5), pos)
}

func TestMemoryDesktopCaptureAndCursor(t *testing.T) {
	screen := image.NewRGBA(image.Rect(0, 0, 4, 4))
	screen.SetRGBA(1, 2, color.RGBA{R: 9, A: 0xff})
	d := NewMemoryDesktop(screen)

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, d.Capture(dst))
	assert.Equal(t, screen.Pix, dst.Pix)

	c, err := d.Cursor()
	require.NoError(t, err)
	assert.True(t, c.Visible)
	assert.NotNil(t, c.Image)

	d.SetCursorVisible(false)
	c, _ = d.Cursor()
	assert.False(t, c.Visible)

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Capture(dst), ErrClosed)
}

func TestMemoryOutput(t *testing.T) {
	o := NewMemoryOutput()
	assert.NotEmpty(t, o.ID())
	assert.Nil(t, o.Last())

	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	frame.SetRGBA(0, 0, color.RGBA{B: 7, A: 0xff})
	require.NoError(t, o.Present(frame))
	assert.Equal(t, uint64(1), o.Frames())
	assert.Equal(t, frame.Pix, o.Last().Pix)

	require.NoError(t, o.Close())
	assert.ErrorIs(t, o.Present(frame), ErrClosed)
}

func TestArrowGlyph(t *testing.T) {
	g := ArrowGlyph(24)
	assert.Equal(t, image.Rect(0, 0, 24, 24), g.Bounds())
	_, _, _, a := g.At(4, 8).RGBA()
	assert.NotZero(t, a, "arrow body is opaque")
	_, _, _, a = g.At(22, 2).RGBA()
	assert.Zero(t, a, "outside the arrow is transparent")
}
