package surface

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func pattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x ^ y), A: 0xff})
		}
	}
	return img
}

func TestNewAndResize(t *testing.T) {
	s, err := New(4, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), s.Bounds())
	assert.Equal(t, Clear, s.RGBAAt(2, 2))

	same, err := Resize(s, 4, 3)
	require.NoError(t, err)
	assert.Same(t, s, same)

	bigger, err := Resize(s, 8, 3)
	require.NoError(t, err)
	assert.NotSame(t, s, bigger)
	assert.Equal(t, 8, bigger.Bounds().Dx())

	_, err = New(0, 10)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestTransformIdentity(t *testing.T) {
	m := Transform(image.Rect(0, 0, 64, 48), 1, 0, image.Point{})
	pts := Parallelogram(image.Rect(0, 0, 64, 48), m)
	assert.Equal(t, gg.Pt(0, 0), pts[0])
	assert.Equal(t, gg.Pt(64, 0), pts[1])
	assert.Equal(t, gg.Pt(0, 48), pts[2])
}

func TestTransformZoomAndAnchor(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)
	m := Transform(bounds, 2, 0, image.Pt(10, -5))
	pts := Parallelogram(bounds, m)

	// center (50,40); (0,0) -> (-50,-40) -> (-100,-80) -> (-110,-75) -> (-60,-35)
	assert.InDelta(t, -60, pts[0].X, 1e-9)
	assert.InDelta(t, -35, pts[0].Y, 1e-9)
	assert.InDelta(t, 140, pts[1].X, 1e-9)
	assert.InDelta(t, 125, pts[2].Y, 1e-9)
}

func TestTransformRollKeepsCenter(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)
	m := Transform(bounds, 1, math.Pi/2, image.Point{})
	c := m.TransformPoint(gg.Pt(100, 50))
	assert.InDelta(t, 100, c.X, 1e-9)
	assert.InDelta(t, 50, c.Y, 1e-9)

	// a quarter turn maps (x,y) around the center to (cx-(y-cy), cy+(x-cx))
	pts := Parallelogram(bounds, m)
	assert.InDelta(t, 150, pts[0].X, 1e-9)
	assert.InDelta(t, -50, pts[0].Y, 1e-9)
	assert.InDelta(t, 150, pts[1].X, 1e-9)
	assert.InDelta(t, 150, pts[1].Y, 1e-9)
	assert.InDelta(t, 50, pts[2].X, 1e-9)
	assert.InDelta(t, -50, pts[2].Y, 1e-9)
}

func TestAffineBlitIdentityIsExactCopy(t *testing.T) {
	src := pattern(32, 24)
	for name, interp := range map[string]draw.Transformer{
		"nearest":  draw.NearestNeighbor,
		"bilinear": draw.ApproxBiLinear,
	} {
		t.Run(name, func(t *testing.T) {
			dst, err := New(32, 24)
			require.NoError(t, err)
			pts := Parallelogram(src.Bounds(), Transform(src.Bounds(), 1, 0, image.Point{}))
			AffineBlit(dst, src, pts, interp)
			assert.Equal(t, src.Pix, dst.Pix)
		})
	}
}

func TestAffineBlitTranslation(t *testing.T) {
	src := pattern(16, 16)
	dst, err := New(16, 16)
	require.NoError(t, err)

	pts := Parallelogram(src.Bounds(), Transform(src.Bounds(), 1, 0, image.Pt(4, 2)))
	AffineBlit(dst, src, pts, draw.NearestNeighbor)

	assert.Equal(t, src.RGBAAt(4, 2), dst.RGBAAt(0, 0))
	assert.Equal(t, src.RGBAAt(15, 15), dst.RGBAAt(11, 13))
	assert.Equal(t, Clear, dst.RGBAAt(15, 15))
}

func TestCopyClearsOutsideSource(t *testing.T) {
	src := pattern(8, 8)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	Fill(dst, dst.Bounds(), color.RGBA{R: 0xff, A: 0xff})

	Copy(dst, image.Rect(0, 0, 4, 4), src, image.Pt(6, 2))
	assert.Equal(t, src.RGBAAt(6, 2), dst.RGBAAt(0, 0))
	assert.Equal(t, src.RGBAAt(7, 5), dst.RGBAAt(1, 3))
	assert.Equal(t, Clear, dst.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(4, 0))
}

func TestDrawScaled(t *testing.T) {
	dst, err := New(10, 10)
	require.NoError(t, err)
	DrawScaled(dst, image.Rect(2, 2, 6, 6), solid(2, 2, color.RGBA{G: 0xff, A: 0xff}))
	got := dst.RGBAAt(3, 3)
	assert.Zero(t, got.R)
	assert.GreaterOrEqual(t, got.G, uint8(0xfe))
	assert.Equal(t, Clear, dst.RGBAAt(7, 7))
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Fill(img, img.Bounds(), c)
	return img
}
