package window

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/deskope/internal/display"
)

func TestWindowPresentBeforeRun(t *testing.T) {
	w, err := New(1920, 0, 4, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID())

	require.NoError(t, w.Present(image.NewRGBA(image.Rect(0, 0, 4, 2))))
	assert.Error(t, w.Present(image.NewRGBA(image.Rect(0, 0, 2, 2))))

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Present(image.NewRGBA(image.Rect(0, 0, 4, 2))), display.ErrClosed)

	_, err = New(0, 0, 0, 10)
	assert.Error(t, err)
}

func TestWindowUpdateTerminatesAfterClose(t *testing.T) {
	w, err := New(0, 0, 4, 2)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Update(), ebiten.Termination)
}
