// Package window shows composed frames on the head-mounted panel.
package window

import (
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/deskope/internal/display"
)

// Window is the borderless output window placed over the head-mounted panel.
// Present may be called from any goroutine; Run must own the main thread.
type Window struct {
	id     string
	x, y   int
	width  int
	height int

	mu     sync.Mutex
	frame  []byte
	dirty  bool
	closed bool

	screen *ebiten.Image
	done   chan struct{}
}

// New prepares an output window at the panel's virtual-desktop
// position. Nothing is shown until Run is called.
func New(x, y, width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, &display.Error{Operation: "create window", Err: errors.New("empty panel")}
	}
	return &Window{
		id:     uuid.NewString(),
		x:      x,
		y:      y,
		width:  width,
		height: height,
		frame:  make([]byte, width*height*4),
		done:   make(chan struct{}),
	}, nil
}

func (w *Window) ID() string { return w.id }

func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return &display.Error{Operation: "present", Err: display.ErrClosed}
	}
	if len(frame.Pix) != len(w.frame) {
		return &display.Error{Operation: "present", Err: errors.New("frame size does not match panel")}
	}
	copy(w.frame, frame.Pix)
	w.dirty = true
	return nil
}

// Run shows the window and blocks until Close is called or the window is
// closed by the user.
func (w *Window) Run() error {
	defer close(w.done)

	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowPosition(w.x, w.y)
	ebiten.SetWindowTitle("Deskope")
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return &display.Error{Operation: "run window", Err: err}
	}
	return nil
}

// Done is closed once Run has returned.
func (w *Window) Done() <-chan struct{} { return w.done }

func (w *Window) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func (w *Window) Update() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.screen == nil {
		w.screen = ebiten.NewImage(w.width, w.height)
	}

	w.mu.Lock()
	if w.dirty {
		w.screen.WritePixels(w.frame)
		w.dirty = false
	}
	w.mu.Unlock()

	screen.DrawImage(w.screen, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}
