// Package scope is the capture, transform and compose pipeline. A Scope owns
// every surface and all runtime state; Run drives it from a single goroutine,
// so none of that state is locked.
package scope

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/control"
	"github.com/iburimskiy/deskope/internal/display"
	"github.com/iburimskiy/deskope/internal/geometry"
	"github.com/iburimskiy/deskope/internal/notify"
	"github.com/iburimskiy/deskope/internal/surface"
	"github.com/iburimskiy/deskope/internal/tracking"
)

// SetupError is a failure that prevents the scope from starting.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s failed: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

type Options struct {
	Geometry geometry.Geometry
	Runtime  config.Runtime
	Desktop  display.Desktop
	Output   display.Output
	Tracker  tracking.Provider
	Channel  *control.Channel
	Notifier notify.Notifier
	// Interp resamples the desktop during the roll/zoom transform.
	// ApproxBiLinear when nil.
	Interp draw.Transformer
}

type Scope struct {
	geo      geometry.Geometry
	cfg      config.Runtime
	extent   geometry.SourceExtent
	desktop  display.Desktop
	output   display.Output
	tracker  tracking.Provider
	ch       *control.Channel
	notifier notify.Notifier
	interp   draw.Transformer

	tracking    bool
	orientation tracking.Orientation

	snapshot *image.RGBA
	composed *image.RGBA
	frame    *image.RGBA

	captureAnchor image.Point
}

// New validates the setup, allocates the surfaces and takes the first
// capture. Any error it returns is a *SetupError.
func New(opts Options) (*Scope, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, &SetupError{Stage: "display geometry", Err: err}
	}
	if err := opts.Runtime.Validate(); err != nil {
		return nil, &SetupError{Stage: "configuration", Err: err}
	}
	if opts.Desktop == nil || opts.Output == nil || opts.Tracker == nil || opts.Channel == nil {
		return nil, &SetupError{Stage: "collaborators", Err: fmt.Errorf("desktop, output, tracker and channel are required")}
	}

	s := &Scope{
		geo:      opts.Geometry,
		cfg:      opts.Runtime,
		desktop:  opts.Desktop,
		output:   opts.Output,
		tracker:  opts.Tracker,
		ch:       opts.Channel,
		notifier: opts.Notifier,
		interp:   opts.Interp,
	}
	if s.notifier == nil {
		s.notifier = notify.Log{}
	}
	if s.interp == nil {
		s.interp = draw.ApproxBiLinear
	}

	frame, err := surface.New(s.geo.PanelWidth, s.geo.PanelHeight)
	if err != nil {
		return nil, &SetupError{Stage: "output surface", Err: err}
	}
	s.frame = frame

	if err := s.resize(); err != nil {
		return nil, &SetupError{Stage: "capture surfaces", Err: err}
	}
	return s, nil
}

// resize recomputes the source extent, makes sure the snapshot and composed
// surfaces match the desktop, and recaptures so that the next render never
// reads a surface prepared for stale values.
func (s *Scope) resize() error {
	s.extent = s.geo.Extent(s.cfg.Zoom)

	var err error
	if s.snapshot, err = surface.Resize(s.snapshot, s.geo.MainWidth, s.geo.MainHeight); err != nil {
		return err
	}
	if s.composed, err = surface.Resize(s.composed, s.geo.MainWidth, s.geo.MainHeight); err != nil {
		return err
	}

	log.Debug().
		Float64("zoom", s.cfg.Zoom).
		Int("src_width", s.extent.Width).
		Int("src_height", s.extent.Height).
		Msg("source resized")
	return s.Capture()
}

// Apply writes one controller update and carries out its side effects.
func (s *Scope) Apply(u config.Update) (config.Effect, error) {
	if u == nil {
		return 0, fmt.Errorf("%w: nil update", config.ErrInvalid)
	}
	effect, err := s.cfg.Apply(u)
	if err != nil {
		log.Warn().Err(err).Str("field", u.Field()).Msg("rejected update")
		return 0, err
	}
	log.Debug().Str("field", u.Field()).Interface("update", u).Msg("update applied")

	if effect.Has(config.EffectTracking) {
		s.setTracking(u.(config.SetTracking).Enabled)
	}
	if effect.Has(config.EffectReset) {
		s.tracker.Reset()
	}
	if effect.Has(config.EffectResize) {
		if err := s.resize(); err != nil {
			return effect, err
		}
	}
	return effect, nil
}

func (s *Scope) setTracking(enable bool) {
	if !enable {
		s.tracker.Disable()
		s.tracking = false
		s.orientation = tracking.Orientation{}
		log.Info().Msg("tracking disabled")
		return
	}
	if err := s.tracker.Enable(); err != nil {
		s.tracking = false
		log.Warn().Err(err).Msg("tracking unavailable, staying in pointer mode")
		go s.notifier.Error("Error", "Headset not found.")
		return
	}
	s.tracking = true
	log.Info().Msg("tracking enabled")
}

// Runtime returns the current runtime parameters.
func (s *Scope) Runtime() config.Runtime { return s.cfg }

// Extent returns the current per-eye source extent.
func (s *Scope) Extent() geometry.SourceExtent { return s.extent }

// Tracking reports whether anchors follow the head.
func (s *Scope) Tracking() bool { return s.tracking }

func (s *Scope) release() {
	s.snapshot = nil
	s.composed = nil
	s.frame = nil
}
