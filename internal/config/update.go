package config

import "fmt"

// Update is a single-field change sent by the controlling process. Each
// variant carries its value in its natural type.
type Update interface {
	Field() string
}

type SetImageSeparation struct{ Pixels int }
type SetPixelsPerDegree struct{ Value int }
type SetClipCursor struct{ Enabled bool }
type ResetOrientation struct{}
type SetSBSOffset struct{ Pixels int }
type SetZoom struct{ Zoom float64 }
type SetTracking struct{ Enabled bool }
type SetCaptureRate struct{ Hz int }

func (SetImageSeparation) Field() string { return "imageSeparation" }
func (SetPixelsPerDegree) Field() string { return "pixelsPerDegree" }
func (SetClipCursor) Field() string      { return "clipCursor" }
func (ResetOrientation) Field() string   { return "resetOrientation" }
func (SetSBSOffset) Field() string       { return "sbsOffset" }
func (SetZoom) Field() string            { return "zoom" }
func (SetTracking) Field() string        { return "trackingEnabled" }
func (SetCaptureRate) Field() string     { return "captureRateHz" }

// Effect tells the owner of a Runtime what must happen after an update.
type Effect uint8

const (
	// EffectResize means the source extent and surfaces must be rebuilt and
	// the desktop recaptured before the next render.
	EffectResize Effect = 1 << iota
	// EffectRetime means the capture task period changed.
	EffectRetime
	// EffectTracking means the tracking mode was requested to change.
	EffectTracking
	// EffectReset means the orientation sensor must be re-zeroed.
	EffectReset
)

func (e Effect) Has(flag Effect) bool { return e&flag != 0 }

// Apply writes one update into the runtime. Invalid values are rejected and
// leave the runtime untouched.
func (r *Runtime) Apply(u Update) (Effect, error) {
	switch u := u.(type) {
	case SetImageSeparation:
		r.ImageSeparation = u.Pixels
		return EffectResize, nil
	case SetPixelsPerDegree:
		r.PixelsPerDegree = u.Value
		return 0, nil
	case SetClipCursor:
		r.ClipCursor = u.Enabled
		return 0, nil
	case ResetOrientation:
		return EffectReset, nil
	case SetSBSOffset:
		r.SBSOffset = u.Pixels
		return EffectResize, nil
	case SetZoom:
		if u.Zoom <= 0 {
			return 0, fmt.Errorf("%w: zoom %v must be positive", ErrInvalid, u.Zoom)
		}
		r.Zoom = u.Zoom
		return EffectResize, nil
	case SetTracking:
		return EffectTracking, nil
	case SetCaptureRate:
		if err := checkRate("capture", u.Hz); err != nil {
			return 0, err
		}
		r.CaptureRateHz = u.Hz
		return EffectRetime, nil
	case nil:
		return 0, fmt.Errorf("%w: nil update", ErrInvalid)
	default:
		return 0, fmt.Errorf("%w: unknown update %T", ErrInvalid, u)
	}
}
