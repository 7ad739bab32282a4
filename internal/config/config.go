package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultRenderRateHz  = 60
	DefaultCaptureRateHz = 60
	ReportRateHz         = 10
	MaxRateHz            = 1000 // upper bound for render and capture rates

	DefaultZoom            = 1.0
	DefaultPixelsPerDegree = 20
	DefaultCursorBorder    = 0.3

	// Stand-in panel geometry used when no headset is attached
	StandInPanelWidth  = 1280
	StandInPanelHeight = 800
	StandInPanelX      = 1920
	StandInPanelY      = 0
)

var ErrInvalid = errors.New("invalid configuration value")

// Runtime holds the parameters the controlling process may change while the
// pipeline is running. It is owned by the scope loop and never shared.
type Runtime struct {
	Zoom            float64
	ImageSeparation int
	SBSOffset       int
	PixelsPerDegree int
	ClipCursor      bool
	CaptureRateHz   int
	RenderRateHz    int
	CursorBorder    float64
}

func DefaultRuntime() Runtime {
	return Runtime{
		Zoom:            DefaultZoom,
		PixelsPerDegree: DefaultPixelsPerDegree,
		CaptureRateHz:   DefaultCaptureRateHz,
		RenderRateHz:    DefaultRenderRateHz,
		CursorBorder:    DefaultCursorBorder,
	}
}

func (r Runtime) Validate() error {
	if r.Zoom <= 0 {
		return fmt.Errorf("%w: zoom %v must be positive", ErrInvalid, r.Zoom)
	}
	if err := checkRate("capture", r.CaptureRateHz); err != nil {
		return err
	}
	if err := checkRate("render", r.RenderRateHz); err != nil {
		return err
	}
	if r.CursorBorder <= 0 || r.CursorBorder > 1 {
		return fmt.Errorf("%w: cursor border %v outside (0,1]", ErrInvalid, r.CursorBorder)
	}
	return nil
}

func checkRate(name string, hz int) error {
	if hz <= 0 || hz > MaxRateHz {
		return fmt.Errorf("%w: %s rate %d outside 1..%d Hz", ErrInvalid, name, hz, MaxRateHz)
	}
	return nil
}

// Period converts a tick rate into a ticker interval.
func Period(hz int) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Second / time.Duration(hz)
}

// Settings is the startup configuration, read from DESKOPE_* environment
// variables and then overridden by command line flags.
type Settings struct {
	Backend  string `envconfig:"BACKEND" default:"x11"`
	NoHMD    bool   `envconfig:"NO_HMD" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	PanelWidth  int `envconfig:"PANEL_WIDTH" default:"1280"`
	PanelHeight int `envconfig:"PANEL_HEIGHT" default:"800"`
	PanelX      int `envconfig:"PANEL_X" default:"1920"`
	PanelY      int `envconfig:"PANEL_Y" default:"0"`

	Zoom            float64 `envconfig:"ZOOM" default:"1.0"`
	ImageSeparation int     `envconfig:"IMAGE_SEPARATION" default:"0"`
	SBSOffset       int     `envconfig:"SBS_OFFSET" default:"0"`
	PixelsPerDegree int     `envconfig:"PIXELS_PER_DEGREE" default:"20"`
	ClipCursor      bool    `envconfig:"CLIP_CURSOR" default:"false"`
	CaptureRateHz   int     `envconfig:"CAPTURE_RATE" default:"60"`
	RenderRateHz    int     `envconfig:"RENDER_RATE" default:"60"`
	CursorBorder    float64 `envconfig:"CURSOR_BORDER" default:"0.3"`

	NATSURL     string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSSubject string `envconfig:"NATS_SUBJECT" default:"deskope.orientation"`

	BridgeAddr string `envconfig:"BRIDGE_ADDR" default:"127.0.0.1:7331"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("DESKOPE", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// Runtime returns the initial runtime parameters described by the settings.
func (s Settings) Runtime() (Runtime, error) {
	r := Runtime{
		Zoom:            s.Zoom,
		ImageSeparation: s.ImageSeparation,
		SBSOffset:       s.SBSOffset,
		PixelsPerDegree: s.PixelsPerDegree,
		ClipCursor:      s.ClipCursor,
		CaptureRateHz:   s.CaptureRateHz,
		RenderRateHz:    s.RenderRateHz,
		CursorBorder:    s.CursorBorder,
	}
	if err := r.Validate(); err != nil {
		return Runtime{}, err
	}
	return r, nil
}
