package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/control"
	"github.com/iburimskiy/deskope/internal/display"
	"github.com/iburimskiy/deskope/internal/display/window"
	"github.com/iburimskiy/deskope/internal/geometry"
	"github.com/iburimskiy/deskope/internal/notify"
	"github.com/iburimskiy/deskope/internal/scope"
	"github.com/iburimskiy/deskope/internal/surface"
	"github.com/iburimskiy/deskope/internal/tracking"
)

const (
	backendX11    = "x11"
	backendMemory = "memory"

	// Desktop size of the memory backend
	headlessWidth  = 1920
	headlessHeight = 1080

	// How long the controller bridge may take to deliver the shutdown
	// acknowledgement after the scope stopped.
	ackWait = 2 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := &cobra.Command{
		Use:           "deskope",
		Short:         "Deskope",
		Long:          `Shows the desktop in a head-mounted display as a stereo side-by-side image`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), settings)
		},
	}

	f := cmd.Flags()
	f.StringVar(&settings.Backend, "backend", settings.Backend, "desktop backend (x11 or memory)")
	f.BoolVar(&settings.NoHMD, "no-hmd", settings.NoHMD, "run without a headset using the stand-in panel geometry")
	f.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level (debug, info, warn, error)")
	f.IntVar(&settings.PanelWidth, "panel-width", settings.PanelWidth, "headset panel width in pixels")
	f.IntVar(&settings.PanelHeight, "panel-height", settings.PanelHeight, "headset panel height in pixels")
	f.IntVar(&settings.PanelX, "panel-x", settings.PanelX, "headset panel position on the virtual desktop")
	f.IntVar(&settings.PanelY, "panel-y", settings.PanelY, "headset panel position on the virtual desktop")
	f.Float64Var(&settings.Zoom, "zoom", settings.Zoom, "initial zoom factor")
	f.IntVar(&settings.ImageSeparation, "image-separation", settings.ImageSeparation, "initial eye separation in pixels")
	f.IntVar(&settings.SBSOffset, "sbs-offset", settings.SBSOffset, "initial side-by-side offset in pixels")
	f.IntVar(&settings.PixelsPerDegree, "pixels-per-degree", settings.PixelsPerDegree, "head rotation to desktop pixels")
	f.BoolVar(&settings.ClipCursor, "clip-cursor", settings.ClipCursor, "keep the pointer inside the visible area")
	f.IntVar(&settings.CaptureRateHz, "capture-rate", settings.CaptureRateHz, "desktop capture rate in Hz")
	f.IntVar(&settings.RenderRateHz, "render-rate", settings.RenderRateHz, "panel refresh rate in Hz")
	f.Float64Var(&settings.CursorBorder, "cursor-border", settings.CursorBorder, "pointer safe zone as a fraction of the source area")
	f.StringVar(&settings.NATSURL, "nats-url", settings.NATSURL, "NATS server carrying the headset orientation feed")
	f.StringVar(&settings.NATSSubject, "nats-subject", settings.NATSSubject, "subject of the orientation feed")
	f.StringVar(&settings.BridgeAddr, "bridge-addr", settings.BridgeAddr, "listen address of the controller bridge")

	cmd.SetContext(context.Background())
	return cmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func run(ctx context.Context, settings config.Settings) error {
	if err := setupLogging(settings.LogLevel); err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Dialog{}
	if settings.Backend == backendMemory {
		notifier = notify.Log{}
	}
	fail := func(err error) error {
		notifier.Error("Error", err.Error())
		return err
	}

	runtime, err := settings.Runtime()
	if err != nil {
		return fail(&scope.SetupError{Stage: "configuration", Err: err})
	}

	desktop, err := openDesktop(settings.Backend)
	if err != nil {
		return fail(&scope.SetupError{Stage: "desktop", Err: err})
	}
	defer desktop.Close()

	geo := panelGeometry(desktop.Bounds(), settings)
	log.Info().
		Int("main_width", geo.MainWidth).
		Int("main_height", geo.MainHeight).
		Int("panel_width", geo.PanelWidth).
		Int("panel_height", geo.PanelHeight).
		Int("panel_x", geo.PanelX).
		Int("panel_y", geo.PanelY).
		Msg("display geometry")

	var tracker tracking.Provider
	if settings.NoHMD {
		tracker = tracking.NewFixed(tracking.Orientation{})
	} else {
		nc, err := nats.Connect(settings.NATSURL, nats.Name("deskope"))
		if err != nil {
			log.Error().Err(err).Str("url", settings.NATSURL).Msg("failed to reach the orientation feed")
			notifier.Error("Error", "Headset not found.")
			return &scope.SetupError{Stage: "tracking provider", Err: tracking.ErrNoSensor}
		}
		defer nc.Close()
		tracker = tracking.NewHMD(tracking.AttachNATS(nc, settings.NATSSubject))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ch := control.NewChannel(0)

	if settings.Backend == backendMemory {
		output := display.NewMemoryOutput()
		defer output.Close()
		sc, err := newScope(geo, runtime, desktop, output, tracker, ch, notifier)
		if err != nil {
			return fail(err)
		}
		ctl, err := startController(ch, settings.BridgeAddr)
		if err != nil {
			return fail(&scope.SetupError{Stage: "controller bridge", Err: err})
		}
		defer ctl.stop(ackWait)
		return sc.Run(ctx)
	}

	win, err := window.New(geo.PanelX, geo.PanelY, geo.PanelWidth, geo.PanelHeight)
	if err != nil {
		return fail(&scope.SetupError{Stage: "output surface", Err: err})
	}
	sc, err := newScope(geo, runtime, desktop, win, tracker, ch, notifier)
	if err != nil {
		return fail(err)
	}
	ctl, err := startController(ch, settings.BridgeAddr)
	if err != nil {
		return fail(&scope.SetupError{Stage: "controller bridge", Err: err})
	}
	defer ctl.stop(ackWait)

	done := make(chan error, 1)
	go func() {
		done <- sc.Run(ctx)
		win.Close()
	}()

	// The window owns the main thread until it is closed from either side.
	if err := win.Run(); err != nil {
		log.Error().Err(err).Msg("output window failed")
	}
	ch.RequestShutdown()
	return <-done
}

// controller is the websocket bridge serving the external controller. It
// outlives the scope so the shutdown acknowledgement still gets delivered.
type controller struct {
	ln     net.Listener
	cancel context.CancelFunc
	done   chan struct{}
}

func startController(ch *control.Channel, addr string) (*controller, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &controller{ln: ln, cancel: cancel, done: make(chan struct{})}

	bridge := control.NewBridge(ch)
	go func() {
		defer close(c.done)
		bridge.Run(ctx)
	}()
	go func() {
		if err := bridge.Serve(ctx, ln); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("controller bridge stopped")
		}
	}()
	return c, nil
}

func (c *controller) addr() string { return c.ln.Addr().String() }

// stop waits for the bridge to flush the shutdown acknowledgement, then
// closes the listener.
func (c *controller) stop(timeout time.Duration) {
	select {
	case <-c.done:
	case <-time.After(timeout):
		log.Warn().Dur("timeout", timeout).Msg("controller bridge did not see the shutdown acknowledgement")
	}
	c.cancel()
	<-c.done
}

func newScope(
	geo geometry.Geometry,
	runtime config.Runtime,
	desktop display.Desktop,
	output display.Output,
	tracker tracking.Provider,
	ch *control.Channel,
	notifier notify.Notifier,
) (*scope.Scope, error) {
	return scope.New(scope.Options{
		Geometry: geo,
		Runtime:  runtime,
		Desktop:  desktop,
		Output:   output,
		Tracker:  tracker,
		Channel:  ch,
		Notifier: notifier,
	})
}

func openDesktop(backend string) (display.Desktop, error) {
	switch backend {
	case backendX11:
		d, err := display.NewX11Desktop()
		if err != nil {
			return nil, err
		}
		return d, nil
	case backendMemory:
		screen, err := surface.New(headlessWidth, headlessHeight)
		if err != nil {
			return nil, err
		}
		return display.NewMemoryDesktop(screen), nil
	default:
		return nil, errors.New("unknown backend " + backend)
	}
}

func panelGeometry(bounds image.Rectangle, settings config.Settings) geometry.Geometry {
	g := geometry.Geometry{
		MainWidth:   bounds.Dx(),
		MainHeight:  bounds.Dy(),
		PanelWidth:  settings.PanelWidth,
		PanelHeight: settings.PanelHeight,
		PanelX:      settings.PanelX,
		PanelY:      settings.PanelY,
	}
	if settings.NoHMD {
		g.PanelWidth = config.StandInPanelWidth
		g.PanelHeight = config.StandInPanelHeight
		g.PanelX = config.StandInPanelX
		g.PanelY = config.StandInPanelY
	}
	return g
}
