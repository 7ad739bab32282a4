package main

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/control"
	"github.com/iburimskiy/deskope/internal/display"
	"github.com/iburimskiy/deskope/internal/geometry"
	"github.com/iburimskiy/deskope/internal/notify"
	"github.com/iburimskiy/deskope/internal/surface"
	"github.com/iburimskiy/deskope/internal/tracking"
)

func TestPanelGeometry(t *testing.T) {
	settings := config.Settings{PanelWidth: 1920, PanelHeight: 1080, PanelX: 2560, PanelY: 10}
	bounds := image.Rect(0, 0, 2560, 1440)

	assert.Equal(t, geometry.Geometry{
		MainWidth: 2560, MainHeight: 1440,
		PanelWidth: 1920, PanelHeight: 1080,
		PanelX: 2560, PanelY: 10,
	}, panelGeometry(bounds, settings))

	settings.NoHMD = true
	assert.Equal(t, geometry.Geometry{
		MainWidth: 2560, MainHeight: 1440,
		PanelWidth: 1280, PanelHeight: 800,
		PanelX: 1920, PanelY: 0,
	}, panelGeometry(bounds, settings))
}

func TestOpenDesktop(t *testing.T) {
	d, err := openDesktop(backendMemory)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, image.Rect(0, 0, headlessWidth, headlessHeight), d.Bounds())

	_, err = openDesktop("wayland")
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, setupLogging("DEBUG"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Error(t, setupLogging("loud"))
}

func TestRootCmdFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DESKOPE_ZOOM", "1.5")
	t.Setenv("DESKOPE_BACKEND", "memory")

	cmd := newRootCmd()
	zoom, err := cmd.Flags().GetFloat64("zoom")
	require.NoError(t, err)
	assert.Equal(t, 1.5, zoom)

	require.NoError(t, cmd.Flags().Set("zoom", "3"))
	zoom, err = cmd.Flags().GetFloat64("zoom")
	require.NoError(t, err)
	assert.Equal(t, 3.0, zoom)

	backend, err := cmd.Flags().GetString("backend")
	require.NoError(t, err)
	assert.Equal(t, backendMemory, backend)
}

func TestShutdownAckReachesController(t *testing.T) {
	tests := []struct {
		name string
		stop func(t *testing.T, conn *websocket.Conn, cancel context.CancelFunc)
	}{
		{
			name: "controller request",
			stop: func(t *testing.T, conn *websocket.Conn, _ context.CancelFunc) {
				require.NoError(t, conn.WriteJSON(map[string]any{"type": "shutdown"}))
			},
		},
		{
			name: "signal",
			stop: func(_ *testing.T, _ *websocket.Conn, cancel context.CancelFunc) {
				cancel()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen, err := surface.New(64, 48)
			require.NoError(t, err)
			output := display.NewMemoryOutput()
			defer output.Close()

			ch := control.NewChannel(0)
			sc, err := newScope(
				geometry.Geometry{MainWidth: 64, MainHeight: 48, PanelWidth: 32, PanelHeight: 24},
				config.DefaultRuntime(),
				display.NewMemoryDesktop(screen),
				output,
				tracking.NewFixed(tracking.Orientation{}),
				ch,
				notify.Log{},
			)
			require.NoError(t, err)

			ctl, err := startController(ch, "127.0.0.1:0")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- sc.Run(ctx) }()

			conn, _, err := websocket.DefaultDialer.Dial("ws://"+ctl.addr()+"/control", nil)
			require.NoError(t, err)
			defer conn.Close()
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

			var m map[string]any
			require.NoError(t, conn.ReadJSON(&m))
			require.Equal(t, "handoff", m["type"])

			tt.stop(t, conn, cancel)
			for m["type"] != "shutdownAck" {
				m = nil
				require.NoError(t, conn.ReadJSON(&m))
			}

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("scope did not stop")
			}
			ctl.stop(2 * time.Second)
			select {
			case <-ctl.done:
			default:
				t.Fatal("bridge still running")
			}
		})
	}
}
