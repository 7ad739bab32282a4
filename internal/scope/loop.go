package scope

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/deskope/internal/config"
	"github.com/iburimskiy/deskope/internal/control"
	"github.com/iburimskiy/deskope/internal/display"
)

type task int

const (
	taskRender task = iota
	taskCapture
	taskReport
)

func (t task) String() string {
	switch t {
	case taskRender:
		return "render"
	case taskCapture:
		return "capture"
	case taskReport:
		return "report"
	default:
		return "unknown"
	}
}

// Report sends the latest orientation to the controller, one message per
// axis.
func (s *Scope) Report() {
	s.ch.Emit(control.Telemetry{Axis: control.AxisYaw, Value: s.orientation.Yaw})
	s.ch.Emit(control.Telemetry{Axis: control.AxisPitch, Value: s.orientation.Pitch})
	s.ch.Emit(control.Telemetry{Axis: control.AxisRoll, Value: s.orientation.Roll})
}

// Run hands the output to the controller and then executes the render,
// capture and report tasks and all controller updates one at a time until
// ctx is done, a shutdown is requested or the output goes away.
func (s *Scope) Run(ctx context.Context) error {
	s.ch.Emit(control.Handoff{OutputID: s.output.ID()})
	log.Info().
		Str("output", s.output.ID()).
		Int("render_hz", s.cfg.RenderRateHz).
		Int("capture_hz", s.cfg.CaptureRateHz).
		Msg("scope running")

	render := time.NewTicker(config.Period(s.cfg.RenderRateHz))
	defer render.Stop()
	capture := time.NewTicker(config.Period(s.cfg.CaptureRateHz))
	defer capture.Stop()
	report := time.NewTicker(config.Period(config.ReportRateHz))
	defer report.Stop()

	defer s.shutdown()

	for {
		var (
			t   task
			err error
		)
		select {
		case <-ctx.Done():
			s.drainUpdates()
			return nil
		case <-s.ch.ShutdownRequested():
			log.Info().Msg("shutdown requested")
			s.drainUpdates()
			return nil
		case u := <-s.ch.Updates():
			effect, err := s.Apply(u)
			if err != nil {
				continue
			}
			if effect.Has(config.EffectRetime) {
				capture.Reset(config.Period(s.cfg.CaptureRateHz))
				log.Debug().Int("capture_hz", s.cfg.CaptureRateHz).Msg("capture retimed")
			}
			continue
		case <-render.C:
			t, err = taskRender, s.Render()
		case <-capture.C:
			t, err = taskCapture, s.Capture()
		case <-report.C:
			t = taskReport
			s.Report()
		}

		if err == nil {
			continue
		}
		if errors.Is(err, display.ErrClosed) {
			log.Info().Stringer("task", t).Msg("display closed, stopping")
			return nil
		}
		log.Error().Err(err).Stringer("task", t).Msg("task failed")
	}
}

// drainUpdates applies the updates queued ahead of a stop request.
func (s *Scope) drainUpdates() {
	for {
		select {
		case u := <-s.ch.Updates():
			_, _ = s.Apply(u)
		default:
			return
		}
	}
}

func (s *Scope) shutdown() {
	if err := s.desktop.ClipCursor(nil); err != nil {
		log.Warn().Err(err).Msg("failed to release pointer")
	}
	if s.tracking {
		s.tracker.Disable()
		s.tracking = false
	}
	s.release()
	s.ch.Emit(control.ShutdownAck{})
	log.Info().Msg("scope stopped")
}
