package tracking

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSSensor follows orientation samples that a headset driver publishes as
// JSON ({"yaw":..,"pitch":..,"roll":..}, radians) on a NATS subject.
type NATSSensor struct {
	sub *nats.Subscription

	mu     sync.Mutex
	raw    Orientation
	zero   Orientation
	latest bool
}

// AttachNATS returns an AttachFunc subscribing to subject on nc.
func AttachNATS(nc *nats.Conn, subject string) AttachFunc {
	return func() (Sensor, error) {
		if nc == nil || !nc.IsConnected() {
			return nil, fmt.Errorf("not connected to sensor feed")
		}
		s := &NATSSensor{}
		sub, err := nc.Subscribe(subject, s.handle)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.sub = sub
		log.Info().Str("subject", subject).Msg("orientation sensor attached")
		return s, nil
	}
}

func (s *NATSSensor) handle(msg *nats.Msg) {
	var o Orientation
	if err := json.Unmarshal(msg.Data, &o); err != nil {
		log.Warn().Err(err).Msg("dropping malformed orientation sample")
		return
	}
	s.mu.Lock()
	s.raw = o
	s.latest = true
	s.mu.Unlock()
}

func (s *NATSSensor) Orientation() (Orientation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.latest {
		return Orientation{}, false
	}
	return Orientation{
		Yaw:   wrap(s.raw.Yaw - s.zero.Yaw),
		Pitch: wrap(s.raw.Pitch - s.zero.Pitch),
		Roll:  wrap(s.raw.Roll - s.zero.Roll),
	}, true
}

// Reset makes the current pose the new origin.
func (s *NATSSensor) Reset() {
	s.mu.Lock()
	s.zero = s.raw
	s.mu.Unlock()
}

func (s *NATSSensor) Close() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Unsubscribe()
}

// wrap folds an angle into [-π, π].
func wrap(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}
