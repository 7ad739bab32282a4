// Package control carries messages between the controlling process and the
// scope: configuration updates and shutdown requests in, the output handoff,
// orientation telemetry and the shutdown acknowledgement out. Sending never
// blocks either side.
package control

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/iburimskiy/deskope/internal/config"
)

type Axis string

const (
	AxisYaw   Axis = "yaw"
	AxisPitch Axis = "pitch"
	AxisRoll  Axis = "roll"
)

// Event is a message from the scope to the controlling process.
type Event interface {
	Type() string
}

// Handoff tells the controller which output surface belongs to the scope.
type Handoff struct {
	OutputID string `json:"outputId"`
}

// Telemetry is one axis of an orientation report.
type Telemetry struct {
	Axis  Axis    `json:"axis"`
	Value float64 `json:"value"`
}

// ShutdownAck confirms that the scope released its resources and stopped.
type ShutdownAck struct{}

func (Handoff) Type() string     { return "handoff" }
func (Telemetry) Type() string   { return "telemetry" }
func (ShutdownAck) Type() string { return "shutdownAck" }

type Channel struct {
	updates  chan config.Update
	events   chan Event
	shutdown chan struct{}
	once     sync.Once
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 64
	}
	return &Channel{
		updates:  make(chan config.Update, size),
		events:   make(chan Event, size),
		shutdown: make(chan struct{}),
	}
}

// Send queues an update for the scope. It reports false when the queue is
// full and the update was dropped.
func (c *Channel) Send(u config.Update) bool {
	select {
	case c.updates <- u:
		return true
	default:
		log.Warn().Str("field", u.Field()).Msg("update queue full, dropping update")
		return false
	}
}

// RequestShutdown asks the scope to stop. Repeated calls are harmless.
func (c *Channel) RequestShutdown() {
	c.once.Do(func() { close(c.shutdown) })
}

// Events delivers scope messages to the controller.
func (c *Channel) Events() <-chan Event { return c.events }

func (c *Channel) Updates() <-chan config.Update { return c.updates }

func (c *Channel) ShutdownRequested() <-chan struct{} { return c.shutdown }

// Emit queues an event for the controller, dropping it when nobody keeps up.
func (c *Channel) Emit(e Event) bool {
	select {
	case c.events <- e:
		return true
	default:
		log.Debug().Str("type", e.Type()).Msg("event queue full, dropping event")
		return false
	}
}
