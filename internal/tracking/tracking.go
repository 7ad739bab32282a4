// Package tracking provides head orientation to the pipeline. A provider is
// chosen at startup: HMD reads a real sensor, Fixed stands in when no
// headset is attached.
package tracking

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoSensor = errors.New("orientation sensor not available")

// Orientation is a head pose in radians.
type Orientation struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

type Provider interface {
	// Enable attaches the sensor. It fails with ErrNoSensor when none is present.
	Enable() error
	Disable()
	// Latest returns the most recent sample; ok is false until one arrived.
	Latest() (o Orientation, ok bool)
	// Reset re-zeroes the sensor at the current pose.
	Reset()
}

// Sensor is a fused orientation stream of a head-mounted device.
type Sensor interface {
	Orientation() (Orientation, bool)
	Reset()
	Close() error
}

// AttachFunc opens the device sensor.
type AttachFunc func() (Sensor, error)

// HMD is the provider for a real head-mounted device.
type HMD struct {
	attach AttachFunc

	mu     sync.Mutex
	sensor Sensor
}

func NewHMD(attach AttachFunc) *HMD {
	return &HMD{attach: attach}
}

func (h *HMD) Enable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sensor != nil {
		return nil
	}
	if h.attach == nil {
		return ErrNoSensor
	}
	s, err := h.attach()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoSensor, err)
	}
	h.sensor = s
	return nil
}

func (h *HMD) Disable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sensor != nil {
		_ = h.sensor.Close()
		h.sensor = nil
	}
}

func (h *HMD) Latest() (Orientation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sensor == nil {
		return Orientation{}, false
	}
	return h.sensor.Orientation()
}

func (h *HMD) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sensor != nil {
		h.sensor.Reset()
	}
}

// Fixed reports a constant pose once enabled.
type Fixed struct {
	mu      sync.Mutex
	value   Orientation
	enabled bool
}

func NewFixed(value Orientation) *Fixed {
	return &Fixed{value: value}
}

func (f *Fixed) Enable() error {
	f.mu.Lock()
	f.enabled = true
	f.mu.Unlock()
	return nil
}

func (f *Fixed) Disable() {
	f.mu.Lock()
	f.enabled = false
	f.mu.Unlock()
}

func (f *Fixed) Latest() (Orientation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return Orientation{}, false
	}
	return f.value, true
}

func (f *Fixed) Reset() {}
