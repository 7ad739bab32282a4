package control

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iburimskiy/deskope/internal/config"
)

var ErrUnknownField = errors.New("unknown update field")

// request is a message from the controller: {"type":"update","field":..,"value":..}
// or {"type":"shutdown"}.
type request struct {
	Type  string          `json:"type"`
	Field string          `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

type wireEvent struct {
	Type     string   `json:"type"`
	OutputID string   `json:"outputId,omitempty"`
	Axis     Axis     `json:"axis,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// DecodeUpdate builds the typed update for a field name and its JSON value.
func DecodeUpdate(field string, raw json.RawMessage) (config.Update, error) {
	var (
		i int
		f float64
		b bool
	)
	decode := func(v any) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		return nil
	}

	switch field {
	case "imageSeparation":
		if err := decode(&i); err != nil {
			return nil, err
		}
		return config.SetImageSeparation{Pixels: i}, nil
	case "pixelsPerDegree":
		if err := decode(&i); err != nil {
			return nil, err
		}
		return config.SetPixelsPerDegree{Value: i}, nil
	case "clipCursor":
		if err := decode(&b); err != nil {
			return nil, err
		}
		return config.SetClipCursor{Enabled: b}, nil
	case "resetOrientation":
		return config.ResetOrientation{}, nil
	case "sbsOffset":
		if err := decode(&i); err != nil {
			return nil, err
		}
		return config.SetSBSOffset{Pixels: i}, nil
	case "zoom":
		if err := decode(&f); err != nil {
			return nil, err
		}
		return config.SetZoom{Zoom: f}, nil
	case "trackingEnabled":
		if err := decode(&b); err != nil {
			return nil, err
		}
		return config.SetTracking{Enabled: b}, nil
	case "captureRateHz":
		if err := decode(&i); err != nil {
			return nil, err
		}
		return config.SetCaptureRate{Hz: i}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func encodeEvent(e Event) ([]byte, error) {
	w := wireEvent{Type: e.Type()}
	switch e := e.(type) {
	case Handoff:
		w.OutputID = e.OutputID
	case Telemetry:
		v := e.Value
		w.Axis = e.Axis
		w.Value = &v
	}
	return json.Marshal(w)
}
