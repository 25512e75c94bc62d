package keylight

import (
	"encoding/json"
	"fmt"
)

// PowerState is the on/off state of a light, encoded as 0 or 1 on the wire.
type PowerState int

const (
	PowerOff PowerState = 0
	PowerOn  PowerState = 1
)

// Toggle returns the opposite power state.
func (p PowerState) Toggle() PowerState {
	if p == PowerOn {
		return PowerOff
	}
	return PowerOn
}

// String returns "on" or "off".
func (p PowerState) String() string {
	if p == PowerOn {
		return "on"
	}
	return "off"
}

// UnmarshalJSON validates that the device sent 0 or 1.
func (p *PowerState) UnmarshalJSON(data []byte) error {
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value != 0 && value != 1 {
		return NewValidationError(fmt.Sprintf("power state must be 0 or 1, got %d", value))
	}
	*p = PowerState(value)
	return nil
}

// Light is the state of a single light as the device reports it.
type Light struct {
	On          PowerState  `json:"on"`
	Brightness  Brightness  `json:"brightness"`
	Temperature Temperature `json:"temperature"`
}

// Status is the device's light state document, exchanged verbatim with
// GET/PUT {base}/elgato/lights.
type Status struct {
	NumberOfLights int     `json:"numberOfLights"`
	Lights         []Light `json:"lights"`
}

// Light returns a pointer into the status for the light at index, so callers
// can modify it in place before a SetStatus.
func (s *Status) Light(index int) (*Light, error) {
	if index < 0 || index >= len(s.Lights) {
		return nil, NewValidationError(fmt.Sprintf("invalid light index %d (device has %d lights)", index, len(s.Lights)))
	}
	return &s.Lights[index], nil
}

// First returns the first light. Single-light devices are the norm, so most
// callers go through this.
func (s *Status) First() (*Light, error) {
	return s.Light(0)
}

// SetPower sets the power state of the light at index.
func (s *Status) SetPower(index int, state PowerState) error {
	light, err := s.Light(index)
	if err != nil {
		return err
	}
	light.On = state
	return nil
}

// SetPowerAll sets the power state of every light.
func (s *Status) SetPowerAll(state PowerState) {
	for i := range s.Lights {
		s.Lights[i].On = state
	}
}

// TogglePower flips the power state of the light at index.
func (s *Status) TogglePower(index int) error {
	light, err := s.Light(index)
	if err != nil {
		return err
	}
	light.On = light.On.Toggle()
	return nil
}
