package keylight

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Brightness is a light brightness percentage, valid range 0-100.
type Brightness int

const (
	MinBrightness Brightness = 0
	MaxBrightness Brightness = 100
)

// NewBrightness validates and constructs a Brightness.
func NewBrightness(value int) (Brightness, error) {
	if value < int(MinBrightness) || value > int(MaxBrightness) {
		return 0, NewValidationError(fmt.Sprintf("brightness must be %d-%d, got %d", MinBrightness, MaxBrightness, value))
	}
	return Brightness(value), nil
}

// Add returns the brightness shifted by delta, saturating at the range bounds.
func (b Brightness) Add(delta int) Brightness {
	return Brightness(min(max(int(b)+delta, int(MinBrightness)), int(MaxBrightness)))
}

// String implements pflag.Value.
func (b Brightness) String() string {
	return strconv.Itoa(int(b))
}

// Type implements pflag.Value.
func (b Brightness) Type() string {
	return "brightness"
}

// Set implements pflag.Value, so out-of-range values are rejected at flag parse time.
func (b *Brightness) Set(s string) error {
	value, err := strconv.Atoi(s)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid brightness %q: not a number", s))
	}
	parsed, err := NewBrightness(value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalJSON validates before encoding so an out-of-range value never
// reaches the device.
func (b Brightness) MarshalJSON() ([]byte, error) {
	if _, err := NewBrightness(int(b)); err != nil {
		return nil, err
	}
	return json.Marshal(int(b))
}

// UnmarshalJSON validates the device payload on decode.
func (b *Brightness) UnmarshalJSON(data []byte) error {
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := NewBrightness(value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Temperature is a light color temperature in device mireds, valid range
// 143-344 (roughly 7000K down to 2900K).
type Temperature int

const (
	MinTemperature Temperature = 143
	MaxTemperature Temperature = 344
)

// NewTemperature validates and constructs a Temperature.
func NewTemperature(value int) (Temperature, error) {
	if value < int(MinTemperature) || value > int(MaxTemperature) {
		return 0, NewValidationError(fmt.Sprintf("temperature must be %d-%d, got %d", MinTemperature, MaxTemperature, value))
	}
	return Temperature(value), nil
}

// Add returns the temperature shifted by delta, saturating at the range bounds.
func (t Temperature) Add(delta int) Temperature {
	return Temperature(min(max(int(t)+delta, int(MinTemperature)), int(MaxTemperature)))
}

// Kelvin converts the mired value to the color temperature in kelvin.
// Zero for the invalid zero value.
func (t Temperature) Kelvin() int {
	if t <= 0 {
		return 0
	}
	return 1000000 / int(t)
}

// String implements pflag.Value.
func (t Temperature) String() string {
	return strconv.Itoa(int(t))
}

// Type implements pflag.Value.
func (t Temperature) Type() string {
	return "temperature"
}

// Set implements pflag.Value, so out-of-range values are rejected at flag parse time.
func (t *Temperature) Set(s string) error {
	value, err := strconv.Atoi(s)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid temperature %q: not a number", s))
	}
	parsed, err := NewTemperature(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON validates before encoding so an out-of-range value never
// reaches the device.
func (t Temperature) MarshalJSON() ([]byte, error) {
	if _, err := NewTemperature(int(t)); err != nil {
		return nil, err
	}
	return json.Marshal(int(t))
}

// UnmarshalJSON validates the device payload on decode.
func (t *Temperature) UnmarshalJSON(data []byte) error {
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := NewTemperature(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
