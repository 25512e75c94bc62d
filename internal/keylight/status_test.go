package keylight

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPowerState_Toggle(t *testing.T) {
	if got := PowerOn.Toggle(); got != PowerOff {
		t.Errorf("PowerOn.Toggle() = %v, want off", got)
	}
	if got := PowerOff.Toggle(); got != PowerOn {
		t.Errorf("PowerOff.Toggle() = %v, want on", got)
	}
}

func TestPowerState_String(t *testing.T) {
	if got := PowerOn.String(); got != "on" {
		t.Errorf("PowerOn.String() = %q, want %q", got, "on")
	}
	if got := PowerOff.String(); got != "off" {
		t.Errorf("PowerOff.String() = %q, want %q", got, "off")
	}
}

func TestStatus_Decode(t *testing.T) {
	input := `{"numberOfLights":1,"lights":[{"on":1,"brightness":3,"temperature":191}]}`

	var status Status
	if err := json.Unmarshal([]byte(input), &status); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil", err)
	}

	want := Status{
		NumberOfLights: 1,
		Lights: []Light{
			{On: PowerOn, Brightness: 3, Temperature: 191},
		},
	}
	if !reflect.DeepEqual(status, want) {
		t.Errorf("Unmarshal() = %+v, want %+v", status, want)
	}
}

func TestStatus_DecodeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "negative brightness",
			input: `{"numberOfLights":1,"lights":[{"on":1,"brightness":-1,"temperature":191}]}`,
		},
		{
			name:  "temperature above range",
			input: `{"numberOfLights":1,"lights":[{"on":1,"brightness":20,"temperature":360}]}`,
		},
		{
			name:  "power state out of range",
			input: `{"numberOfLights":1,"lights":[{"on":2,"brightness":20,"temperature":191}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status Status
			if err := json.Unmarshal([]byte(tt.input), &status); err == nil {
				t.Errorf("Unmarshal(%s) error = nil, want range error", tt.input)
			}
		})
	}
}

func TestStatus_Encode(t *testing.T) {
	status := Status{
		NumberOfLights: 1,
		Lights: []Light{
			{On: PowerOn, Brightness: 20, Temperature: 213},
		},
	}

	got, err := json.Marshal(status)
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}
	want := `{"numberOfLights":1,"lights":[{"on":1,"brightness":20,"temperature":213}]}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestStatus_EncodeRejectsInvalidValues(t *testing.T) {
	// The Temperature zero value is below the valid range, so a status that
	// was never populated must not serialize.
	status := Status{
		NumberOfLights: 1,
		Lights:         []Light{{On: PowerOn, Brightness: 20}},
	}

	if _, err := json.Marshal(status); err == nil {
		t.Error("Marshal() error = nil, want range error for zero temperature")
	}
}

func TestStatus_Light(t *testing.T) {
	status := Status{
		NumberOfLights: 1,
		Lights:         []Light{{On: PowerOff, Brightness: 20, Temperature: 213}},
	}

	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{name: "first light", index: 0, wantErr: false},
		{name: "negative index", index: -1, wantErr: true},
		{name: "past the end", index: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light, err := status.Light(tt.index)
			if (err != nil) != tt.wantErr {
				t.Errorf("Light(%d) error = %v, wantErr %v", tt.index, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !IsValidationError(err) {
					t.Errorf("Light(%d) error = %T, want validation error", tt.index, err)
				}
				return
			}
			// The pointer aliases the status so in-place edits stick
			light.Brightness = 55
			if status.Lights[tt.index].Brightness != 55 {
				t.Error("Light() did not return a pointer into the status")
			}
		})
	}
}

func TestStatus_SetPowerAll(t *testing.T) {
	status := Status{
		NumberOfLights: 2,
		Lights: []Light{
			{On: PowerOff, Brightness: 20, Temperature: 213},
			{On: PowerOn, Brightness: 40, Temperature: 300},
		},
	}

	status.SetPowerAll(PowerOn)
	for i, light := range status.Lights {
		if light.On != PowerOn {
			t.Errorf("light %d power = %v, want on", i, light.On)
		}
	}
}

func TestStatus_TogglePower(t *testing.T) {
	status := Status{
		NumberOfLights: 1,
		Lights:         []Light{{On: PowerOff, Brightness: 20, Temperature: 213}},
	}

	if err := status.TogglePower(0); err != nil {
		t.Fatalf("TogglePower(0) error = %v, want nil", err)
	}
	if status.Lights[0].On != PowerOn {
		t.Errorf("power after toggle = %v, want on", status.Lights[0].On)
	}

	if err := status.TogglePower(3); err == nil {
		t.Error("TogglePower(3) error = nil, want invalid index error")
	}
}
