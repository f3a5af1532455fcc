package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRequest = errors.New("invalid light request")

// static identity of the device, stable across reconnects
type Info struct {
	DeviceID         string `json:"deviceId"`
	ServiceName      string `json:"serviceName"`
	ProductID        string `json:"productId"`
	FirmwareVersion  string `json:"firmwareVersion"`
	FirmwareDate     string `json:"firmwareDate"`
	HardwareRevision string `json:"hardwareRevision"`
}

type Brightness struct {
	Percentage int `json:"percentage"`
}

type RGBColor struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

// the device's instantaneous lighting state, in its native vocabulary
type State struct {
	On          string     `json:"on"`
	Brightness  Brightness `json:"brightness"`
	Color       *RGBColor  `json:"color,omitempty"`
	Temperature *int       `json:"temperature,omitempty"`
	// nil when the device did not report a mode
	Mode *string `json:"mode,omitempty"`
}

func (s State) Clone() State {
	c := s
	if s.Color != nil {
		color := *s.Color
		c.Color = &color
	}
	if s.Temperature != nil {
		t := *s.Temperature
		c.Temperature = &t
	}
	if s.Mode != nil {
		m := *s.Mode
		c.Mode = &m
	}
	return c
}

// Snapshot is the cached view of one device, produced by a single refresh.
type Snapshot struct {
	DeviceName string `json:"deviceName"`
	Info       Info   `json:"info"`
	State      State  `json:"state"`
}

func (s Snapshot) Clone() Snapshot {
	return Snapshot{DeviceName: s.DeviceName, Info: s.Info, State: s.State.Clone()}
}

// the control payload sent to the device; nil fields are left as they are
type ControlCommand struct {
	On          bool
	Brightness  *int
	Color       *RGBColor
	Temperature *int
}

// LightRequest is the caller-facing input to a turn on.
// Brightness is 0-255, TemperatureKelvin is in Kelvin.
type LightRequest struct {
	RGB               *RGBColor `json:"rgb,omitempty"`
	Brightness        *int      `json:"brightness,omitempty"`
	TemperatureKelvin *int      `json:"colorTempKelvin,omitempty"`
}

type ColorMode string

const (
	ColorModeRGB        ColorMode = "rgb"
	ColorModeColorTemp  ColorMode = "color_temp"
	ColorModeOnOff      ColorMode = "onoff"
	ColorModeBrightness ColorMode = "brightness"
)

// LightStatus is the generic view of a State.
type LightStatus struct {
	Name              string    `json:"name"`
	DeviceID          string    `json:"deviceId"`
	On                bool      `json:"on"`
	Brightness        int       `json:"brightness"`
	ColorMode         ColorMode `json:"colorMode"`
	RGB               *RGBColor `json:"rgb,omitempty"`
	TemperatureKelvin *int      `json:"colorTempKelvin,omitempty"`
}

type Connection struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DeviceInfo describes the device for a host registry.
type DeviceInfo struct {
	Identifier      string       `json:"identifier"`
	SerialNumber    string       `json:"serialNumber"`
	Manufacturer    string       `json:"manufacturer"`
	Model           string       `json:"model"`
	Name            string       `json:"name"`
	SoftwareVersion string       `json:"swVersion"`
	HardwareVersion string       `json:"hwVersion"`
	ModifiedAt      string       `json:"modifiedAt"`
	Connections     []Connection `json:"connections,omitempty"`
}

// an outcome of a coordinator refresh as seen by subscribers
type RefreshResult struct {
	Snapshot    Snapshot
	HasSnapshot bool
	Err         error
	Time        time.Time
}

func (r LightRequest) Validate() error {
	if r.Brightness != nil && (*r.Brightness < 0 || *r.Brightness > 255) {
		return fmt.Errorf("%w: brightness %d outside 0-255", ErrInvalidRequest, *r.Brightness)
	}
	if r.TemperatureKelvin != nil && *r.TemperatureKelvin <= 0 {
		return fmt.Errorf("%w: colour temperature %dK must be positive", ErrInvalidRequest, *r.TemperatureKelvin)
	}
	return nil
}
