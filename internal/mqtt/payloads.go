package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wheelibin/klyqa/internal/models"
)

var ErrInvalidCommand = errors.New("invalid mqtt command")

const (
	stateOn  = "ON"
	stateOff = "OFF"
)

type ColorPayload struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// StatePayload is published retained on the state topic.
type StatePayload struct {
	State           string           `json:"state"`
	Brightness      int              `json:"brightness"`
	ColorMode       models.ColorMode `json:"color_mode"`
	Color           *ColorPayload    `json:"color,omitempty"`
	ColorTempKelvin *int             `json:"color_temp_kelvin,omitempty"`
}

func NewStatePayload(status models.LightStatus) StatePayload {
	payload := StatePayload{
		State:           stateOff,
		Brightness:      status.Brightness,
		ColorMode:       status.ColorMode,
		ColorTempKelvin: status.TemperatureKelvin,
	}
	if status.On {
		payload.State = stateOn
	}
	if status.RGB != nil {
		payload.Color = &ColorPayload{R: status.RGB.Red, G: status.RGB.Green, B: status.RGB.Blue}
	}
	return payload
}

// Command is a request received on the set topic.
type Command struct {
	State           string        `json:"state"`
	Brightness      *int          `json:"brightness,omitempty"`
	Color           *ColorPayload `json:"color,omitempty"`
	ColorTempKelvin *int          `json:"color_temp_kelvin,omitempty"`
}

// ParseCommand accepts a JSON command or a bare ON/OFF payload.
func ParseCommand(payload []byte) (Command, error) {
	trimmed := strings.TrimSpace(string(payload))

	cmd := Command{}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &cmd); err != nil {
			return Command{}, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
	} else {
		cmd.State = trimmed
	}

	cmd.State = strings.ToUpper(cmd.State)
	if cmd.State != stateOn && cmd.State != stateOff {
		return Command{}, fmt.Errorf("%w: unknown state %q", ErrInvalidCommand, cmd.State)
	}
	return cmd, nil
}

func (c Command) IsOff() bool {
	return c.State == stateOff
}

func (c Command) LightRequest() models.LightRequest {
	req := models.LightRequest{
		Brightness:        c.Brightness,
		TemperatureKelvin: c.ColorTempKelvin,
	}
	if c.Color != nil {
		req.RGB = &models.RGBColor{Red: c.Color.R, Green: c.Color.G, Blue: c.Color.B}
	}
	return req
}
