package mqtt

import "fmt"

// Topics builds the topic names for one device.
type Topics struct {
	Prefix   string
	DeviceID string
}

func (t Topics) State() string {
	return fmt.Sprintf("%s/%s/state", t.Prefix, t.DeviceID)
}

func (t Topics) Availability() string {
	return fmt.Sprintf("%s/%s/availability", t.Prefix, t.DeviceID)
}

func (t Topics) Set() string {
	return fmt.Sprintf("%s/%s/set", t.Prefix, t.DeviceID)
}
