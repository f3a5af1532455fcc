package constants

import "time"

const ScanInterval = time.Minute
const RequestTimeout = 10 * time.Second

// device defaults
const DefaultPort = 3333
const DefaultDeviceName = "Klyqa Device"
const Manufacturer = "Klyqa"

// native vocabulary
const NativeOn = "on"
const NativeOff = "off"
const NativeModeRGB = "rgb"

// colour temperature window supported by the device class, in mireds
const MinMireds = 153
const MaxMireds = 285

const DeviceUpdateFailedMessage = "An error occurred while updating the Klyqa Light"

// event stream
const EventStreamLight = "light"

// mqtt
const MQTTPayloadOnline = "online"
const MQTTPayloadOffline = "offline"
const MQTTCommandInterval = 100 * time.Millisecond
