// Package capabilities maps between the generic lighting model (0-255
// brightness, RGB, Kelvin, colour modes) and the device's native fields.
//
// Every function here is pure.
package capabilities

import (
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/models"
)

var supportedColorModes = []models.ColorMode{
	models.ColorModeRGB,
	models.ColorModeColorTemp,
	models.ColorModeOnOff,
	models.ColorModeBrightness,
}

// BrightnessToGeneric converts a native percentage (0-100) to 0-255.
func BrightnessToGeneric(percentage int) int {
	return int(math.Round(float64(percentage) * 255 / 100))
}

// BrightnessToNative converts a 0-255 brightness to the native percentage.
func BrightnessToNative(brightness int) int {
	return int(math.Round(float64(brightness) / 255 * 100))
}

// ColorModeFromNative reports RGB when the device says "rgb" or reports no
// mode at all; any other mode is colour temperature.
func ColorModeFromNative(mode *string) models.ColorMode {
	if mode == nil || *mode == constants.NativeModeRGB {
		return models.ColorModeRGB
	}
	return models.ColorModeColorTemp
}

func IsOn(native string) bool {
	return native == constants.NativeOn
}

func OnToNative(on bool) string {
	return lo.Ternary(on, constants.NativeOn, constants.NativeOff)
}

func SupportedColorModes() []models.ColorMode {
	return append([]models.ColorMode{}, supportedColorModes...)
}

func SupportsColorMode(mode models.ColorMode) bool {
	return lo.Contains(supportedColorModes, mode)
}

func KelvinToMired(kelvin int) int {
	if kelvin <= 0 {
		return 0
	}
	return int(math.Round(1_000_000 / float64(kelvin)))
}

func MiredToKelvin(mired int) int {
	if mired <= 0 {
		return 0
	}
	return int(math.Round(1_000_000 / float64(mired)))
}

// ColorTempMireds returns the fixed colour temperature window of the device class.
func ColorTempMireds() (int, int) {
	return constants.MinMireds, constants.MaxMireds
}

// ColorTempKelvin is ColorTempMireds expressed in Kelvin (warmest first).
func ColorTempKelvin() (int, int) {
	return MiredToKelvin(constants.MaxMireds), MiredToKelvin(constants.MinMireds)
}

func ClampKelvin(kelvin int) int {
	warmest, coolest := ColorTempKelvin()
	return lo.Clamp(kelvin, warmest, coolest)
}

// StatusFromSnapshot projects a snapshot onto the generic lighting model.
func StatusFromSnapshot(snap models.Snapshot) models.LightStatus {
	status := models.LightStatus{
		Name:       snap.DeviceName,
		DeviceID:   snap.Info.DeviceID,
		On:         IsOn(snap.State.On),
		Brightness: BrightnessToGeneric(snap.State.Brightness.Percentage),
		ColorMode:  ColorModeFromNative(snap.State.Mode),
	}
	if snap.State.Color != nil {
		color := *snap.State.Color
		status.RGB = &color
	}
	if snap.State.Temperature != nil {
		status.TemperatureKelvin = lo.ToPtr(*snap.State.Temperature)
	}
	return status
}

// DeviceInfoFromSnapshot builds the registry description of the device.
// mac is optional.
func DeviceInfoFromSnapshot(snap models.Snapshot, mac string) models.DeviceInfo {
	info := models.DeviceInfo{
		Identifier:      snap.Info.DeviceID,
		SerialNumber:    snap.Info.DeviceID,
		Manufacturer:    constants.Manufacturer,
		Model:           snap.Info.ProductID,
		Name:            snap.Info.ServiceName,
		SoftwareVersion: snap.Info.FirmwareVersion,
		HardwareVersion: snap.Info.HardwareRevision,
		ModifiedAt:      snap.Info.FirmwareDate,
	}
	if mac != "" {
		info.Connections = []models.Connection{{Type: "mac", Value: FormatMAC(mac)}}
	}
	return info
}

// FormatMAC normalises a MAC address to lower case, colon separated.
// Values it does not recognise are returned unchanged.
func FormatMAC(mac string) string {
	switch {
	case len(mac) == 17 && strings.Count(mac, ":") == 5:
		return strings.ToLower(mac)
	case len(mac) == 17 && strings.Count(mac, "-") == 5:
		return strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
	case len(mac) == 14 && strings.Count(mac, ".") == 2:
		return strings.Join(lo.ChunkString(strings.ToLower(strings.ReplaceAll(mac, ".", "")), 2), ":")
	case len(mac) == 12 && !strings.ContainsAny(mac, ":-."):
		return strings.Join(lo.ChunkString(strings.ToLower(mac), 2), ":")
	}
	return mac
}
