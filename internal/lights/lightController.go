package lights

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/models"
)

type controlSender interface {
	SendControl(ctx context.Context, cmd models.ControlCommand) error
}

type stateRefresher interface {
	Resync(ctx context.Context) (models.Snapshot, error)
	Snapshot() (models.Snapshot, bool)
}

// DeviceUpdateError is returned when a command could not be sent to the light.
type DeviceUpdateError struct {
	Err error
}

func (e *DeviceUpdateError) Error() string {
	return constants.DeviceUpdateFailedMessage
}

func (e *DeviceUpdateError) Unwrap() error {
	return e.Err
}

// LightController turns generic light requests into device commands. Every
// command is followed by a refresh of the cached state, whether the command
// succeeded, failed or was rejected. The refresh reads the device after the
// send attempt, never an earlier fetch that happened to be in flight.
type LightController struct {
	logger    *log.Logger
	sender    controlSender
	refresher stateRefresher
}

func NewLightController(logger *log.Logger, sender controlSender, refresher stateRefresher) *LightController {
	return &LightController{logger: logger, sender: sender, refresher: refresher}
}

func (l *LightController) TurnOff(ctx context.Context) error {
	l.logger.Debug("LightController.TurnOff")

	defer l.refreshAfterCommand(ctx)
	return l.send(ctx, models.ControlCommand{On: false})
}

func (l *LightController) TurnOn(ctx context.Context, req models.LightRequest) error {
	l.logger.Debug("LightController.TurnOn", "request", req)

	defer l.refreshAfterCommand(ctx)

	if err := req.Validate(); err != nil {
		return err
	}

	current, hasCurrent := l.refresher.Snapshot()
	return l.send(ctx, BuildTurnOnCommand(req, current, hasCurrent))
}

// BuildTurnOnCommand translates req into the device's vocabulary, using the
// current snapshot (if any) for the colour temperature fallback.
func BuildTurnOnCommand(req models.LightRequest, current models.Snapshot, hasCurrent bool) models.ControlCommand {
	cmd := models.ControlCommand{On: true}

	if req.RGB != nil {
		color := *req.RGB
		cmd.Color = &color
	}
	if req.Brightness != nil {
		cmd.Brightness = lo.ToPtr(capabilities.BrightnessToNative(*req.Brightness))
	}
	if req.TemperatureKelvin != nil {
		cmd.Temperature = lo.ToPtr(capabilities.ClampKelvin(*req.TemperatureKelvin))
	}

	// a brightness-only change while in colour temperature mode keeps the
	// current temperature, otherwise the light falls back to rgb
	if cmd.Brightness != nil && *cmd.Brightness != 0 &&
		req.RGB == nil &&
		req.TemperatureKelvin == nil &&
		capabilities.SupportsColorMode(models.ColorModeRGB) &&
		capabilities.SupportsColorMode(models.ColorModeColorTemp) &&
		hasCurrent &&
		capabilities.ColorModeFromNative(current.State.Mode) == models.ColorModeColorTemp &&
		current.State.Temperature != nil {
		cmd.Temperature = lo.ToPtr(*current.State.Temperature)
	}

	return cmd
}

func (l *LightController) send(ctx context.Context, cmd models.ControlCommand) error {
	if err := l.sender.SendControl(ctx, cmd); err != nil {
		l.logger.Error("Error sending light command", "on", cmd.On, "err", err)
		return &DeviceUpdateError{Err: err}
	}
	return nil
}

// refreshAfterCommand runs even if the caller has given up, so the cache
// catches up with whatever the device did.
func (l *LightController) refreshAfterCommand(ctx context.Context) {
	if _, err := l.refresher.Resync(context.WithoutCancel(ctx)); err != nil {
		l.logger.Warn("Unable to refresh light state after command", "err", err)
	}
}
