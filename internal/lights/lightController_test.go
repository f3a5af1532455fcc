package lights_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/klyqa"
	"github.com/wheelibin/klyqa/internal/lights"
	"github.com/wheelibin/klyqa/internal/models"
	"github.com/wheelibin/klyqa/mocks"
)

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func whiteSnapshot() models.Snapshot {
	return models.Snapshot{
		DeviceName: "Desk",
		Info:       models.Info{DeviceID: "806599881770"},
		State: models.State{
			On:          "on",
			Brightness:  models.Brightness{Percentage: 40},
			Temperature: lo.ToPtr(4000),
			Mode:        lo.ToPtr("cct"),
		},
	}
}

func rgbSnapshot() models.Snapshot {
	return models.Snapshot{
		DeviceName: "Desk",
		State: models.State{
			On:         "on",
			Brightness: models.Brightness{Percentage: 100},
			Color:      &models.RGBColor{Blue: 255},
			Mode:       lo.ToPtr("rgb"),
		},
	}
}

func Test_BuildTurnOnCommand(t *testing.T) {

	t.Run("should carry the current temperature on a brightness only change in colour temperature mode", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(128)}, whiteSnapshot(), true)

		// assert
		assert.True(t, cmd.On)
		require.NotNil(t, cmd.Brightness)
		assert.Equal(t, 50, *cmd.Brightness)
		require.NotNil(t, cmd.Temperature)
		assert.Equal(t, 4000, *cmd.Temperature)
		assert.Nil(t, cmd.Color)
	})

	t.Run("should not carry the temperature in rgb mode", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(128)}, rgbSnapshot(), true)

		// assert
		assert.Nil(t, cmd.Temperature)
	})

	t.Run("should not carry the temperature when the mode is unknown", func(t *testing.T) {
		// arrange
		snap := whiteSnapshot()
		snap.State.Mode = nil

		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(128)}, snap, true)

		// assert
		assert.Nil(t, cmd.Temperature)
	})

	t.Run("should not carry the temperature without a snapshot", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(128)}, models.Snapshot{}, false)

		// assert
		assert.Nil(t, cmd.Temperature)
	})

	t.Run("should not carry the temperature when brightness rounds to zero", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(1)}, whiteSnapshot(), true)

		// assert
		require.NotNil(t, cmd.Brightness)
		assert.Equal(t, 0, *cmd.Brightness)
		assert.Nil(t, cmd.Temperature)
	})

	t.Run("should not carry the temperature when the device reported none", func(t *testing.T) {
		// arrange
		snap := whiteSnapshot()
		snap.State.Temperature = nil

		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{Brightness: lo.ToPtr(128)}, snap, true)

		// assert
		assert.Nil(t, cmd.Temperature)
	})

	t.Run("should prefer an explicit colour over the fallback", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{
			Brightness: lo.ToPtr(255),
			RGB:        &models.RGBColor{Red: 255},
		}, whiteSnapshot(), true)

		// assert
		assert.Nil(t, cmd.Temperature)
		assert.Equal(t, &models.RGBColor{Red: 255}, cmd.Color)
		assert.Equal(t, 100, *cmd.Brightness)
	})

	t.Run("should clamp an explicit temperature into the device range", func(t *testing.T) {
		// act
		warm := lights.BuildTurnOnCommand(models.LightRequest{TemperatureKelvin: lo.ToPtr(2000)}, models.Snapshot{}, false)
		cool := lights.BuildTurnOnCommand(models.LightRequest{TemperatureKelvin: lo.ToPtr(9000)}, models.Snapshot{}, false)

		// assert
		assert.Equal(t, 3509, *warm.Temperature)
		assert.Equal(t, 6536, *cool.Temperature)
	})

	t.Run("should send a bare on for an empty request", func(t *testing.T) {
		// act
		cmd := lights.BuildTurnOnCommand(models.LightRequest{}, whiteSnapshot(), true)

		// assert
		assert.Equal(t, models.ControlCommand{On: true}, cmd)
	})
}

func Test_TurnOn(t *testing.T) {

	t.Run("should send the command then refresh", func(t *testing.T) {
		t.Parallel()

		// arrange
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		refresher.On("Snapshot").Return(whiteSnapshot(), true)
		sender.On("SendControl", mock.Anything, mock.MatchedBy(func(cmd models.ControlCommand) bool {
			return cmd.On && *cmd.Brightness == 50 && *cmd.Temperature == 4000
		})).Return(nil).Once()
		refresher.On("Resync", mock.Anything).Return(whiteSnapshot(), nil).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOn(context.Background(), models.LightRequest{Brightness: lo.ToPtr(128)})

		// assert
		assert.NoError(t, err)
	})

	t.Run("should refresh and report a device update error when the send fails", func(t *testing.T) {
		t.Parallel()

		// arrange
		sendErr := &klyqa.ConnectionError{Op: "PUT /control", Err: errors.New("timeout")}
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		refresher.On("Snapshot").Return(rgbSnapshot(), true)
		sender.On("SendControl", mock.Anything, mock.Anything).Return(sendErr).Once()
		refresher.On("Resync", mock.Anything).Return(rgbSnapshot(), nil).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOn(context.Background(), models.LightRequest{RGB: &models.RGBColor{Green: 255}})

		// assert
		var updateErr *lights.DeviceUpdateError
		require.ErrorAs(t, err, &updateErr)
		assert.Equal(t, constants.DeviceUpdateFailedMessage, err.Error())
		assert.ErrorIs(t, err, sendErr)
		refresher.AssertNumberOfCalls(t, "Resync", 1)
	})

	t.Run("should report only the device update error when the follow-up refresh fails too", func(t *testing.T) {
		t.Parallel()

		// arrange
		sendErr := &klyqa.ConnectionError{Op: "PUT /control", Err: errors.New("connection reset")}
		refreshErr := &klyqa.ConnectionError{Op: "GET /info", Err: errors.New("no route to host")}
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		refresher.On("Snapshot").Return(whiteSnapshot(), true)
		sender.On("SendControl", mock.Anything, mock.Anything).Return(sendErr).Once()
		refresher.On("Resync", mock.Anything).Return(models.Snapshot{}, refreshErr).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOn(context.Background(), models.LightRequest{Brightness: lo.ToPtr(64)})

		// assert
		var updateErr *lights.DeviceUpdateError
		require.ErrorAs(t, err, &updateErr)
		assert.Equal(t, sendErr, updateErr.Unwrap())
		assert.NotErrorIs(t, err, refreshErr)
		refresher.AssertNumberOfCalls(t, "Resync", 1)
	})

	t.Run("should reject an out of range brightness without sending, and still refresh", func(t *testing.T) {
		t.Parallel()

		// arrange
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		refresher.On("Resync", mock.Anything).Return(whiteSnapshot(), nil).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOn(context.Background(), models.LightRequest{Brightness: lo.ToPtr(300)})

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
		sender.AssertNotCalled(t, "SendControl", mock.Anything, mock.Anything)
		refresher.AssertNotCalled(t, "Snapshot")
	})

	t.Run("should refresh even when the caller's context is cancelled", func(t *testing.T) {
		t.Parallel()

		// arrange
		ctx, cancel := context.WithCancel(context.Background())
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		refresher.On("Snapshot").Return(models.Snapshot{}, false)
		sender.On("SendControl", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(context.Canceled).Once()
		refresher.On("Resync", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		})).Return(models.Snapshot{}, nil).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOn(ctx, models.LightRequest{})

		// assert
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func Test_TurnOff(t *testing.T) {

	t.Run("should send only the off command", func(t *testing.T) {
		t.Parallel()

		// arrange
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		sender.On("SendControl", mock.Anything, models.ControlCommand{On: false}).Return(nil).Once()
		refresher.On("Resync", mock.Anything).Return(rgbSnapshot(), nil).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOff(context.Background())

		// assert
		assert.NoError(t, err)
	})

	t.Run("should refresh and report a device update error when the send fails", func(t *testing.T) {
		t.Parallel()

		// arrange
		sendErr := &klyqa.ConnectionError{Op: "PUT /control", Err: errors.New("timeout")}
		refreshErr := &klyqa.ConnectionError{Op: "GET /info", Err: errors.New("connection refused")}
		sender := mocks.NewMockLightsControlSender(t)
		refresher := mocks.NewMockLightsStateRefresher(t)
		sender.On("SendControl", mock.Anything, models.ControlCommand{On: false}).Return(sendErr).Once()
		refresher.On("Resync", mock.Anything).Return(models.Snapshot{}, refreshErr).Once()
		controller := lights.NewLightController(newLogger(), sender, refresher)

		// act
		err := controller.TurnOff(context.Background())

		// assert
		var updateErr *lights.DeviceUpdateError
		require.ErrorAs(t, err, &updateErr)
		assert.Equal(t, constants.DeviceUpdateFailedMessage, err.Error())
		assert.Equal(t, sendErr, updateErr.Unwrap())
		assert.ErrorIs(t, err, sendErr)
		assert.NotErrorIs(t, err, refreshErr)
		refresher.AssertNumberOfCalls(t, "Resync", 1)
	})

	t.Run("should read the device again when a refresh was already in flight", func(t *testing.T) {
		t.Parallel()

		// arrange
		client := mocks.NewMockCoordinatorDeviceClient(t)
		onState := rgbSnapshot().State
		offState := rgbSnapshot().State
		offState.On = "off"
		client.On("FetchInfo", mock.Anything).Return(models.Info{DeviceID: "806599881770"}, nil).Once()
		client.On("FetchState", mock.Anything).Return(onState, nil).Once()
		c := coordinator.NewCoordinator(newLogger(), client, "Desk", time.Hour, time.Second)
		require.NoError(t, c.Start(context.Background()))
		t.Cleanup(c.Stop)

		started := make(chan struct{})
		release := make(chan struct{})
		client.On("FetchInfo", mock.Anything).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(models.Info{DeviceID: "806599881770"}, nil).Once()
		client.On("FetchState", mock.Anything).Return(onState, nil).Once()
		client.On("FetchInfo", mock.Anything).Return(models.Info{DeviceID: "806599881770"}, nil).Once()
		client.On("FetchState", mock.Anything).Return(offState, nil).Once()
		go func() { _, _ = c.Refresh(context.Background()) }()
		<-started

		sender := mocks.NewMockLightsControlSender(t)
		sender.On("SendControl", mock.Anything, models.ControlCommand{On: false}).
			Run(func(mock.Arguments) { close(release) }).
			Return(nil).Once()
		controller := lights.NewLightController(newLogger(), sender, c)

		// act
		err := controller.TurnOff(context.Background())

		// assert
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "FetchInfo", 3)
		snap, ok := c.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "off", snap.State.On)
	})

	t.Run("should succeed with a stale snapshot when the follow-up refresh fails", func(t *testing.T) {
		t.Parallel()

		// arrange
		client := mocks.NewMockCoordinatorDeviceClient(t)
		state := rgbSnapshot().State
		client.On("FetchInfo", mock.Anything).Return(models.Info{DeviceID: "806599881770"}, nil).Once()
		client.On("FetchState", mock.Anything).Return(state, nil).Once()
		client.On("FetchInfo", mock.Anything).
			Return(models.Info{}, &klyqa.ConnectionError{Op: "GET /info", Err: errors.New("no route to host")}).Once()
		c := coordinator.NewCoordinator(newLogger(), client, "Desk", time.Hour, time.Second)
		require.NoError(t, c.Start(context.Background()))
		t.Cleanup(c.Stop)

		sender := mocks.NewMockLightsControlSender(t)
		sender.On("SendControl", mock.Anything, models.ControlCommand{On: false}).Return(nil).Once()
		controller := lights.NewLightController(newLogger(), sender, c)

		// act
		err := controller.TurnOff(context.Background())

		// assert
		assert.NoError(t, err)
		snap, ok := c.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "on", snap.State.On)
		assert.True(t, klyqa.IsConnectionError(c.LastError()))
	})
}
