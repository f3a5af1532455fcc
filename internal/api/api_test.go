package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/klyqa/internal/api"
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
		Info: models.Info{
			DeviceID:        "806599881770",
			ServiceName:     "Klyqa E27",
			ProductID:       "@klyqa.lighting.rgb-cw-ww.e27",
			FirmwareVersion: "1.2.3",
		},
		State: models.State{
			On:          "on",
			Brightness:  models.Brightness{Percentage: 50},
			Temperature: lo.ToPtr(4000),
			Mode:        lo.ToPtr("cct"),
		},
	}
}

type fixture struct {
	state  *mocks.MockApiStateProvider
	lights *mocks.MockApiLightController
	srv    *httptest.Server
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		state:  mocks.NewMockApiStateProvider(t),
		lights: mocks.NewMockApiLightController(t),
	}
	server := api.NewServer(newLogger(), ":0", "AABBCCDDEEFF", f.state, f.lights, nil)
	f.srv = httptest.NewServer(server.Handler())
	t.Cleanup(f.srv.Close)
	return f
}

func (f fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func Test_Health(t *testing.T) {

	t.Run("should be ok after a successful refresh", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("LastRefresh").Return(time.Now())
		f.state.On("LastError").Return(nil)

		// act
		resp, body := f.do(t, http.MethodGet, "/api/v1/health", "")

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("should be unavailable after a failed refresh", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("LastRefresh").Return(time.Now())
		f.state.On("LastError").Return(errors.New("connection refused"))

		// act
		resp, body := f.do(t, http.MethodGet, "/api/v1/health", "")

		// assert
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "connection refused", body["error"])
	})
}

func Test_GetLight(t *testing.T) {

	t.Run("should return the generic status", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("Snapshot").Return(whiteSnapshot(), true)

		// act
		resp, body := f.do(t, http.MethodGet, "/api/v1/light", "")

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["on"])
		assert.Equal(t, float64(128), body["brightness"])
		assert.Equal(t, "color_temp", body["colorMode"])
		assert.Equal(t, float64(4000), body["colorTempKelvin"])
	})

	t.Run("should be unavailable without a snapshot", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("Snapshot").Return(models.Snapshot{}, false)

		// act
		resp, body := f.do(t, http.MethodGet, "/api/v1/light", "")

		// assert
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, api.ErrCodeUnavailable, body["code"])
	})
}

func Test_GetDevice(t *testing.T) {

	t.Run("should describe the device with its mac connection", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("Snapshot").Return(whiteSnapshot(), true)

		// act
		resp, body := f.do(t, http.MethodGet, "/api/v1/device", "")

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Klyqa", body["manufacturer"])
		assert.Equal(t, "@klyqa.lighting.rgb-cw-ww.e27", body["model"])
		assert.Equal(t, "806599881770", body["serialNumber"])
		require.Len(t, body["connections"], 1)
	})
}

func Test_TurnOn(t *testing.T) {

	t.Run("should pass the request to the controller and return the new status", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.lights.On("TurnOn", mock.Anything, models.LightRequest{Brightness: lo.ToPtr(128)}).Return(nil).Once()
		f.state.On("Snapshot").Return(whiteSnapshot(), true)

		// act
		resp, body := f.do(t, http.MethodPost, "/api/v1/light/on", `{"brightness":128}`)

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["on"])
	})

	t.Run("should accept an empty body", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.lights.On("TurnOn", mock.Anything, models.LightRequest{}).Return(nil).Once()
		f.state.On("Snapshot").Return(whiteSnapshot(), true)

		// act
		resp, _ := f.do(t, http.MethodPost, "/api/v1/light/on", "")

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("should reject malformed JSON", func(t *testing.T) {
		// arrange
		f := newFixture(t)

		// act
		resp, body := f.do(t, http.MethodPost, "/api/v1/light/on", `{"brightness":`)

		// assert
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, api.ErrCodeBadRequest, body["code"])
	})

	t.Run("should report an invalid request as a bad request", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.lights.On("TurnOn", mock.Anything, mock.Anything).Return(models.ErrInvalidRequest).Once()

		// act
		resp, _ := f.do(t, http.MethodPost, "/api/v1/light/on", `{"brightness":999}`)

		// assert
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func Test_TurnOff(t *testing.T) {

	t.Run("should report a failed device update as a bad gateway", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.lights.On("TurnOff", mock.Anything).Return(&lights.DeviceUpdateError{Err: errors.New("timeout")}).Once()

		// act
		resp, body := f.do(t, http.MethodPost, "/api/v1/light/off", "")

		// assert
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "An error occurred while updating the Klyqa Light", body["message"])
	})
}

func Test_Refresh(t *testing.T) {

	t.Run("should return the refreshed status", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("Refresh", mock.Anything).Return(whiteSnapshot(), nil).Once()

		// act
		resp, body := f.do(t, http.MethodPost, "/api/v1/refresh", "")

		// assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Desk", body["name"])
	})

	t.Run("should be unavailable when the refresh fails", func(t *testing.T) {
		// arrange
		f := newFixture(t)
		f.state.On("Refresh", mock.Anything).Return(models.Snapshot{}, errors.New("no route to host")).Once()

		// act
		resp, _ := f.do(t, http.MethodPost, "/api/v1/refresh", "")

		// assert
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
