package app_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/klyqa/internal/app"
	"github.com/wheelibin/klyqa/internal/config"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/models"
)

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

// fakeDevice serves the device's local API from memory.
type fakeDevice struct {
	mu    sync.Mutex
	state map[string]any
}

func newFakeDevice(t *testing.T) (*fakeDevice, *config.Config) {
	d := &fakeDevice{state: map[string]any{"on": "on", "brightness": map[string]any{"percentage": 100}, "mode": "rgb"}}

	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deviceId":"806599881770","serviceName":"Klyqa E27","productId":"e27"}`))
	})
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(d.state)
	})
	mux.HandleFunc("/control", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&d.state)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.Config{
		Device:         config.DeviceConfig{Host: host, Port: port, AccessToken: "token", Name: "Desk"},
		ScanInterval:   time.Hour,
		RequestTimeout: time.Second,
		API:            config.APIConfig{Enabled: true, Listen: "127.0.0.1:0"},
	}
	return d, cfg
}

func Test_Initialise(t *testing.T) {

	t.Run("should read the device before returning", func(t *testing.T) {
		// arrange
		_, cfg := newFakeDevice(t)
		a := app.NewApp(newLogger(), cfg)

		// act
		err := a.Initialise(context.Background())
		defer a.Coordinator().Stop()

		// assert
		require.NoError(t, err)
		snap, ok := a.Coordinator().Snapshot()
		require.True(t, ok)
		assert.Equal(t, "Desk", snap.DeviceName)
		assert.Equal(t, "806599881770", snap.Info.DeviceID)
	})

	t.Run("should fail when the device can't be reached", func(t *testing.T) {
		// arrange
		_, cfg := newFakeDevice(t)
		cfg.Device.Port = 1
		a := app.NewApp(newLogger(), cfg)

		// act
		err := a.Initialise(context.Background())

		// assert
		assert.ErrorIs(t, err, coordinator.ErrSetupFailed)
	})
}

func Test_Controller(t *testing.T) {

	t.Run("should update the cached state after a command", func(t *testing.T) {
		// arrange
		_, cfg := newFakeDevice(t)
		a := app.NewApp(newLogger(), cfg)
		require.NoError(t, a.Initialise(context.Background()))
		defer a.Coordinator().Stop()

		// act
		err := a.Controller().TurnOff(context.Background())

		// assert
		require.NoError(t, err)
		snap, _ := a.Coordinator().Snapshot()
		assert.Equal(t, "off", snap.State.On)
	})

	t.Run("should carry the colour temperature through a brightness change", func(t *testing.T) {
		// arrange
		device, cfg := newFakeDevice(t)
		device.state = map[string]any{"on": "on", "brightness": map[string]any{"percentage": 40}, "mode": "cct", "temperature": 4000}
		a := app.NewApp(newLogger(), cfg)
		require.NoError(t, a.Initialise(context.Background()))
		defer a.Coordinator().Stop()
		brightness := 128

		// act
		err := a.Controller().TurnOn(context.Background(), models.LightRequest{Brightness: &brightness})

		// assert
		require.NoError(t, err)
		device.mu.Lock()
		defer device.mu.Unlock()
		assert.Equal(t, float64(4000), device.state["temperature"])
		assert.Equal(t, map[string]any{"percentage": float64(50)}, device.state["brightness"])
	})
}

func Test_Run(t *testing.T) {

	t.Run("should serve until the context is cancelled", func(t *testing.T) {
		// arrange
		_, cfg := newFakeDevice(t)
		a := app.NewApp(newLogger(), cfg)
		require.NoError(t, a.Initialise(context.Background()))
		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)

		// act
		go func() { result <- a.Run(ctx) }()
		time.Sleep(50 * time.Millisecond)
		cancel()

		// assert
		select {
		case err := <-result:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
		}
	})

	t.Run("should fail when the API address is unusable", func(t *testing.T) {
		// arrange
		_, cfg := newFakeDevice(t)
		cfg.API.Listen = "not-an-address"
		a := app.NewApp(newLogger(), cfg)
		require.NoError(t, a.Initialise(context.Background()))

		// act
		err := a.Run(context.Background())

		// assert
		assert.Error(t, err)
	})
}
