package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/api"
	"github.com/wheelibin/klyqa/internal/config"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/events"
	"github.com/wheelibin/klyqa/internal/klyqa"
	"github.com/wheelibin/klyqa/internal/lights"
	"github.com/wheelibin/klyqa/internal/models"
	"github.com/wheelibin/klyqa/internal/mqtt"
)

// App wires one device to its coordinator, controller and the optional API
// and MQTT surfaces.
type App struct {
	logger      *log.Logger
	cfg         *config.Config
	coordinator *coordinator.Coordinator
	controller  *lights.LightController
}

func NewApp(logger *log.Logger, cfg *config.Config) *App {
	client := klyqa.NewClient(logger, cfg.Device.Host, cfg.Device.Port, cfg.Device.AccessToken, cfg.RequestTimeout)
	c := coordinator.NewCoordinator(logger, client, cfg.Device.Name, cfg.ScanInterval, cfg.RequestTimeout)

	return &App{
		logger:      logger,
		cfg:         cfg,
		coordinator: c,
		controller:  lights.NewLightController(logger, client, c),
	}
}

func (a *App) Coordinator() *coordinator.Coordinator {
	return a.coordinator
}

func (a *App) Controller() *lights.LightController {
	return a.controller
}

// Initialise reads the device once; the app can't run without it.
func (a *App) Initialise(ctx context.Context) error {
	a.logger.Debug("App.Initialise")

	if err := a.coordinator.Start(ctx); err != nil {
		return err
	}

	snap, _ := a.coordinator.Snapshot()
	a.logger.Info("Connected to light",
		"name", snap.DeviceName,
		"device", snap.Info.DeviceID,
		"product", snap.Info.ProductID,
		"firmware", snap.Info.FirmwareVersion,
	)
	return nil
}

// Run serves the enabled surfaces until ctx is done, then shuts everything
// down, including the coordinator.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run")
	defer a.coordinator.Stop()

	var shutdown []func()
	defer func() {
		for i := len(shutdown) - 1; i >= 0; i-- {
			shutdown[i]()
		}
	}()

	if a.cfg.API.Enabled {
		broadcaster := events.NewBroadcaster(a.logger, a.coordinator)
		broadcaster.Start()

		server := api.NewServer(a.logger, a.cfg.API.Listen, a.cfg.Device.MAC, a.coordinator, a.controller, broadcaster)
		if err := server.Start(); err != nil {
			broadcaster.Stop()
			return fmt.Errorf("starting API server: %w", err)
		}
		shutdown = append(shutdown, func() {
			if err := server.Close(); err != nil {
				a.logger.Error("Error closing API server", "err", err)
			}
		})
		// event streams have to end before the server can shut down
		shutdown = append(shutdown, broadcaster.Stop)
	}

	if a.cfg.MQTT.Enabled {
		stop, err := a.startMQTT(ctx)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, stop)
	}

	<-ctx.Done()
	a.logger.Info("App.Run: stop signal received")
	return nil
}

func (a *App) startMQTT(ctx context.Context) (func(), error) {
	snap, ok := a.coordinator.Snapshot()
	if !ok {
		return nil, errors.New("mqtt: device id not yet known")
	}

	topics := mqtt.Topics{Prefix: a.cfg.MQTT.TopicPrefix, DeviceID: snap.Info.DeviceID}
	broker, err := mqtt.Connect(a.logger, a.cfg.MQTT, mqtt.Will{Topic: topics.Availability(), Payload: constants.MQTTPayloadOffline})
	if err != nil {
		return nil, err
	}

	bridge := mqtt.NewBridge(a.logger, broker, a.controller, topics, byte(a.cfg.MQTT.QoS), a.cfg.MQTT.CommandInterval)
	if err := bridge.Start(ctx, a.coordinator); err != nil {
		broker.Close()
		return nil, err
	}
	bridge.Publish(models.RefreshResult{
		Snapshot:    snap,
		HasSnapshot: true,
		Err:         a.coordinator.LastError(),
		Time:        a.coordinator.LastRefresh(),
	})

	return func() {
		bridge.Stop()
		broker.Close()
	}, nil
}
