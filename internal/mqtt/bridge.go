// Package mqtt mirrors the light onto an MQTT broker: retained state and
// availability topics updated on every refresh, and a set topic for commands.
package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/concurrency"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/models"
)

const commandQueueSize = 16

type broker interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error
	SetOnConnect(callback func())
}

type lightController interface {
	TurnOn(ctx context.Context, req models.LightRequest) error
	TurnOff(ctx context.Context) error
}

type refreshSource interface {
	Subscribe(listener coordinator.Listener) (unsubscribe func())
}

type Bridge struct {
	logger *log.Logger
	broker broker
	lights lightController
	topics Topics
	qos    byte
	worker *concurrency.ThrottledWorker[Command]

	mu          sync.Mutex
	last        *models.RefreshResult
	unsubscribe func()
}

func NewBridge(logger *log.Logger, broker broker, lights lightController, topics Topics, qos byte, commandInterval time.Duration) *Bridge {
	b := &Bridge{
		logger: logger,
		broker: broker,
		lights: lights,
		topics: topics,
		qos:    qos,
	}
	b.worker = concurrency.NewThrottledWorker(logger, commandInterval, commandQueueSize, b.execute)
	return b
}

// Start subscribes to commands and begins mirroring refresh outcomes. Commands
// are executed until ctx is done.
func (b *Bridge) Start(ctx context.Context, source refreshSource) error {
	b.logger.Debug("Bridge.Start", "topic", b.topics.Set())

	if err := b.broker.Subscribe(b.topics.Set(), b.qos, b.handleCommand); err != nil {
		return err
	}
	b.broker.SetOnConnect(b.republish)

	go b.worker.Run(ctx)

	unsubscribe := source.Subscribe(b.Publish)
	b.mu.Lock()
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
	return nil
}

func (b *Bridge) Stop() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	b.publishAvailability(false)
}

// Publish mirrors one refresh outcome.
func (b *Bridge) Publish(result models.RefreshResult) {
	b.mu.Lock()
	b.last = &result
	b.mu.Unlock()

	b.publishResult(result)
}

func (b *Bridge) republish() {
	b.mu.Lock()
	last := b.last
	b.mu.Unlock()

	if last != nil {
		b.publishResult(*last)
	}
}

func (b *Bridge) publishResult(result models.RefreshResult) {
	b.publishAvailability(result.Err == nil)
	if !result.HasSnapshot {
		return
	}

	payload, err := json.Marshal(NewStatePayload(capabilities.StatusFromSnapshot(result.Snapshot)))
	if err != nil {
		b.logger.Error("Error encoding state payload", "err", err)
		return
	}
	if err := b.broker.Publish(b.topics.State(), b.qos, true, payload); err != nil {
		b.logger.Warn("Unable to publish state", "topic", b.topics.State(), "err", err)
	}
}

func (b *Bridge) publishAvailability(available bool) {
	payload := constants.MQTTPayloadOffline
	if available {
		payload = constants.MQTTPayloadOnline
	}
	if err := b.broker.Publish(b.topics.Availability(), b.qos, true, []byte(payload)); err != nil {
		b.logger.Warn("Unable to publish availability", "topic", b.topics.Availability(), "err", err)
	}
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	cmd, err := ParseCommand(payload)
	if err != nil {
		b.logger.Warn("Ignoring MQTT command", "topic", topic, "err", err)
		return
	}
	b.worker.Submit(cmd)
}

func (b *Bridge) execute(ctx context.Context, cmd Command) error {
	b.logger.Debug("Bridge.execute", "state", cmd.State)
	if cmd.IsOff() {
		return b.lights.TurnOff(ctx)
	}
	return b.lights.TurnOn(ctx, cmd.LightRequest())
}
