package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/wheelibin/klyqa/internal/config"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	keepAlive         = 60 * time.Second
	maxReconnectDelay = 2 * time.Minute
	// milliseconds
	disconnectQuiesce = 1000
)

var (
	ErrConnectionFailed = errors.New("mqtt connection failed")
	ErrNotConnected     = errors.New("mqtt not connected")
	ErrPublishFailed    = errors.New("mqtt publish failed")
)

// Will is the last-will message the broker publishes if the connection drops.
type Will struct {
	Topic   string
	Payload string
}

// PahoBroker is a broker connection that restores its subscriptions after a
// reconnect.
type PahoBroker struct {
	logger *log.Logger
	client pahomqtt.Client

	mu            sync.RWMutex
	subscriptions map[string]subscription
	onConnect     func()
}

type subscription struct {
	qos     byte
	handler func(topic string, payload []byte)
}

func Connect(logger *log.Logger, cfg config.MQTTConfig, will Will) (*PahoBroker, error) {
	b := &PahoBroker{logger: logger, subscriptions: map[string]subscription{}}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(maxReconnectDelay)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetWill(will.Topic, will.Payload, byte(cfg.QoS), true)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		b.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		b.logger.Warn("MQTT connection lost", "err", err)
	})

	b.client = pahomqtt.NewClient(opts)
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	logger.Info("Connected to MQTT broker", "broker", cfg.Broker)
	return b, nil
}

func (b *PahoBroker) handleConnect() {
	b.mu.RLock()
	for topic, sub := range b.subscriptions {
		b.client.Subscribe(topic, sub.qos, wrapHandler(sub.handler))
	}
	callback := b.onConnect
	b.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetOnConnect registers a callback run after every (re)connect.
func (b *PahoBroker) SetOnConnect(callback func()) {
	b.mu.Lock()
	b.onConnect = callback
	b.mu.Unlock()
}

func (b *PahoBroker) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if !b.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := b.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (b *PahoBroker) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	b.mu.Lock()
	b.subscriptions[topic] = subscription{qos: qos, handler: handler}
	b.mu.Unlock()

	token := b.client.Subscribe(topic, qos, wrapHandler(handler))
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("subscribing to %s: timeout after %v", topic, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	return nil
}

func (b *PahoBroker) Close() {
	b.client.Disconnect(disconnectQuiesce)
}

func wrapHandler(handler func(topic string, payload []byte)) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	}
}
