package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/klyqa/internal/constants"
)

// Consumer follows the light stream of a running daemon.
type Consumer struct {
	logger *log.Logger
	client *sse.Client
}

func NewConsumer(logger *log.Logger, url string) *Consumer {
	client := sse.NewClient(url)

	client.OnConnect(func(_ *sse.Client) {
		logger.Info("Connected to klyqad, listening for events...")
	})
	client.OnDisconnect(func(_ *sse.Client) {
		logger.Info("Disconnected from klyqad")
	})

	return &Consumer{logger: logger, client: client}
}

// Subscribe calls handler for each status event until ctx is done.
func (c *Consumer) Subscribe(ctx context.Context, handler func(StatusEvent)) error {
	eventChannel := make(chan *sse.Event)

	if err := c.client.SubscribeChanWithContext(ctx, constants.EventStreamLight, eventChannel); err != nil {
		return fmt.Errorf("subscribing to status events: %w", err)
	}
	defer c.client.Unsubscribe(eventChannel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-eventChannel:
			if event == nil || len(event.Data) == 0 {
				continue
			}
			status := StatusEvent{}
			if err := json.Unmarshal(event.Data, &status); err != nil {
				c.logger.Warn("Ignoring malformed status event", "err", err)
				continue
			}
			handler(status)
		}
	}
}
