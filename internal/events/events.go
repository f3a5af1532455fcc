// Package events publishes coordinator refresh outcomes as server-sent events
// and consumes them on the client side.
package events

import (
	"time"

	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/models"
)

// StatusEvent is the payload of every event on the light stream.
type StatusEvent struct {
	Available bool                `json:"available"`
	Error     string              `json:"error,omitempty"`
	Status    *models.LightStatus `json:"status,omitempty"`
	Time      time.Time           `json:"time"`
}

func StatusEventFromResult(result models.RefreshResult) StatusEvent {
	event := StatusEvent{Available: result.Err == nil, Time: result.Time}
	if result.Err != nil {
		event.Error = result.Err.Error()
	}
	if result.HasSnapshot {
		status := capabilities.StatusFromSnapshot(result.Snapshot)
		event.Status = &status
	}
	return event
}
