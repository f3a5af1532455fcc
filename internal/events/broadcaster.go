package events

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/models"
)

type refreshSource interface {
	Subscribe(listener coordinator.Listener) (unsubscribe func())
}

// Broadcaster republishes every refresh outcome on the light SSE stream.
type Broadcaster struct {
	logger      *log.Logger
	source      refreshSource
	server      *sse.Server
	unsubscribe func()
}

func NewBroadcaster(logger *log.Logger, source refreshSource) *Broadcaster {
	server := sse.New()
	// clients read the current status from the API, history is not replayed
	server.AutoReplay = false
	server.CreateStream(constants.EventStreamLight)

	return &Broadcaster{logger: logger, source: source, server: server}
}

func (b *Broadcaster) Start() {
	b.logger.Debug("Broadcaster.Start")
	b.unsubscribe = b.source.Subscribe(b.Publish)
}

func (b *Broadcaster) Stop() {
	b.logger.Debug("Broadcaster.Stop")
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.server.Close()
}

func (b *Broadcaster) Publish(result models.RefreshResult) {
	data, err := json.Marshal(StatusEventFromResult(result))
	if err != nil {
		b.logger.Error("Error encoding status event", "err", err)
		return
	}
	b.server.Publish(constants.EventStreamLight, &sse.Event{Event: []byte("status"), Data: data})
}

// ServeHTTP streams the light events, whatever stream the client asked for.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", constants.EventStreamLight)
	r.URL.RawQuery = q.Encode()
	b.server.ServeHTTP(w, r)
}
