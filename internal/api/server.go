// Package api serves the light over HTTP: status and device info reads,
// on/off commands, manual refresh and a server-sent event stream of refresh
// outcomes.
//
//	server := api.NewServer(logger, ":8080", mac, coordinator, controller, broadcaster)
//	server.Start()
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/models"
)

const (
	gracefulShutdownTimeout = 10 * time.Second
	readHeaderTimeout       = 5 * time.Second
)

type stateProvider interface {
	Snapshot() (models.Snapshot, bool)
	LastError() error
	LastRefresh() time.Time
	Refresh(ctx context.Context) (models.Snapshot, error)
}

type lightController interface {
	TurnOn(ctx context.Context, req models.LightRequest) error
	TurnOff(ctx context.Context) error
}

type Server struct {
	logger *log.Logger
	listen string
	mac    string
	state  stateProvider
	lights lightController
	// optional SSE handler for /events
	events http.Handler

	server *http.Server
}

func NewServer(logger *log.Logger, listen string, mac string, state stateProvider, lights lightController, events http.Handler) *Server {
	return &Server{
		logger: logger,
		listen: listen,
		mac:    mac,
		state:  state,
		lights: lights,
		events: events,
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.listen, err)
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info("API server listening", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "err", err)
		}
	}()

	return nil
}

// Close waits for in-flight requests, then closes the listener. Open event
// streams are ended by closing their source first.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
