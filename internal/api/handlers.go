package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/lights"
	"github.com/wheelibin/klyqa/internal/models"
)

const maxRequestBody = 1 << 16

type healthResponse struct {
	Status      string     `json:"status"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if last := s.state.LastRefresh(); !last.IsZero() {
		resp.LastRefresh = &last
	}

	if err := s.state.LastError(); err != nil {
		resp.Status = "unavailable"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.state.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "light state not yet known")
		return
	}
	writeJSON(w, http.StatusOK, capabilities.StatusFromSnapshot(snap))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.state.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "device info not yet known")
		return
	}
	writeJSON(w, http.StatusOK, capabilities.DeviceInfoFromSnapshot(snap, s.mac))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.state.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, capabilities.StatusFromSnapshot(snap))
}

func (s *Server) handleTurnOn(w http.ResponseWriter, r *http.Request) {
	req := models.LightRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	s.writeCommandResult(w, s.lights.TurnOn(r.Context(), req))
}

func (s *Server) handleTurnOff(w http.ResponseWriter, r *http.Request) {
	s.writeCommandResult(w, s.lights.TurnOff(r.Context()))
}

// writeCommandResult answers with the refreshed status after a command.
func (s *Server) writeCommandResult(w http.ResponseWriter, err error) {
	var updateErr *lights.DeviceUpdateError
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case errors.As(err, &updateErr):
		writeError(w, http.StatusBadGateway, ErrCodeDeviceUpdateFailed, updateErr.Error())
		return
	default:
		s.logger.Error("Unexpected error handling light command", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}

	snap, ok := s.state.Snapshot()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, capabilities.StatusFromSnapshot(snap))
}
