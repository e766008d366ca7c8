package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/randutil"
	"github.com/lox/holdemtracker/internal/replay"
	"github.com/lox/holdemtracker/internal/statistics"
	"github.com/lox/holdemtracker/internal/tracker"
)

const maxEquitySamples = 200000

// classify maps tracker and game errors onto an HTTP status and an error code
func classify(err error) (int, string) {
	var illegal game.IllegalActionError
	var unknown game.UnknownPlayerError
	var dup deck.DuplicateCardError

	switch {
	case errors.Is(err, tracker.ErrNotStarted):
		return http.StatusNotFound, "not_started"
	case errors.Is(err, game.ErrNoRound):
		return http.StatusNotFound, "no_round"
	case errors.Is(err, game.ErrRoundNotEnded),
		errors.Is(err, game.ErrRoundEnded),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotShowdown):
		return http.StatusConflict, "wrong_state"
	case errors.As(err, &illegal):
		return http.StatusConflict, "illegal_action"
	case errors.As(err, &dup):
		return http.StatusConflict, "duplicate_card"
	case errors.As(err, &unknown):
		return http.StatusBadRequest, "unknown_player"
	case errors.Is(err, deck.ErrInvalidCard):
		return http.StatusBadRequest, "invalid_card"
	default:
		return http.StatusUnprocessableEntity, "rejected"
	}
}

func errorCode(err error) string {
	_, code := classify(err)
	return code
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	data, _ := json.Marshal(ErrorData{Code: code, Message: err.Error()})
	s.writeJSON(w, status, data)
}

func (s *Server) writeTrackerError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	s.writeError(w, status, code, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	s.serveSnapshot(w, false)
}

func (s *Server) handleGameDetailed(w http.ResponseWriter, r *http.Request) {
	s.serveSnapshot(w, true)
}

func (s *Server) serveSnapshot(w http.ResponseWriter, detailed bool) {
	data, err := s.tracker.Snapshot(detailed)
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

func roundNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		return 0, errors.New("round number must be a positive integer")
	}
	return n, nil
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	n, err := roundNumber(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	data, err := s.tracker.RoundSnapshot(n, detailed)
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleRoundPHH(w http.ResponseWriter, r *http.Request) {
	n, err := roundNumber(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	data, err := s.tracker.RoundPHH(n)
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	samples := s.equitySamples
	if v := r.URL.Query().Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxEquitySamples {
			s.writeError(w, http.StatusBadRequest, "bad_request",
				errors.New("samples must be between 1 and 200000"))
			return
		}
		samples = n
	}

	rng, _ := randutil.Seeded(nil)
	eq, err := s.tracker.HeroEquity(r.Context(), samples, rng)
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	data, err := json.Marshal(eq)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

// handleStats reports the hero's results over the finished rounds
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := s.tracker.View(func(g *game.Game) error {
		var err error
		data, err = json.Marshal(statistics.FromGame(g).Summary())
		return err
	})
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

// handleEvent applies one observation and responds with the new snapshot
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var e replay.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_message", err)
		return
	}

	if err := replay.Apply(s.tracker, e); err != nil {
		s.logger.Warn("Event rejected", "event", e, "error", err)
		s.writeTrackerError(w, err)
		return
	}
	s.logger.Debug("Event applied", "event", e)
	s.serveSnapshot(w, false)
}
