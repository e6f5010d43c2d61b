package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/antoniostano/asistente/internal/session"
)

const maxPayloadBytes = 64 << 10

func (s *Server) handleMenuOptions(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if key == "" {
		key = uuid.NewString()
	}
	respondJSON(w, http.StatusOK, s.engine.Menu(key))
}

func (s *Server) handleProcessOption(w http.ResponseWriter, r *http.Request) {
	optionID, ok := parseOptionID(w, r)
	if !ok {
		return
	}
	key := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if key == "" {
		key = uuid.NewString()
		w.Header().Set("X-Session-ID", key)
	}
	respondText(w, http.StatusOK, s.engine.ProcessOption(r.Context(), optionID, key))
}

func (s *Server) handleProcessOptionWithData(w http.ResponseWriter, r *http.Request) {
	optionID, ok := parseOptionID(w, r)
	if !ok {
		return
	}
	payload, err := readPayload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	key := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if key == "" {
		respondText(w, http.StatusOK, s.engine.ProcessLegacy(r.Context(), optionID, payload))
		return
	}
	respondText(w, http.StatusOK, s.engine.ProcessOptionWithPayload(r.Context(), optionID, payload, key))
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	key, ok := sessionParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.engine.Reset(key))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	key, ok := sessionParam(w, r)
	if !ok {
		return
	}
	status, err := s.engine.Snapshot(key)
	if errors.Is(err, session.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	key, ok := sessionParam(w, r)
	if !ok {
		return
	}
	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries, err := s.engine.History(r.Context(), key, limit)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "journal_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": key,
		"entries":   entries,
	})
}

func parseOptionID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "optionId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_option_id", "optionId must be an integer")
		return 0, false
	}
	return id, true
}

func sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(chi.URLParam(r, "id"))
	if key == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return "", false
	}
	return key, true
}

func readPayload(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxPayloadBytes {
		return "", errors.New("payload too large")
	}
	return string(data), nil
}
