package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/asistente/internal/llm"
	"github.com/antoniostano/asistente/internal/logging"
)

type chatRequest struct {
	Mensaje string `json:"mensaje"`
	Usuario string `json:"usuario"`
}

type chatResponse struct {
	Respuesta string `json:"respuesta"`
	Estado    string `json:"estado"`
	Usuario   string `json:"usuario"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Mensaje) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "El mensaje no puede estar vacío")
		return
	}

	start := time.Now()
	text, err := s.gateway.Generate(r.Context(), req.Mensaje, s.chatMaxTokens())
	s.metrics.ObserveGatewayLatency(time.Since(start))
	if err != nil {
		kind := llm.KindOf(err)
		s.metrics.GatewayFailure(string(kind))
		logging.Warn().Err(err).Str("kind", string(kind)).Str("usuario", req.Usuario).Msg("chat webhook failed")
		respondJSON(w, http.StatusBadGateway, chatResponse{
			Respuesta: llm.FailureText(kind),
			Estado:    "error",
			Usuario:   req.Usuario,
		})
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Respuesta: text,
		Estado:    "exitoso",
		Usuario:   req.Usuario,
	})
}

func (s *Server) handleWebhookHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, chatResponse{
		Respuesta: "Webhook funcionando correctamente",
		Estado:    "activo",
		Usuario:   "sistema",
	})
}

func (s *Server) chatMaxTokens() int {
	if s.cfg.ChatMaxTokens > 0 {
		return s.cfg.ChatMaxTokens
	}
	return llm.DefaultChatMaxTokens
}
