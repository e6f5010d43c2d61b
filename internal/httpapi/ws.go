package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/antoniostano/asistente/internal/logging"
	"github.com/antoniostano/asistente/internal/menu"
	"github.com/antoniostano/asistente/internal/protocol"
)

// handleMenuWS drives the menu over a websocket. Messages are processed in
// arrival order by a single worker so one connection never interleaves
// options for the same session.
func (s *Server) handleMenuWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	s.metrics.SessionEvent("ws_connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	inbound := make(chan any, 16)
	outbound := make(chan any, 16)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if sessionID != "" {
			s.enqueue(ctx, outbound, s.menuOptions(sessionID))
		}
		for msg := range inbound {
			s.enqueue(ctx, outbound, s.dispatch(ctx, msg))
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-outbound:
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					logging.Debug().Err(err).Msg("ws write failed")
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok {
					s.metrics.WSMessage("outbound", string(t))
				}
			}
		}
	}()

	conn.SetReadLimit(maxPayloadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.enqueue(ctx, outbound, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
			})
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessage("inbound", string(t))
		}
		select {
		case <-ctx.Done():
			break readLoop
		case inbound <- parsed:
		}
	}

	close(inbound)
	<-workerDone
	cancel()
	<-writerDone
	s.metrics.SessionEvent("ws_disconnected")
}

func (s *Server) enqueue(ctx context.Context, outbound chan<- any, msg any) {
	select {
	case <-ctx.Done():
	case outbound <- msg:
	}
}

func (s *Server) dispatch(ctx context.Context, msg any) any {
	switch m := msg.(type) {
	case protocol.MenuSelect:
		var reply menu.Reply
		if m.Payload == nil {
			reply = s.engine.Handle(ctx, m.OptionID, "", false, m.SessionID)
		} else {
			reply = s.engine.Handle(ctx, m.OptionID, *m.Payload, true, m.SessionID)
		}
		return protocol.MenuReply{
			Type:      protocol.TypeMenuReply,
			SessionID: m.SessionID,
			OptionID:  m.OptionID,
			Outcome:   string(reply.Kind),
			Text:      menu.Render(reply),
			ShowMenu:  reply.ShowsMenu(),
		}
	case protocol.MenuReset:
		s.engine.Reset(m.SessionID)
		return s.menuOptions(m.SessionID)
	case protocol.MenuShow:
		return s.menuOptions(m.SessionID)
	default:
		return protocol.ErrorEvent{
			Type:   protocol.TypeErrorEvent,
			Code:   "unsupported_message",
			Detail: protocol.ErrUnsupportedType.Error(),
		}
	}
}

func (s *Server) menuOptions(sessionID string) protocol.MenuOptions {
	view := s.engine.Menu(sessionID)
	options := make([]protocol.MenuOption, 0, len(view.Options))
	for _, o := range view.Options {
		options = append(options, protocol.MenuOption{
			ID:          o.ID,
			Description: o.Description,
			Action:      o.Action,
		})
	}
	return protocol.MenuOptions{
		Type:      protocol.TypeMenuOptions,
		SessionID: sessionID,
		Title:     view.Title,
		Options:   options,
		Status:    view.Status,
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.MenuSelect:
		return m.Type, true
	case protocol.MenuReset:
		return m.Type, true
	case protocol.MenuShow:
		return m.Type, true
	case protocol.MenuReply:
		return m.Type, true
	case protocol.MenuOptions:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
