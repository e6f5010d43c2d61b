package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeMenuSelect  MessageType = "menu_select"
	TypeMenuReset   MessageType = "menu_reset"
	TypeMenuShow    MessageType = "menu_show"
	TypeMenuReply   MessageType = "menu_reply"
	TypeMenuOptions MessageType = "menu_options"
	TypeErrorEvent  MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// MenuSelect picks an option. Payload carries the free-text input, if any.
type MenuSelect struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	OptionID  int         `json:"option_id"`
	Payload   *string     `json:"payload,omitempty"`
}

type MenuReset struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

type MenuShow struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

type MenuReply struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	OptionID  int         `json:"option_id"`
	Outcome   string      `json:"outcome"`
	Text      string      `json:"text"`
	ShowMenu  bool        `json:"show_menu"`
}

type MenuOption struct {
	ID          int    `json:"id"`
	Description string `json:"descripcion"`
	Action      string `json:"accion"`
}

type MenuOptions struct {
	Type      MessageType  `json:"type"`
	SessionID string       `json:"session_id"`
	Title     string       `json:"title"`
	Options   []MenuOption `json:"options"`
	Status    string       `json:"status"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeMenuSelect:
		var msg MenuSelect
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.OptionID == 0 {
			return nil, errors.New("invalid menu_select")
		}
		return msg, nil
	case TypeMenuReset:
		var msg MenuReset
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid menu_reset")
		}
		return msg, nil
	case TypeMenuShow:
		var msg MenuShow
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid menu_show")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
