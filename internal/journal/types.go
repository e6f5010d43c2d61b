package journal

import (
	"context"
	"time"
)

// Entry records one processed menu option.
type Entry struct {
	ID          string    `json:"id"`
	SessionKey  string    `json:"session_id"`
	OptionID    int       `json:"option_id"`
	Outcome     string    `json:"outcome"`
	Payload     string    `json:"payload,omitempty"`
	PIIRedacted bool      `json:"pii_redacted"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is an append-only audit trail. Nothing in the menu flow reads it
// back to rebuild session state.
type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, sessionKey string, limit int) ([]Entry, error)
	Close() error
}

const defaultRecentLimit = 20
