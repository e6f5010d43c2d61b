package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps a bounded journal per session in process memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    map[string][]Entry
	perSession int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries:    make(map[string][]Entry),
		perSession: 200,
	}
}

func (s *InMemoryStore) Record(_ context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	arr := append(s.entries[entry.SessionKey], entry)
	if len(arr) > s.perSession {
		arr = arr[len(arr)-s.perSession:]
	}
	s.entries[entry.SessionKey] = arr
	return nil
}

// Recent returns up to limit entries for sessionKey in chronological order.
func (s *InMemoryStore) Recent(_ context.Context, sessionKey string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.entries[sessionKey]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Entry, limit)
	copy(out, arr[len(arr)-limit:])
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
