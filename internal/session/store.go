package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the workflow state of one conversation.
type Session struct {
	Key              string `json:"session_id"`
	Active           bool   `json:"active"`
	InteractionCount int    `json:"interaction_count"`
	// ProjectContext is the full LLM reply that created the project.
	ProjectContext string `json:"project_context,omitempty"`
	ProjectName    string `json:"project_name,omitempty"`
	// Tasks holds one "n. description" line per task, append-only.
	Tasks          string       `json:"tasks,omitempty"`
	Completed      map[int]bool `json:"completed,omitempty"`
	Epoch          uint64       `json:"epoch"`
	StartedAt      time.Time    `json:"started_at"`
	LastActivityAt time.Time    `json:"last_activity_at"`
}

func (s *Session) HasProject() bool { return s.ProjectName != "" }

func (s *Session) HasTasks() bool { return s.Tasks != "" }

// Store keeps one composite record per session key. Every operation on a
// key runs inside a single critical section; callers must not do slow work
// (LLM calls) inside Update callbacks.
type Store struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	nextEpoch         uint64
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewStore(inactivityTimeout time.Duration) *Store {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Minute
	}
	return &Store{
		sessions:          make(map[string]*Session),
		inactivityTimeout: inactivityTimeout,
	}
}

func (s *Store) SetExpireHook(hook func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// GetOrCreate returns the session for key, inserting a fresh active one.
func (s *Store) GetOrCreate(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.getOrCreateLocked(key))
}

func (s *Store) Get(key string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sess), nil
}

// Put replaces the whole record stored under sess.Key.
func (s *Store) Put(sess *Session) {
	c := clone(sess)
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Epoch == 0 {
		s.nextEpoch++
		c.Epoch = s.nextEpoch
	}
	s.sessions[c.Key] = c
}

// Update applies fn to the live record for key, creating it first when
// absent, and returns a copy of the result.
func (s *Store) Update(key string, fn func(*Session)) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(key)
	fn(sess)
	sess.LastActivityAt = time.Now().UTC()
	return clone(sess)
}

// Reset clears the project state of key in place and gives it a new epoch,
// so removals scheduled against the old epoch become no-ops.
func (s *Store) Reset(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(key)
	s.nextEpoch++
	sess.Epoch = s.nextEpoch
	sess.Active = true
	sess.InteractionCount = 0
	sess.ProjectContext = ""
	sess.ProjectName = ""
	sess.Tasks = ""
	sess.Completed = make(map[int]bool)
	sess.LastActivityAt = time.Now().UTC()
	return clone(sess)
}

func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[key]; !ok {
		return false
	}
	delete(s.sessions, key)
	return true
}

// RemoveIf deletes key only when match returns true for the current record.
// Absent keys are ignored.
func (s *Store) RemoveIf(key string, match func(*Session) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok || !match(sess) {
		return false
	}
	delete(s.sessions, key)
	return true
}

func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sess := range s.sessions {
		if sess.Active {
			count++
		}
	}
	return count
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor drops sessions that saw no activity for the inactivity timeout.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireInactive()
			}
		}
	}()
}

func (s *Store) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	s.mu.Lock()
	for key, sess := range s.sessions {
		if now.Sub(sess.LastActivityAt) < s.inactivityTimeout {
			continue
		}
		expired = append(expired, clone(sess))
		delete(s.sessions, key)
	}
	hook := s.onExpire
	s.mu.Unlock()

	if hook != nil {
		for _, sess := range expired {
			hook(sess)
		}
	}
}

func (s *Store) getOrCreateLocked(key string) *Session {
	if sess, ok := s.sessions[key]; ok {
		return sess
	}
	now := time.Now().UTC()
	s.nextEpoch++
	sess := &Session{
		Key:            key,
		Active:         true,
		Completed:      make(map[int]bool),
		Epoch:          s.nextEpoch,
		StartedAt:      now,
		LastActivityAt: now,
	}
	s.sessions[key] = sess
	return sess
}

func clone(s *Session) *Session {
	c := *s
	c.Completed = make(map[int]bool, len(s.Completed))
	for n, done := range s.Completed {
		c.Completed[n] = done
	}
	return &c
}
