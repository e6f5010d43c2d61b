package session

import (
	"sync"
	"time"
)

// Reaper removes closed sessions after a grace period.
//
// A scheduled removal only deletes the record when it still carries the
// epoch captured at scheduling time and is inactive, so a session that was
// reset in the meantime survives even if its timer was not cancelled.
type Reaper struct {
	store *Store

	mu       sync.Mutex
	timers   map[string]pendingRemoval
	seq      uint64
	onReaped func(key string)
}

type pendingRemoval struct {
	id    uint64
	timer *time.Timer
}

func NewReaper(store *Store) *Reaper {
	return &Reaper{
		store:  store,
		timers: make(map[string]pendingRemoval),
	}
}

func (r *Reaper) SetReapHook(hook func(key string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReaped = hook
}

// ScheduleRemoval arms a one-shot removal of key after delay. Scheduling the
// same key again replaces the pending timer.
func (r *Reaper) ScheduleRemoval(key string, epoch uint64, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.timers[key]; ok {
		p.timer.Stop()
	}
	r.seq++
	id := r.seq
	r.timers[key] = pendingRemoval{
		id:    id,
		timer: time.AfterFunc(delay, func() { r.fire(key, epoch, id) }),
	}
}

// Cancel stops the pending removal for key, if any.
func (r *Reaper) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.timers[key]
	if !ok {
		return false
	}
	delete(r.timers, key)
	return p.timer.Stop()
}

func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Close stops every pending timer.
func (r *Reaper) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.timers {
		p.timer.Stop()
		delete(r.timers, key)
	}
}

func (r *Reaper) fire(key string, epoch, id uint64) {
	r.mu.Lock()
	if p, ok := r.timers[key]; ok && p.id == id {
		delete(r.timers, key)
	}
	hook := r.onReaped
	r.mu.Unlock()

	removed := r.store.RemoveIf(key, func(s *Session) bool {
		return s.Epoch == epoch && !s.Active
	})
	if removed && hook != nil {
		hook(key)
	}
}
