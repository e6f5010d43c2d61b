package session

import (
	"errors"
	"testing"
	"time"
)

func closeSession(s *Store, key string) *Session {
	return s.Update(key, func(sess *Session) {
		sess.Active = false
		sess.ProjectName = "Alpha"
	})
}

func TestReaperRemovesClosedSession(t *testing.T) {
	s := NewStore(time.Minute)
	r := NewReaper(s)
	reaped := make(chan string, 1)
	r.SetReapHook(func(key string) { reaped <- key })

	closed := closeSession(s, "k1")
	r.ScheduleRemoval("k1", closed.Epoch, 10*time.Millisecond)

	select {
	case <-reaped:
	case <-time.After(time.Second):
		t.Fatalf("reaper did not fire")
	}
	if _, err := s.Get("k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if r.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", r.Pending())
	}
}

func TestReaperSkipsSessionResetBeforeFiring(t *testing.T) {
	s := NewStore(time.Minute)
	r := NewReaper(s)

	closed := closeSession(s, "k1")
	r.ScheduleRemoval("k1", closed.Epoch, 20*time.Millisecond)
	// Reset without cancelling: the epoch guard alone must protect the session.
	s.Reset("k1")
	s.Update("k1", func(sess *Session) { sess.ProjectName = "Beta" })

	time.Sleep(80 * time.Millisecond)
	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("revived session was removed: %v", err)
	}
	if got.ProjectName != "Beta" {
		t.Fatalf("ProjectName = %q, want Beta", got.ProjectName)
	}
}

func TestReaperCancel(t *testing.T) {
	s := NewStore(time.Minute)
	r := NewReaper(s)

	closed := closeSession(s, "k1")
	r.ScheduleRemoval("k1", closed.Epoch, 20*time.Millisecond)
	if !r.Cancel("k1") {
		t.Fatalf("Cancel() = false, want true")
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := s.Get("k1"); err != nil {
		t.Fatalf("cancelled removal still fired: %v", err)
	}
	if r.Cancel("k1") {
		t.Fatalf("second Cancel() = true, want false")
	}
}

func TestReaperToleratesAbsentKey(t *testing.T) {
	s := NewStore(time.Minute)
	r := NewReaper(s)
	called := make(chan string, 1)
	r.SetReapHook(func(key string) { called <- key })

	r.ScheduleRemoval("ghost", 1, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	select {
	case key := <-called:
		t.Fatalf("hook called for absent key %q", key)
	default:
	}
}

func TestReaperRescheduleReplacesTimer(t *testing.T) {
	s := NewStore(time.Minute)
	r := NewReaper(s)
	defer r.Close()

	closed := closeSession(s, "k1")
	r.ScheduleRemoval("k1", closed.Epoch, time.Hour)
	r.ScheduleRemoval("k1", closed.Epoch, time.Hour)
	if r.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", r.Pending())
	}
}
