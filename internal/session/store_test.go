package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreGetOrCreateIsLazy(t *testing.T) {
	s := NewStore(time.Minute)
	if _, err := s.Get("k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	sess := s.GetOrCreate("k1")
	if !sess.Active || sess.Key != "k1" || sess.Epoch == 0 {
		t.Fatalf("unexpected fresh session: %+v", sess)
	}
	again := s.GetOrCreate("k1")
	if again.Epoch != sess.Epoch {
		t.Fatalf("GetOrCreate() recreated existing session")
	}
}

func TestStoreReturnsClones(t *testing.T) {
	s := NewStore(time.Minute)
	s.Update("k1", func(sess *Session) { sess.Completed[1] = true })

	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Completed[2] = true
	got.ProjectName = "mutated"

	fresh, _ := s.Get("k1")
	if fresh.Completed[2] || fresh.ProjectName != "" {
		t.Fatalf("caller mutation leaked into store: %+v", fresh)
	}
}

func TestStorePutAndRemove(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(&Session{Key: "k1", Active: true, ProjectName: "Alpha"})

	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ProjectName != "Alpha" || got.Epoch == 0 {
		t.Fatalf("unexpected stored session: %+v", got)
	}
	if !s.Remove("k1") {
		t.Fatalf("Remove() = false, want true")
	}
	if s.Remove("k1") {
		t.Fatalf("second Remove() = true, want false")
	}
}

func TestStoreResetClearsStateAndBumpsEpoch(t *testing.T) {
	s := NewStore(time.Minute)
	before := s.Update("k1", func(sess *Session) {
		sess.Active = false
		sess.InteractionCount = 4
		sess.ProjectName = "Alpha"
		sess.ProjectContext = "ctx"
		sess.Tasks = "1. a"
		sess.Completed[1] = true
	})

	after := s.Reset("k1")
	if after.Epoch == before.Epoch {
		t.Fatalf("Reset() kept epoch %d", after.Epoch)
	}
	if !after.Active || after.InteractionCount != 0 || after.HasProject() || after.HasTasks() || len(after.Completed) != 0 {
		t.Fatalf("Reset() left state behind: %+v", after)
	}
}

func TestStoreUpdateIsAtomicPerKey(t *testing.T) {
	s := NewStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("k1", func(sess *Session) { sess.InteractionCount++ })
		}()
	}
	wg.Wait()

	got, _ := s.Get("k1")
	if got.InteractionCount != 50 {
		t.Fatalf("InteractionCount = %d, want 50", got.InteractionCount)
	}
}

func TestStoreRemoveIfIgnoresAbsentKey(t *testing.T) {
	s := NewStore(time.Minute)
	if s.RemoveIf("missing", func(*Session) bool { return true }) {
		t.Fatalf("RemoveIf() on absent key = true")
	}
}

func TestStoreJanitorExpiresIdleSessions(t *testing.T) {
	s := NewStore(30 * time.Millisecond)
	expired := make(chan string, 1)
	s.SetExpireHook(func(sess *Session) { expired <- sess.Key })
	s.GetOrCreate("k1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case key := <-expired:
		if key != "k1" {
			t.Fatalf("expired key = %q, want k1", key)
		}
	case <-time.After(time.Second):
		t.Fatalf("janitor did not expire idle session")
	}
	if _, err := s.Get("k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}
