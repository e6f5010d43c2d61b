package journal

import (
	"context"
	"testing"
)

func TestInMemoryRecentIsChronologicalAndBounded(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := s.Record(ctx, Entry{SessionKey: "k1", OptionID: i, Outcome: "ok"}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	_ = s.Record(ctx, Entry{SessionKey: "other", OptionID: 4})

	got, err := s.Recent(ctx, "k1", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(Recent()) = %d, want 3", len(got))
	}
	for i, want := range []int{3, 4, 5} {
		if got[i].OptionID != want {
			t.Fatalf("entry %d OptionID = %d, want %d", i, got[i].OptionID, want)
		}
		if got[i].ID == "" || got[i].CreatedAt.IsZero() {
			t.Fatalf("entry %d missing id or timestamp: %+v", i, got[i])
		}
	}
}

func TestInMemoryRecentUnknownSession(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.Recent(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(Recent()) = %d, want 0", len(got))
	}
}

func TestInMemoryTrimsPerSession(t *testing.T) {
	s := NewInMemoryStore()
	s.perSession = 2
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		_ = s.Record(ctx, Entry{SessionKey: "k1", OptionID: i})
	}
	got, _ := s.Recent(ctx, "k1", 0)
	if len(got) != 2 || got[0].OptionID != 3 {
		t.Fatalf("Recent() = %+v, want options 3 and 4", got)
	}
}

func TestNewStoreWithoutDatabaseURL(t *testing.T) {
	s, err := NewStore(context.Background(), "  ")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("NewStore() = %T, want *InMemoryStore", s)
	}
}
