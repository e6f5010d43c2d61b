package main

import (
	"strings"
	"testing"
	"time"
)

func TestWSURLForMenu(t *testing.T) {
	got, err := wsURLForMenu("https://asistente.example.com/base/", "s 1")
	if err != nil {
		t.Fatalf("wsURLForMenu() error = %v", err)
	}
	want := "wss://asistente.example.com/base/api/menu/ws?sessionId=s+1"
	if got != want {
		t.Fatalf("wsURLForMenu() = %q, want %q", got, want)
	}

	if _, err := wsURLForMenu("ftp://host", "s1"); err == nil {
		t.Fatalf("wsURLForMenu(ftp) expected error")
	}
}

func TestSplitIdeas(t *testing.T) {
	got := splitIdeas(" a | |b|")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitIdeas() = %q", got)
	}
}

func TestRoundStepsCoverEveryOption(t *testing.T) {
	seen := map[int]bool{}
	for _, st := range roundSteps("idea") {
		seen[st.optionID] = true
	}
	for _, id := range []int{1, 2, 3} {
		if !seen[id] {
			t.Fatalf("round does not exercise option %d", id)
		}
	}
}

func TestSummarize(t *testing.T) {
	lines := summarize([]sample{
		{label: "option_1", latency: 30 * time.Millisecond},
		{label: "option_1", latency: 10 * time.Millisecond},
		{label: "option_1", latency: 20 * time.Millisecond},
		{label: "option_3_payload", latency: 5 * time.Millisecond},
	})
	if len(lines) != 2 {
		t.Fatalf("len(summarize()) = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "n=3") || !strings.Contains(lines[0], "p50=20ms") || !strings.Contains(lines[0], "max=30ms") {
		t.Fatalf("summary line = %q", lines[0])
	}
}
