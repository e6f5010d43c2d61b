package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/antoniostano/asistente/internal/protocol"
)

type options struct {
	baseURL     string
	sessionID   string
	rounds      int
	ideas       []string
	stepTimeout time.Duration
	verbose     bool
}

// step is one menu_select sent by the probe.
type step struct {
	optionID int
	payload  *string
}

type sample struct {
	label   string
	latency time.Duration
	outcome string
}

var defaultIdeas = []string{
	"tienda online de ropa",
	"aplicación de reservas para un gimnasio",
	"plataforma de cursos para docentes",
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "menuprobe: %v\n", err)
		os.Exit(2)
	}
	samples, err := run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "menuprobe: %v\n", err)
		os.Exit(1)
	}
	for _, line := range summarize(samples) {
		fmt.Println(line)
	}
}

func parseFlags() (options, error) {
	var cfg options
	var ideasRaw string
	var stepTimeoutMS int

	flag.StringVar(&cfg.baseURL, "base-url", "http://127.0.0.1:8080", "asistente base URL")
	flag.StringVar(&cfg.sessionID, "session-id", "", "session id to drive (random when empty)")
	flag.IntVar(&cfg.rounds, "rounds", 3, "number of create/complete rounds to replay")
	flag.IntVar(&stepTimeoutMS, "step-timeout-ms", 90000, "timeout waiting for each menu reply in milliseconds")
	flag.StringVar(&ideasRaw, "ideas", "", "project ideas separated by '|' (optional)")
	flag.BoolVar(&cfg.verbose, "verbose", true, "print replay progress")
	flag.Parse()

	cfg.baseURL = strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	if cfg.baseURL == "" {
		return options{}, fmt.Errorf("base-url is required")
	}
	if cfg.rounds <= 0 {
		return options{}, fmt.Errorf("rounds must be > 0")
	}
	if stepTimeoutMS < 1000 {
		stepTimeoutMS = 1000
	}
	cfg.stepTimeout = time.Duration(stepTimeoutMS) * time.Millisecond
	if strings.TrimSpace(cfg.sessionID) == "" {
		cfg.sessionID = "probe-" + uuid.NewString()[:8]
	}

	cfg.ideas = splitIdeas(ideasRaw)
	if len(cfg.ideas) == 0 {
		cfg.ideas = append([]string(nil), defaultIdeas...)
	}
	return cfg, nil
}

func splitIdeas(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func roundSteps(idea string) []step {
	text := func(s string) *string { return &s }
	return []step{
		{optionID: 1},
		{optionID: 1, payload: text(idea)},
		{optionID: 3},
		{optionID: 3, payload: text("1")},
		{optionID: 2, payload: text("Revisar el plan con el equipo")},
		{optionID: 3, payload: text("1")},
	}
}

func run(cfg options) ([]sample, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	wsURL, err := wsURLForMenu(cfg.baseURL, cfg.sessionID)
	if err != nil {
		return nil, fmt.Errorf("build ws URL: %w", err)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("open websocket: %w", err)
	}
	defer conn.Close()

	if _, err := await(conn, protocol.TypeMenuOptions, cfg.stepTimeout); err != nil {
		return nil, fmt.Errorf("await initial menu: %w", err)
	}
	if cfg.verbose {
		fmt.Printf("menuprobe: session=%s rounds=%d\n", cfg.sessionID, cfg.rounds)
	}

	var samples []sample
	for i := 0; i < cfg.rounds; i++ {
		idea := cfg.ideas[i%len(cfg.ideas)]
		for _, st := range roundSteps(idea) {
			s, err := sendStep(conn, cfg.sessionID, st, cfg.stepTimeout)
			if err != nil {
				return samples, fmt.Errorf("round %d option %d: %w", i+1, st.optionID, err)
			}
			if cfg.verbose {
				fmt.Printf("menuprobe: round %d %s outcome=%s latency=%s\n", i+1, s.label, s.outcome, s.latency.Round(time.Millisecond))
			}
			samples = append(samples, s)
		}

		if err := conn.WriteJSON(protocol.MenuReset{Type: protocol.TypeMenuReset, SessionID: cfg.sessionID}); err != nil {
			return samples, fmt.Errorf("round %d reset: %w", i+1, err)
		}
		if _, err := await(conn, protocol.TypeMenuOptions, cfg.stepTimeout); err != nil {
			return samples, fmt.Errorf("round %d await reset: %w", i+1, err)
		}
	}

	exit := step{optionID: 4}
	s, err := sendStep(conn, cfg.sessionID, exit, cfg.stepTimeout)
	if err != nil {
		return samples, fmt.Errorf("exit: %w", err)
	}
	samples = append(samples, s)
	if cfg.verbose {
		fmt.Println("menuprobe: replay completed")
	}
	return samples, nil
}

func sendStep(conn *websocket.Conn, sessionID string, st step, timeout time.Duration) (sample, error) {
	start := time.Now()
	msg := protocol.MenuSelect{
		Type:      protocol.TypeMenuSelect,
		SessionID: sessionID,
		OptionID:  st.optionID,
		Payload:   st.payload,
	}
	if err := conn.WriteJSON(msg); err != nil {
		return sample{}, err
	}
	data, err := await(conn, protocol.TypeMenuReply, timeout)
	if err != nil {
		return sample{}, err
	}
	var reply protocol.MenuReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return sample{}, fmt.Errorf("decode menu_reply: %w", err)
	}
	return sample{label: stepLabel(st), latency: time.Since(start), outcome: reply.Outcome}, nil
}

func stepLabel(st step) string {
	if st.payload == nil {
		return fmt.Sprintf("option_%d", st.optionID)
	}
	return fmt.Sprintf("option_%d_payload", st.optionID)
}

// await reads until a message of the wanted type arrives. error_event
// messages abort the wait.
func await(conn *websocket.Conn, want protocol.MessageType, timeout time.Duration) ([]byte, error) {
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	defer conn.SetReadDeadline(time.Time{})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		var env protocol.ErrorEvent
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case want:
			return data, nil
		case protocol.TypeErrorEvent:
			return nil, fmt.Errorf("error_event code=%s detail=%s", env.Code, env.Detail)
		}
	}
}

func wsURLForMenu(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported base-url scheme %q", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return "", fmt.Errorf("base-url host is required")
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/menu/ws"
	q := u.Query()
	q.Set("sessionId", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// summarize reports count, p50 and max latency per step label.
func summarize(samples []sample) []string {
	byLabel := make(map[string][]time.Duration)
	for _, s := range samples {
		byLabel[s.label] = append(byLabel[s.label], s.latency)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		ds := byLabel[label]
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
		p50 := ds[(len(ds)-1)/2]
		lines = append(lines, fmt.Sprintf("%-18s n=%d p50=%s max=%s",
			label, len(ds), p50.Round(time.Millisecond), ds[len(ds)-1].Round(time.Millisecond)))
	}
	return lines
}
