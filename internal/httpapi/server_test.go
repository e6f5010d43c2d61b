package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/antoniostano/asistente/internal/config"
	"github.com/antoniostano/asistente/internal/journal"
	"github.com/antoniostano/asistente/internal/llm"
	"github.com/antoniostano/asistente/internal/menu"
	"github.com/antoniostano/asistente/internal/observability"
	"github.com/antoniostano/asistente/internal/session"
)

type failingGateway struct{ kind llm.FailureKind }

func (g failingGateway) Generate(context.Context, string, int) (string, error) {
	return "", &llm.Error{Kind: g.kind, Err: errors.New("upstream failed")}
}

func newTestServer(t *testing.T, gateway llm.Gateway) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		ExitReapDelay:            time.Minute,
		ChatMaxTokens:            2000,
	}
	metrics := observability.NewMetricsWith(prometheus.NewRegistry(), "test_httpapi")
	store := session.NewStore(cfg.SessionInactivityTimeout)
	reaper := session.NewReaper(store)
	t.Cleanup(reaper.Close)
	engine := menu.NewEngine(store, reaper, gateway, journal.NewInMemoryStore(), metrics, menu.Config{ReapDelay: cfg.ExitReapDelay})

	ts := httptest.NewServer(New(cfg, engine, gateway, metrics).Router())
	t.Cleanup(ts.Close)
	return ts
}

func postText(t *testing.T, url, body string) (int, string) {
	t.Helper()
	res, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, string(data)
}

func TestMenuOptions(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	res, err := http.Get(ts.URL + "/api/menu/opciones?sessionId=s1")
	if err != nil {
		t.Fatalf("GET /api/menu/opciones error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	var view map[string]any
	if err := json.NewDecoder(res.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view["titulo"] != "Menú Principal - Gestión de Proyectos" || view["estado"] != "activo" {
		t.Fatalf("unexpected menu view: %+v", view)
	}
	if opts, _ := view["opciones"].([]any); len(opts) != 4 {
		t.Fatalf("opciones = %+v, want 4 entries", view["opciones"])
	}
}

func TestProjectFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())
	base := ts.URL + "/api/menu/procesar/"

	status, body := postText(t, base+"1?sessionId=s1", "")
	if status != http.StatusOK || !strings.Contains(body, "CREAR NUEVO PROYECTO") {
		t.Fatalf("option 1 = %d %q", status, body)
	}

	status, body = postText(t, base+"1/datos?sessionId=s1", "tienda online de ropa")
	if status != http.StatusOK || !strings.Contains(body, menu.ShowMenuSentinel) {
		t.Fatalf("option 1 with idea = %d %q", status, body)
	}

	status, body = postText(t, base+"3/datos?sessionId=s1", "2")
	if status != http.StatusOK || !strings.Contains(body, "1/10 tareas (10.0%)") {
		t.Fatalf("complete task = %d %q", status, body)
	}

	res, err := http.Get(ts.URL + "/api/menu/sesion/s1")
	if err != nil {
		t.Fatalf("GET session error = %v", err)
	}
	defer res.Body.Close()
	var snap map[string]any
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap["proyecto"] != "TiendaOnlineDe" {
		t.Fatalf("proyecto = %v, want TiendaOnlineDe", snap["proyecto"])
	}
	if tasks, _ := snap["tareas"].([]any); len(tasks) != 10 {
		t.Fatalf("tareas = %d entries, want 10", len(tasks))
	}

	histRes, err := http.Get(ts.URL + "/api/menu/sesion/s1/historial")
	if err != nil {
		t.Fatalf("GET history error = %v", err)
	}
	defer histRes.Body.Close()
	var hist struct {
		Entries []journal.Entry `json:"entries"`
	}
	if err := json.NewDecoder(histRes.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Entries) != 3 {
		t.Fatalf("history entries = %d, want 3", len(hist.Entries))
	}
}

func TestInvalidOptionID(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	status, body := postText(t, ts.URL+"/api/menu/procesar/abc?sessionId=s1", "")
	if status != http.StatusBadRequest || !strings.Contains(body, "invalid_option_id") {
		t.Fatalf("non-numeric option = %d %q", status, body)
	}

	status, body = postText(t, ts.URL+"/api/menu/procesar/9?sessionId=s1", "")
	if status != http.StatusOK || !strings.Contains(body, "del 1 al 4") {
		t.Fatalf("out-of-range option = %d %q", status, body)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	res, err := http.Get(ts.URL + "/api/menu/sesion/missing")
	if err != nil {
		t.Fatalf("GET session error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestResetSession(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())
	postText(t, ts.URL+"/api/menu/procesar/1/datos?sessionId=s1", "app de recetas")
	postText(t, ts.URL+"/api/menu/procesar/4?sessionId=s1", "")

	status, body := postText(t, ts.URL+"/api/menu/sesion/s1/reiniciar", "")
	if status != http.StatusOK {
		t.Fatalf("reset status = %d %q", status, body)
	}
	var snap map[string]any
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("decode reset: %v", err)
	}
	if snap["activa"] != true || snap["proyecto"] != nil {
		t.Fatalf("reset snapshot = %+v", snap)
	}
}

func TestLegacyDataPath(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	status, body := postText(t, ts.URL+"/api/menu/procesar/2/datos", "Mi App")
	if status != http.StatusOK || !strings.Contains(body, "TAREAS DEL PROYECTO: Mi App") {
		t.Fatalf("legacy option 2 = %d %q", status, body)
	}
}

func TestChatWebhook(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	body, _ := json.Marshal(map[string]string{"mensaje": "hola", "usuario": "ana"})
	res, err := http.Post(ts.URL+"/webhook/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /webhook/chat error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Estado != "exitoso" || out.Usuario != "ana" || out.Respuesta == "" {
		t.Fatalf("unexpected chat response: %+v", out)
	}
}

func TestChatWebhookRejectsEmptyMessage(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	res, err := http.Post(ts.URL+"/webhook/chat", "application/json", strings.NewReader(`{"mensaje":"  "}`))
	if err != nil {
		t.Fatalf("POST /webhook/chat error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestChatWebhookGatewayFailure(t *testing.T) {
	ts := newTestServer(t, failingGateway{kind: llm.FailureInvalidCredentials})

	res, err := http.Post(ts.URL+"/webhook/chat", "application/json", strings.NewReader(`{"mensaje":"hola","usuario":"ana"}`))
	if err != nil {
		t.Fatalf("POST /webhook/chat error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadGateway)
	}
	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Estado != "error" || !strings.Contains(out.Respuesta, "API Key inválida") {
		t.Fatalf("unexpected failure response: %+v", out)
	}
}

func TestWebhookHealth(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())

	res, err := http.Get(ts.URL + "/webhook/health")
	if err != nil {
		t.Fatalf("GET /webhook/health error = %v", err)
	}
	defer res.Body.Close()
	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Estado != "activo" {
		t.Fatalf("estado = %q, want activo", out.Estado)
	}
}

func TestMenuWebsocket(t *testing.T) {
	ts := newTestServer(t, llm.NewMockGateway())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/menu/ws?sessionId=s1"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read menu_options: %v", err)
	}
	if first["type"] != "menu_options" || first["status"] != "activo" {
		t.Fatalf("first message = %+v", first)
	}

	if err := conn.WriteJSON(map[string]any{"type": "menu_select", "session_id": "s1", "option_id": 1, "payload": "tienda online de ropa"}); err != nil {
		t.Fatalf("write menu_select: %v", err)
	}
	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read menu_reply: %v", err)
	}
	if reply["type"] != "menu_reply" || reply["show_menu"] != true || reply["outcome"] != "project_created" {
		t.Fatalf("menu_reply = %+v", reply)
	}

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	var errEvent map[string]any
	if err := conn.ReadJSON(&errEvent); err != nil {
		t.Fatalf("read error_event: %v", err)
	}
	if errEvent["type"] != "error_event" || errEvent["code"] != "invalid_client_message" {
		t.Fatalf("error_event = %+v", errEvent)
	}
}
