package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vitormoschetta/go-echo-chat/internal/config"
	"github.com/vitormoschetta/go-echo-chat/internal/model"
	"github.com/vitormoschetta/go-echo-chat/internal/server"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

type failingEchoer struct{ err error }

func (f failingEchoer) Handle(model.ChatRequest) service.Result {
	return service.Failed(f.err)
}

type panickingEchoer struct{}

func (panickingEchoer) Handle(model.ChatRequest) service.Result {
	panic("kaput")
}

func newRouter(t *testing.T, cfg config.Config, echo service.Echoer) http.Handler {
	t.Helper()
	srv, err := server.NewServer(cfg, echo)
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}
	h := NewHandler(srv)
	srv.SetupRouter(h.HandleRoot, h.HandleHealth, h.HandleChat)
	return srv.Router
}

func postChat(t *testing.T, router http.Handler, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body is not a JSON object of strings: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHandleChat_Success(t *testing.T) {
	router := newRouter(t, config.Default(), service.NewEchoService(nil))

	for _, path := range []string{"/api/chat", "/chat"} {
		before := time.Now()
		rec := postChat(t, router, path, "application/json", `{"message": "Hello bot, how are you?"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("unexpected content type %q", ct)
		}

		body := decodeBody(t, rec)
		if body["response"] != "Echo: Hello bot, how are you?" {
			t.Errorf("unexpected response %q", body["response"])
		}
		ts, err := time.Parse(time.RFC3339Nano, body["timestamp"])
		if err != nil {
			t.Fatalf("timestamp does not parse: %v", err)
		}
		if d := ts.Sub(before); d < -time.Second || d > 5*time.Second {
			t.Errorf("timestamp too far from request time: %s", d)
		}
		if len(body) != 2 {
			t.Errorf("unexpected fields: %v", body)
		}
	}
}

func TestHandleChat_KeepsUntrimmedMessage(t *testing.T) {
	router := newRouter(t, config.Default(), service.NewEchoService(nil))
	rec := postChat(t, router, "/api/chat", "application/json; charset=utf-8", `{"message":"  spaced out \n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["response"]; got != "Echo:   spaced out \n" {
		t.Errorf("unexpected response %q", got)
	}
}

func TestHandleChat_ValidationErrors(t *testing.T) {
	router := newRouter(t, config.Default(), service.NewEchoService(nil))

	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{"empty object", "application/json", `{}`},
		{"whitespace", "application/json", `{"message": "   "}`},
		{"number", "application/json", `{"message": 42}`},
		{"null", "application/json", `{"message": null}`},
		{"empty string", "application/json", `{"message": ""}`},
		{"array body", "application/json", `[{"message": "hi"}]`},
		{"empty body", "application/json", ``},
		{"no content type", "", `{"message": "hi"}`},
		{"text body", "text/plain", `{"message": "hi"}`},
		{"vendor json type", "application/vnd.api+json", `{"message": "hi"}`},
		{"upper-case key", "application/json", `{"MESSAGE": "hi"}`},
		{"title-case key", "application/json", `{"Message": "hi"}`},
	}
	for _, tc := range cases {
		rec := postChat(t, router, "/api/chat", tc.contentType, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d (%s)", tc.name, rec.Code, rec.Body.String())
			continue
		}
		body := decodeBody(t, rec)
		if body["error"] != model.ErrMessageMissing {
			t.Errorf("%s: unexpected error %q", tc.name, body["error"])
		}
		if _, ok := body["details"]; ok {
			t.Errorf("%s: validation errors must not carry details", tc.name)
		}
	}
}

func TestHandleChat_MessageKeyIsCaseSensitive(t *testing.T) {
	router := newRouter(t, config.Default(), service.NewEchoService(nil))
	rec := postChat(t, router, "/api/chat", "application/json", `{"message":"hi","Message":42}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["response"]; got != "Echo: hi" {
		t.Errorf("unexpected response %q", got)
	}
}

func TestHandleChat_InternalError(t *testing.T) {
	router := newRouter(t, config.Default(), failingEchoer{err: errors.New("disk on fire")})
	rec := postChat(t, router, "/api/chat", "application/json", `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != model.ErrInternal || body["details"] != "disk on fire" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHandleChat_PanicBecomesInternalError(t *testing.T) {
	router := newRouter(t, config.Default(), panickingEchoer{})
	rec := postChat(t, router, "/api/chat", "application/json", `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != model.ErrInternal || body["details"] != "kaput" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHandleChat_ParserFaults(t *testing.T) {
	cfg := config.Default()
	cfg.MaxBodyBytes = 64
	router := newRouter(t, cfg, service.NewEchoService(nil))

	cases := map[string]struct {
		body    string
		details string
	}{
		"malformed": {`{"message": "hi"`, "invalid JSON body"},
		"primitive": {`"hi"`, "expected object or array"},
		"too large": {`{"message":"` + strings.Repeat("a", 100) + `"}`, "request entity too large"},
		"bad array": {`[1,`, "malformed array"},
	}
	for name, tc := range cases {
		rec := postChat(t, router, "/api/chat", "application/json", tc.body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", name, rec.Code)
			continue
		}
		body := decodeBody(t, rec)
		if body["error"] != model.ErrInternal {
			t.Errorf("%s: unexpected error %q", name, body["error"])
		}
		if !strings.Contains(body["details"], tc.details) {
			t.Errorf("%s: details %q should contain %q", name, body["details"], tc.details)
		}
	}
}

func TestHandleChat_HidesDetailsWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.ExposeErrorDetails = false
	router := newRouter(t, cfg, failingEchoer{err: errors.New("secret path /etc/x")})

	rec := postChat(t, router, "/api/chat", "application/json", `{"message":"hi"}`)
	body := decodeBody(t, rec)
	if _, ok := body["details"]; ok {
		t.Errorf("details should be omitted, got %v", body)
	}
}

func TestHandleChat_Idempotent(t *testing.T) {
	router := newRouter(t, config.Default(), service.NewEchoService(nil))
	a := decodeBody(t, postChat(t, router, "/api/chat", "application/json", `{"message":"again"}`))
	b := decodeBody(t, postChat(t, router, "/api/chat", "application/json", `{"message":"again"}`))
	if a["response"] != b["response"] {
		t.Errorf("responses differ: %q vs %q", a["response"], b["response"])
	}
}

func TestHandleHealthAndRoot(t *testing.T) {
	cfg := config.Default()
	cfg.EnableMCP = true
	router := newRouter(t, cfg, service.NewEchoService(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health: got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("root: got %d", rec.Code)
	}
	var info struct {
		Service   string                     `json:"service"`
		Endpoints map[string]json.RawMessage `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"chat", "health", "mcp"} {
		if _, ok := info.Endpoints[name]; !ok {
			t.Errorf("root should list %s endpoint", name)
		}
	}
}
