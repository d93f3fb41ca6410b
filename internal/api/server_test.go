package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VirEgo/park-tycoon/internal/catalog"
	"github.com/VirEgo/park-tycoon/internal/config"
	"github.com/VirEgo/park-tycoon/internal/engine"
	"github.com/VirEgo/park-tycoon/internal/rng"
)

const testKey = "secret"

type memStore struct {
	saved []*engine.Snapshot
	err   error
}

func (m *memStore) Save(s *engine.Snapshot) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, s)
	return "save-1", nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := &Server{
		Park:     engine.NewPark(config.Default(), catalog.Default(), rng.New(42)),
		Store:    &memStore{},
		AdminKey: testKey,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path, key, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func decodeResult(t *testing.T, resp *http.Response) engine.Result {
	t.Helper()
	var res engine.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res
}

func TestStatus(t *testing.T) {
	_, ts := newTestServer(t)
	var st engine.Status
	if code := get(t, ts, "/api/v1/status", &st); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if st.Day != 1 || st.Width != 20 || st.Height != 15 {
		t.Fatalf("expected day 1 on a 20x15 park, got day %d %dx%d", st.Day, st.Width, st.Height)
	}
}

func TestCommandsRequireAdminKey(t *testing.T) {
	s, ts := newTestServer(t)
	body := `{"id":"shooting","x":11,"y":13}`

	if resp := post(t, ts, "/api/v1/place", "", body); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := post(t, ts, "/api/v1/place", "wrong", body); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", resp.StatusCode)
	}

	s.AdminKey = ""
	if resp := post(t, ts, "/api/v1/place", testKey, body); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 with admin disabled, got %d", resp.StatusCode)
	}
}

func TestPlaceAndInspect(t *testing.T) {
	_, ts := newTestServer(t)

	resp := post(t, ts, "/api/v1/place", testKey, `{"id":"shooting","x":11,"y":13}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if res := decodeResult(t, resp); !res.Success || res.Cost <= 0 {
		t.Fatalf("expected a paid placement, got %+v", res)
	}

	var b engine.BuildingView
	if code := get(t, ts, "/api/v1/building/11/13", &b); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if b.ID != "shooting" || b.Level != 1 {
		t.Fatalf("expected level 1 shooting, got %+v", b)
	}
	if code := get(t, ts, "/api/v1/building/0/0", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 on grass, got %d", code)
	}
	if code := get(t, ts, "/api/v1/building/a/0", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad coordinates, got %d", code)
	}

	var list []engine.BuildingView
	get(t, ts, "/api/v1/buildings", &list)
	found := false
	for _, v := range list {
		found = found || v.ID == "shooting"
	}
	if !found {
		t.Fatalf("expected shooting in building list, got %+v", list)
	}
}

func TestCommandBodyValidation(t *testing.T) {
	_, ts := newTestServer(t)
	for _, body := range []string{
		`{"id":"shooting","x":11}`,
		`{"id":"shooting","x":11,"y":13,"extra":1}`,
		`{"id":"shooting","x":-1,"y":13}`,
		`{"id":"","x":1,"y":1}`,
		`not json`,
	} {
		if resp := post(t, ts, "/api/v1/place", testKey, body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, resp.StatusCode)
		}
	}
}

func TestCommandFailureCodes(t *testing.T) {
	_, ts := newTestServer(t)

	resp := post(t, ts, "/api/v1/plot", testKey, `{"id":"plot-northeast-1"}`)
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}
	if res := decodeResult(t, resp); res.Code != engine.CodeInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %s", res.Code)
	}

	resp = post(t, ts, "/api/v1/upgrade", testKey, `{"x":0,"y":0}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp = post(t, ts, "/api/v1/place", testKey, `{"id":"shooting","x":10,"y":14}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on occupied entrance, got %d", resp.StatusCode)
	}
	if res := decodeResult(t, resp); res.Code != engine.CodeInvalidPlacement {
		t.Fatalf("expected invalid placement, got %s", res.Code)
	}
}

func TestPauseAndGates(t *testing.T) {
	s, ts := newTestServer(t)

	resp := post(t, ts, "/api/v1/pause", testKey, "")
	var out map[string]bool
	json.NewDecoder(resp.Body).Decode(&out)
	if !out["paused"] || !s.Park.Paused() {
		t.Fatalf("expected park paused, got %v", out)
	}

	post(t, ts, "/api/v1/park-open", testKey, `{"open":false}`)
	var st engine.Status
	get(t, ts, "/api/v1/status", &st)
	if !st.Closed {
		t.Fatal("expected park closed")
	}
}

func TestSave(t *testing.T) {
	s, ts := newTestServer(t)
	s.SnapshotDir = t.TempDir()

	resp := post(t, ts, "/api/v1/save", testKey, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	if out["id"] != "save-1" || out["snapshot"] == nil {
		t.Fatalf("expected save id and snapshot path, got %v", out)
	}
	if got := len(s.Store.(*memStore).saved); got != 1 {
		t.Fatalf("expected 1 stored snapshot, got %d", got)
	}

	s.Store.(*memStore).err = errors.New("disk full")
	if resp := post(t, ts, "/api/v1/save", testKey, ""); resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 on store failure, got %d", resp.StatusCode)
	}
}

func TestNotificationsSince(t *testing.T) {
	s, ts := newTestServer(t)
	first := s.Park.Notifier().Publish(1, "first")
	s.Park.Notifier().Publish(1, "second")

	var notes []engine.Notification
	get(t, ts, "/api/v1/notifications?since="+strconv.FormatUint(first.Seq, 10), &notes)
	if len(notes) != 1 || notes[0].Message != "second" {
		t.Fatalf("expected only the second note, got %+v", notes)
	}
	if code := get(t, ts, "/api/v1/notifications?since=x", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestWebsocketStreamsNotifications(t *testing.T) {
	s, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws?since=0"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	s.Park.SetOpen(false)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var n engine.Notification
		if err := conn.ReadJSON(&n); err != nil {
			t.Fatalf("read: %v", err)
		}
		if n.Message == "Park closed!" {
			return
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("expected first two requests allowed")
	}
	if rl.Allow("a") {
		t.Fatal("expected third request limited")
	}
	if !rl.Allow("b") {
		t.Fatal("expected other ip unaffected")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Fatalf("expected retry after 61s, got %d", got)
	}
	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("expected window reset")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", rec.Code)
	}
}

func TestSchemasCompile(t *testing.T) {
	for _, name := range []string{"place", "coord", "theme", "park-open", "plot"} {
		if _, ok := commandSchemas[name]; !ok {
			t.Fatalf("expected schema %q", name)
		}
	}
	if err := validateCommand("theme", []byte(`{"x":1,"y":2,"theme":"pirate"}`)); err != nil {
		t.Fatalf("expected valid theme body, got %v", err)
	}
	if err := validateCommand("park-open", []byte(`{"open":"yes"}`)); err == nil {
		t.Fatal("expected string open to be rejected")
	}
}
