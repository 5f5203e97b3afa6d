package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/glideshow/internal/config"
	"github.com/dshills/glideshow/internal/dispatch"
	"github.com/dshills/glideshow/internal/input/gesture"
	"github.com/dshills/glideshow/internal/logging"
	"github.com/dshills/glideshow/internal/resource"
	"github.com/dshills/glideshow/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "glideshow.yaml")
	content := "slideshow:\n  paused_on_start: true\n  status_format: \"{img_idx}/{img_total} {img_name}\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := config.Resolve(config.Options{FilePath: cfgPath})
	require.NoError(t, err)

	items := make([]resource.Descriptor, 4)
	for i := range items {
		name := fmt.Sprintf("img%02d.jpg", i)
		items[i] = resource.Descriptor{Name: name, Path: name, AbsPath: filepath.Join(dir, name)}
	}
	resources := resource.NewList(items)

	dispatcher, err := dispatch.New(cfg, resources, logging.NullLogger)
	require.NoError(t, err)

	sessions := session.NewManager(session.Settings{
		Total:         resources.Len(),
		SpeedSeconds:  3,
		PausedOnStart: true,
		Thresholds:    gesture.DefaultThresholds(),
		MaxSessions:   16,
	}, dispatcher.TimerFired)
	dispatcher.SetSessions(sessions)
	t.Cleanup(sessions.Close)

	srv := New(cfg, resources, sessions, dispatcher, logging.NullLogger)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, sessionID, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

// newSessionID creates a session through the status endpoint and
// returns its identifier.
func newSessionID(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := gjson.Get(body, "state.session_id").String()
	require.NotEmpty(t, id)
	return id
}

func TestResourcesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/resources", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(4), gjson.Get(body, "total").Int())
	assert.Equal(t, "img00", gjson.Get(body, "resources.0.name").String())
}

func TestConfigEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/config", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, gjson.Get(body, "slideshow.speed").Float())
	assert.True(t, gjson.Get(body, "hotkeys.common").IsObject())
}

func TestActionsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/actions", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var found bool
	for _, a := range gjson.Get(body, "actions").Array() {
		if a.Get("name").String() == "navigate_next" {
			found = true
			assert.Equal(t, "navigation", a.Get("category").String())
		}
	}
	assert.True(t, found, "navigate_next missing from actions listing")
}

func TestStatusCreatesAndReusesSession(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/status", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := gjson.Get(body, "state.session_id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, id, resp.Header.Get("X-Session-ID"))
	assert.Equal(t, "1/4 img00", gjson.Get(body, "state.status_line").String())

	// Presenting the ID reuses the session instead of creating another.
	resp2, body2 := doJSON(t, ts, http.MethodGet, "/api/status", id, "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, id, gjson.Get(body2, "state.session_id").String())
	assert.Empty(t, resp2.Header.Get("X-Session-ID"), "existing session should not re-announce")
}

func TestExecuteEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/execute", id,
		`{"action": "navigate_next"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "state.current_index").Int())

	resp, body = doJSON(t, ts, http.MethodPost, "/api/execute", id,
		`{"action": "note", "params": {"text": ""}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", gjson.Get(body, "error.kind").String())
}

func TestExecuteUnknownAction(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/execute", id,
		`{"action": "warp_drive"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", gjson.Get(body, "error.kind").String())
}

func TestKeyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/key", id,
		`{"key": "ArrowRight"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "arrowright", gjson.Get(body, "token").String())
	assert.Equal(t, int64(1), gjson.Get(body, "state.current_index").Int())

	// Unbound keys report a noop, not an error.
	resp, body = doJSON(t, ts, http.MethodPost, "/api/key", id,
		`{"key": "z", "modifiers": ["ctrl", "alt"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "noop", gjson.Get(body, "status").String())
	assert.Equal(t, "ctrl+alt+z", gjson.Get(body, "token").String())
}

func TestGestureEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/gesture", id,
		`{"phase": "start", "contacts": [{"id": 0, "x": 200, "y": 100}], "time_ms": 1000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "noop", gjson.Get(body, "status").String())

	resp, body = doJSON(t, ts, http.MethodPost, "/api/gesture", id,
		`{"phase": "end", "contacts": [{"id": 0, "x": 100, "y": 100}], "time_ms": 1150}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "swipe_left", gjson.Get(body, "token").String())
	assert.Equal(t, int64(1), gjson.Get(body, "state.current_index").Int())
}

func TestGestureValidation(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/gesture", id,
		`{"phase": "sideways"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", gjson.Get(body, "error.kind").String())
}

func TestMappingsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/mappings/hotkeys?context=browsing", id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "navigate_next", gjson.Get(body, "mappings.arrowright").String())
	assert.Equal(t, "remember", gjson.Get(body, "mappings.m").String())

	resp, body = doJSON(t, ts, http.MethodPut, "/api/mappings/hotkeys", id,
		`{"context": "browsing", "key": "Z", "action": "toggle_repeat"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, gjson.Get(body, "success").Bool())

	resp, body = doJSON(t, ts, http.MethodGet, "/api/mappings/hotkeys?context=browsing", id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "toggle_repeat", gjson.Get(body, "mappings.z").String())

	// Gestures mirror the same shape.
	resp, body = doJSON(t, ts, http.MethodPut, "/api/mappings/gestures", id,
		`{"context": "browsing", "gesture": "four_finger_tap", "action": "toggle_shuffle"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/mappings/gestures?context=browsing", id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "toggle_shuffle", gjson.Get(body, "mappings.four_finger_tap").String())
}

func TestMappingsUnknownKind(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/mappings/chords", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", gjson.Get(body, "error.kind").String())
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)
	id := newSessionID(t, ts)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/execute", id, `{"action": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", gjson.Get(body, "error.kind").String())
}
