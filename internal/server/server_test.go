package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/observability"
	"github.com/matzehuels/pointmap/pkg/pipeline"
	"github.com/matzehuels/pointmap/pkg/render/sink"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func createMap(t *testing.T, h http.Handler, body any) stateResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/maps", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /maps = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[stateResponse](t, rec)
}

func sendEvent(t *testing.T, h http.Handler, id string, ev eventRequest) stateResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/maps/"+id+"/events", ev)
	if rec.Code != http.StatusOK {
		t.Fatalf("event %+v = %d: %s", ev, rec.Code, rec.Body.String())
	}
	return decode[stateResponse](t, rec)
}

func intPtr(i int) *int { return &i }

func TestHealth(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Server"); !strings.HasPrefix(got, "pointmap/") {
		t.Errorf("Server header = %q", got)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["locations"] != float64(81) {
		t.Errorf("body = %v", body)
	}
}

func TestRootRedirects(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	rec := do(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/map.html" {
		t.Errorf("GET / = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestArtifacts(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/map.svg", "image/svg+xml", `data-provinces=""`},
		{"/map.svg?static=true", "image/svg+xml", `class="province-point"`},
		{"/map.html", "text/html; charset=utf-8", `class="map-wrapper"`},
		{"/map.dot?labels=1", "text/vnd.graphviz; charset=utf-8", "layout=neato"},
		{"/map.json?radius=4", "application/json", `"markers"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestArtifactStaticOmitsScript(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	rec := do(t, h, http.MethodGet, "/map.svg?static=true", nil)
	if strings.Contains(rec.Body.String(), "<script") {
		t.Error("static SVG contains a script")
	}
}

func TestArtifactJSON(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	rec := do(t, h, http.MethodGet, "/map.json", nil)

	doc, err := sink.ParseJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(doc.Markers) != 81 {
		t.Errorf("markers = %d, want 81", len(doc.Markers))
	}
	if m := doc.Markers[5]; m.Location != "İstanbul" || m.X != 178 || m.Y != 144 {
		t.Errorf("marker 5 = %+v", m)
	}
}

func TestArtifactErrors(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	tests := []struct {
		path string
		code string
	}{
		{"/map.gif", "INVALID_FORMAT"},
		{"/map.svg?radius=big", "INVALID_INPUT"},
		{"/map.svg?radius=-1", "INVALID_INPUT"},
		{"/map.svg?static=maybe", "INVALID_INPUT"},
		{"/map.svg?jitter=sometimes", "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if body := decode[errorBody](t, rec); body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := newTestServer(t, Config{Runner: pipeline.NewRunner(fc, nil, nil)}).Handler()

	first := do(t, h, http.MethodGet, "/map.svg", nil)
	second := do(t, h, http.MethodGet, "/map.svg", nil)

	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached SVG differs from rendered SVG")
	}
}

func TestCreateMap(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	st := createMap(t, h, nil)

	if st.ID == "" {
		t.Error("empty map ID")
	}
	if st.Visible || st.Active != nil {
		t.Errorf("new map state = %+v", st)
	}
	if st.Markers != 81 {
		t.Errorf("markers = %d, want 81", st.Markers)
	}

	rec := do(t, h, http.MethodPost, "/maps", map[string]any{"colour": "red"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d, want 400", rec.Code)
	}
}

func TestEventFlow(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createMap(t, h, nil).ID

	st := sendEvent(t, h, id, eventRequest{Type: "pointerenter", Region: "Marmara", Location: "İstanbul", X: 300, Y: 200})
	if !st.Visible || st.Text != "İstanbul" || st.X != 300 || st.Y != 200 {
		t.Errorf("after enter: %+v", st)
	}
	if st.Active == nil || st.Active.ID != 5 {
		t.Fatalf("active = %+v, want marker 5", st.Active)
	}

	st = sendEvent(t, h, id, eventRequest{Type: "pointermove", Marker: intPtr(5), X: 310, Y: 205})
	if st.X != 310 || st.Y != 205 {
		t.Errorf("after move: (%v, %v)", st.X, st.Y)
	}

	// Focus another marker: the old one is cleared before the new one is set.
	st = sendEvent(t, h, id, eventRequest{Type: "focus", Marker: intPtr(0)})
	if st.Text != "Balıkesir" || st.X != 150 || st.Y != 120 {
		t.Errorf("after focus: %+v", st)
	}
	want := []string{"deactivate(5)", `show("Balıkesir" @ 150.0,120.0)`, "activate(0)"}
	if strings.Join(st.Commands, " ") != strings.Join(want, " ") {
		t.Errorf("commands = %v, want %v", st.Commands, want)
	}

	st = sendEvent(t, h, id, eventRequest{Type: "keydown", Marker: intPtr(0), Key: "Enter"})
	if len(st.Commands) == 0 || st.Commands[0] != "prevent-default" {
		t.Errorf("keydown commands = %v", st.Commands)
	}

	// Leaving a marker that is not engaged changes nothing.
	st = sendEvent(t, h, id, eventRequest{Type: "pointerleave", Marker: intPtr(5)})
	if !st.Visible || len(st.Commands) != 0 {
		t.Errorf("stray leave: %+v", st)
	}

	st = sendEvent(t, h, id, eventRequest{Type: "blur", Marker: intPtr(0)})
	if st.Visible || st.Active != nil {
		t.Errorf("after blur: %+v", st)
	}

	rec := do(t, h, http.MethodGet, "/maps/"+id, nil)
	if got := decode[stateResponse](t, rec); got.Visible || got.Text != "Balıkesir" {
		t.Errorf("GET state = %+v", got)
	}
}

func TestEventViewport(t *testing.T) {
	s := newTestServer(t, Config{})
	h := s.Handler()
	vb := s.viewBox

	id := createMap(t, h, map[string]any{
		"viewport": map[string]float64{
			"left":   100,
			"top":    50,
			"width":  vb.Width() * 2,
			"height": vb.Height() * 2,
		},
	}).ID

	st := sendEvent(t, h, id, eventRequest{Type: "mouseenter", Marker: intPtr(0), X: 250, Y: 170})
	if st.X != 150 || st.Y != 120 {
		t.Errorf("pointer position = (%v, %v), want (150, 120)", st.X, st.Y)
	}

	st = sendEvent(t, h, id, eventRequest{Type: "focus", Region: "Marmara", Location: "İstanbul"})
	wantX := layout.Round1((178 - vb.MinX) * 2)
	wantY := layout.Round1((144 - vb.MinY) * 2)
	if st.X != wantX || st.Y != wantY {
		t.Errorf("keyboard position = (%v, %v), want (%v, %v)", st.X, st.Y, wantX, wantY)
	}
}

func TestEventErrors(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createMap(t, h, nil).ID
	sendEvent(t, h, id, eventRequest{Type: "focus", Marker: intPtr(3)})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown type", "/maps/" + id + "/events", eventRequest{Type: "click", Marker: intPtr(0)}, 400, "INVALID_EVENT"},
		{"unknown marker", "/maps/" + id + "/events", eventRequest{Type: "focus", Marker: intPtr(81)}, 400, "INVALID_EVENT"},
		{"unknown location", "/maps/" + id + "/events", eventRequest{Type: "focus", Region: "Ege", Location: "Bursa"}, 400, "INVALID_EVENT"},
		{"no target", "/maps/" + id + "/events", eventRequest{Type: "focus"}, 400, "INVALID_EVENT"},
		{"bad body", "/maps/" + id + "/events", "not an object", 400, "INVALID_INPUT"},
		{"unknown map", "/maps/nope/events", eventRequest{Type: "focus", Marker: intPtr(0)}, 404, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if body := decode[errorBody](t, rec); body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}

	// Rejected events leave the map as it was.
	st := decode[stateResponse](t, do(t, h, http.MethodGet, "/maps/"+id, nil))
	if st.Active == nil || st.Active.ID != 3 || !st.Visible {
		t.Errorf("state after rejected events = %+v", st)
	}
}

func TestMapsAreIndependent(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	a := createMap(t, h, nil).ID
	b := createMap(t, h, nil).ID

	sendEvent(t, h, a, eventRequest{Type: "focus", Marker: intPtr(10)})

	st := decode[stateResponse](t, do(t, h, http.MethodGet, "/maps/"+b, nil))
	if st.Visible || st.Active != nil {
		t.Errorf("map b changed by events on map a: %+v", st)
	}
}

func TestDeleteMap(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createMap(t, h, nil).ID

	if rec := do(t, h, http.MethodDelete, "/maps/"+id, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/maps/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
}

func TestMapExpires(t *testing.T) {
	h := newTestServer(t, Config{SessionTTL: 10 * time.Millisecond}).Handler()
	id := createMap(t, h, nil).ID

	time.Sleep(30 * time.Millisecond)

	rec := do(t, h, http.MethodGet, "/maps/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET expired map = %d, want 404", rec.Code)
	}
	if body := decode[errorBody](t, rec); !strings.Contains(body.Error.Message, "expired") {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_FORMAT", 400},
		{"INVALID_EVENT", 400},
		{"MISSING_LAYOUT", 400},
		{"DUPLICATE_LOCATION", 400},
		{"EMPTY_LOCATION", 400},
		{"NOT_FOUND", 404},
		{"INTERNAL_ERROR", 500},
		{"UNSUPPORTED", 500},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := statusFor(errors.Code(tt.code)); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu    sync.Mutex
	paths []string
	codes []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
	h.codes = append(h.codes, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t, Config{}).Handler()
	id := createMap(t, h, nil).ID
	do(t, h, http.MethodGet, "/maps/"+id, nil)
	do(t, h, http.MethodGet, "/map.gif", nil)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.paths) != 3 {
		t.Fatalf("hook calls = %d, want 3", len(hooks.paths))
	}
	if strings.Contains(hooks.paths[1], id) {
		t.Errorf("reported path %q contains the map ID", hooks.paths[1])
	}
	if hooks.codes[0] != 201 || hooks.codes[1] != 200 || hooks.codes[2] != 400 {
		t.Errorf("statuses = %v", hooks.codes)
	}
}
