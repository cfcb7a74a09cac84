package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/playback"
	"github.com/matzehuels/dijkstraviz/pkg/session"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	srv := newServer(newTestSession(t), config.Default(), newLogger(io.Discard, log.InfoLevel))
	return srv, srv.routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestServeGetGraph(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /graph status = %d, want 200", rec.Code)
	}
	g, err := graph.Unmarshal(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if g.Len() != 5 || g.EdgeCount() != 5 {
		t.Errorf("graph = %d nodes, %d edges, want 5, 5", g.Len(), g.EdgeCount())
	}
}

func TestServePostGraph(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/graph", `{"nodes": 40, "probability": 0.05}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /graph status = %d, want 201: %s", rec.Code, rec.Body)
	}
	info := decode[session.Info](t, rec)
	if info.Nodes != 40 {
		t.Errorf("Nodes = %d, want 40", info.Nodes)
	}
	if got := srv.lastStatus(); got != "Generated: 40 nodes, p=0.05" {
		t.Errorf("status = %q", got)
	}

	rec = do(t, h, http.MethodPost, "/graph", `{"nodes": 0, "probability": 0.05}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /graph with 0 nodes status = %d, want 400", rec.Code)
	}
	if got := decode[errorResponse](t, rec).Code; got != errors.ErrCodeInvalidNodeCount {
		t.Errorf("error code = %q, want %q", got, errors.ErrCodeInvalidNodeCount)
	}

	rec = do(t, h, http.MethodPost, "/graph", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /graph with bad body status = %d, want 400", rec.Code)
	}
}

func TestServeSelect(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		path     string
		wantCode int
		wantSel  session.Selection
	}{
		{"/select/0", http.StatusOK, session.Selection{Source: 0, Target: graph.NoNode}},
		{"/select/4", http.StatusOK, session.Selection{Source: 0, Target: 4}},
		{"/select/2", http.StatusOK, session.Selection{Source: 2, Target: graph.NoNode}},
		{"/select/9", http.StatusBadRequest, session.Selection{}},
		{"/select/abc", http.StatusBadRequest, session.Selection{}},
	}

	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, tt.path, "")
		if rec.Code != tt.wantCode {
			t.Errorf("POST %s status = %d, want %d", tt.path, rec.Code, tt.wantCode)
			continue
		}
		if tt.wantCode != http.StatusOK {
			if got := decode[errorResponse](t, rec).Code; got != errors.ErrCodeInvalidNode {
				t.Errorf("POST %s code = %q, want %q", tt.path, got, errors.ErrCodeInvalidNode)
			}
			continue
		}
		if got := decode[session.Selection](t, rec); got != tt.wantSel {
			t.Errorf("POST %s = %+v, want %+v", tt.path, got, tt.wantSel)
		}
	}
}

func TestServeStartWithoutSource(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/search/start", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("POST /search/start status = %d, want 409", rec.Code)
	}
	resp := decode[errorResponse](t, rec)
	if resp.Code != errors.ErrCodeNoSource || resp.Message != "Pick a source and a target" {
		t.Errorf("error = %+v", resp)
	}
}

func TestServeRunToDone(t *testing.T) {
	srv, h := newTestServer(t)

	do(t, h, http.MethodPost, "/select/0", "")
	do(t, h, http.MethodPost, "/select/4", "")
	rec := do(t, h, http.MethodPost, "/search/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /search/start status = %d: %s", rec.Code, rec.Body)
	}
	if decode[startResponse](t, rec).RunID == "" {
		t.Error("run id is empty")
	}

	if _, done := srv.session.Finish(time.Second); !done {
		t.Fatal("run did not finish")
	}

	rec = do(t, h, http.MethodGet, "/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /state status = %d", rec.Code)
	}
	st := decode[stateResponse](t, rec)
	if st.Status != "Done. dist[4]=5.0" {
		t.Errorf("Status = %q", st.Status)
	}
	if st.PhaseName != "done" {
		t.Errorf("PhaseName = %q, want done", st.PhaseName)
	}
	if want := []int{0, 1, 2, 3, 4}; !slices.Equal(st.Path, want) {
		t.Errorf("Path = %v, want %v", st.Path, want)
	}
	if want := []int{0, 1, 2, 3, 4}; !slices.Equal(st.Visited, want) {
		t.Errorf("Visited = %v, want %v", st.Visited, want)
	}
	if st.Distances[4] != 5 {
		t.Errorf("Distances[4] = %v, want 5", st.Distances[4])
	}
}

func TestServePauseAndReset(t *testing.T) {
	srv, h := newTestServer(t)

	do(t, h, http.MethodPost, "/select/0", "")
	do(t, h, http.MethodPost, "/search/start", "")

	info := decode[session.Info](t, do(t, h, http.MethodPost, "/search/pause", ""))
	if !info.Paused || info.Playing {
		t.Errorf("after pause: Paused = %v, Playing = %v", info.Paused, info.Playing)
	}
	if st := decode[stateResponse](t, do(t, h, http.MethodGet, "/state", "")); st.Status != "Paused" {
		t.Errorf("Status = %q, want Paused", st.Status)
	}

	info = decode[session.Info](t, do(t, h, http.MethodPost, "/search/reset", ""))
	if info.Selection.Source != graph.NoNode || info.Applied != 0 {
		t.Errorf("after reset: %+v", info)
	}
	if got := srv.lastStatus(); got != statusReady {
		t.Errorf("status = %q, want %q", got, statusReady)
	}
}

func TestServePutRate(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		body     string
		wantCode int
		wantRate float64
	}{
		{`{"rate": 60}`, http.StatusOK, 60},
		{`{"rate": 1000}`, http.StatusOK, playback.MaxRate},
		{`{"rate": 0.2}`, http.StatusOK, playback.MinRate},
		{`{"rate": -1}`, http.StatusBadRequest, 0},
		{`nope`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		rec := do(t, h, http.MethodPut, "/playback/rate", tt.body)
		if rec.Code != tt.wantCode {
			t.Errorf("PUT %s status = %d, want %d", tt.body, rec.Code, tt.wantCode)
			continue
		}
		if tt.wantCode == http.StatusOK {
			if got := decode[rateRequest](t, rec).Rate; got != tt.wantRate {
				t.Errorf("PUT %s rate = %v, want %v", tt.body, got, tt.wantRate)
			}
		}
	}
}

func TestServeRenderDOT(t *testing.T) {
	srv, h := newTestServer(t)
	if err := srv.session.SetSelection(0, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := srv.session.Start(); err != nil {
		t.Fatal(err)
	}
	srv.session.Finish(time.Second)

	rec := do(t, h, http.MethodGet, "/render.dot?weights=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /render.dot status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"graph G {", "0 -- 1", "penwidth=3", `label="2"`} {
		if !strings.Contains(body, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeNoGraph, http.StatusConflict},
		{errors.ErrCodeNoSource, http.StatusConflict},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := httpStatus(tt.code); got != tt.want {
			t.Errorf("httpStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
