package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/babelmark/babelmark/internal/benchmark"
)

type stubRunner struct {
	run *benchmark.Run
	err error
	req benchmark.TranslationRequest
}

func (s *stubRunner) Execute(_ context.Context, req benchmark.TranslationRequest) (*benchmark.Run, error) {
	s.req = req
	if err := req.Validate(5000); err != nil {
		return nil, err
	}
	return s.run, s.err
}

type stubReader struct {
	runs  map[string]*benchmark.Run
	items []benchmark.RunListItem
	err   error
}

func (s *stubReader) GetRun(_ context.Context, runID string) (*benchmark.Run, error) {
	if s.err != nil {
		return nil, s.err
	}
	run, ok := s.runs[runID]
	if !ok {
		return nil, benchmark.ErrRunNotFound
	}
	return run, nil
}

func (s *stubReader) ListRuns(_ context.Context, limit, offset int) ([]benchmark.RunListItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func sampleRun() *benchmark.Run {
	score := 88.0
	return &benchmark.Run{
		ID:         "run-1",
		SourceText: "Hello",
		TargetLang: "de",
		Results: []benchmark.ProviderReport{{
			Outcome:    benchmark.ProviderOutcome{Provider: "openai", Model: "gpt-4", OutputText: "Hallo", LatencyMS: 100},
			Evaluation: &benchmark.ScoreBreakdown{Overall: 88},
		}},
		Summary: benchmark.RunSummary{
			TotalProviders: 1,
			Rankings:       []benchmark.RankingEntry{{Rank: 1, Provider: "openai", Model: "gpt-4", Score: 88, LatencyMS: 100}},
			BestProvider:   "openai",
			BestScore:      &score,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newTestServer(t *testing.T, runner Runner, reader RunReader) *Server {
	t.Helper()
	srv, err := New(0, runner, reader, testLogger())
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, &stubReader{})

	rec := doJSON(t, srv, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleProviders(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, &stubReader{})

	rec := doJSON(t, srv, http.MethodGet, "/api/providers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Types []string `json:"types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Types) == 0 {
		t.Error("expected at least one provider type")
	}
}

func TestHandleRun_OK(t *testing.T) {
	runner := &stubRunner{run: sampleRun()}
	srv := newTestServer(t, runner, &stubReader{})

	rec := doJSON(t, srv, http.MethodPost, "/api/run",
		`{"text":"Hello","target_lang":"de","providers":[{"type":"openai","model":"gpt-4"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var run benchmark.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("failed to decode run: %v", err)
	}
	if run.ID != "run-1" || run.Summary.BestProvider != "openai" {
		t.Errorf("unexpected run: %+v", run)
	}
	if runner.req.TargetLang != "de" {
		t.Errorf("request not forwarded: %+v", runner.req)
	}
}

func TestHandleRun_ValidationErrors(t *testing.T) {
	srv := newTestServer(t, &stubRunner{run: sampleRun()}, &stubReader{})

	cases := []struct {
		name string
		body string
	}{
		{"empty text", `{"text":"","target_lang":"de","providers":[{"type":"openai"}]}`},
		{"no providers", `{"text":"hi","target_lang":"de","providers":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/run", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRun_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, &stubReader{})

	rec := doJSON(t, srv, http.MethodPost, "/api/run", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRun_ComputedButNotPersisted(t *testing.T) {
	run := sampleRun()
	run.ID = ""
	runner := &stubRunner{run: run, err: errors.New("run computed but not persisted: disk full")}
	srv := newTestServer(t, runner, &stubReader{})

	rec := doJSON(t, srv, http.MethodPost, "/api/run",
		`{"text":"Hello","target_lang":"de","providers":[{"type":"openai"}]}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var got benchmark.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode run: %v", err)
	}
	if got.Summary.BestProvider != "openai" {
		t.Errorf("expected the computed run in the body, got %+v", got)
	}
}

func TestHandleRun_InternalError(t *testing.T) {
	runner := &stubRunner{err: errors.New("registry exploded")}
	srv := newTestServer(t, runner, &stubReader{})

	rec := doJSON(t, srv, http.MethodPost, "/api/run",
		`{"text":"Hello","target_lang":"de","providers":[{"type":"openai"}]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHandleGetRun(t *testing.T) {
	reader := &stubReader{runs: map[string]*benchmark.Run{"run-1": sampleRun()}}
	srv := newTestServer(t, &stubRunner{}, reader)

	rec := doJSON(t, srv, http.MethodGet, "/api/run/run-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/run/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleRunReport(t *testing.T) {
	reader := &stubReader{runs: map[string]*benchmark.Run{"run-1": sampleRun()}}
	srv := newTestServer(t, &stubRunner{}, reader)

	rec := doJSON(t, srv, http.MethodGet, "/api/run/run-1/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected an HTML response, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "openai") {
		t.Errorf("expected provider in report, got %s", rec.Body.String())
	}
}

func TestHandleListRuns(t *testing.T) {
	reader := &stubReader{items: []benchmark.RunListItem{{ID: "run-1", TargetLang: "de"}}}
	srv := newTestServer(t, &stubRunner{}, reader)

	rec := doJSON(t, srv, http.MethodGet, "/api/runs?limit=10&offset=0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []benchmark.RunListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode items: %v", err)
	}
	if len(items) != 1 || items[0].ID != "run-1" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestHandleListRuns_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, &stubReader{})

	rec := doJSON(t, srv, http.MethodGet, "/api/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected an empty JSON array, got %s", rec.Body.String())
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(8080, nil, &stubReader{}, nil); err == nil {
		t.Error("expected an error for a nil runner")
	}
	if _, err := New(8080, &stubRunner{}, nil, nil); err == nil {
		t.Error("expected an error for a nil run reader")
	}
}
